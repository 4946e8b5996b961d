package constants

// Fee model used for simulation-derived fee estimates.
const (
	// Lamports charged per transaction signature.
	LamportsPerSignature = 5000
	// Lamports charged per 1000 consumed compute units (rough estimate).
	LamportsPerKiloComputeUnit = 100
)

// Redis keys for the program-route manifest store.
const (
	RedisKeyProgramIndex  = "programs:index"
	RedisKeyProgramPrefix = "programs:"
)

// Well-known program addresses.
var ProgramAddresses = map[string]string{
	"Jupiter":     "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
	"System":      "11111111111111111111111111111111",
	"Token":       "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
	"AssocToken":  "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL",
	"SendProgram": "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY",
	"HelloWorld":  "5PiuXarsz2F7Q6NpSCtdBbK6vroQWiGSdJZW3fPkjWHw",
}

// Token mint addresses by symbol.
var TokenMints = map[string]string{
	"SOL":  "So11111111111111111111111111111111111111112",
	"USDC": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"USDT": "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
	"RAY":  "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R",
	"BONK": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
}

// Token decimals by symbol.
var TokenDecimals = map[string]uint8{
	"SOL":  9,
	"USDC": 6,
	"USDT": 6,
	"RAY":  6,
	"BONK": 5,
}
