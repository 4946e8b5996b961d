package sendprogram

import "github.com/aman-zulfiqar/solana-txkit/internal/schema"

// ErrorOverrides maps the program's custom error codes to messages more
// specific than the generic schema error table.
var ErrorOverrides = map[uint32]string{
	6000: "Amount must be at least 0.001 SOL (1,000,000 lamports)",
	6001: "Unauthorized: sender does not own the send account",
}

// RegisterWith installs the override table on a schema registry so
// DecodeError prefers these messages for this program.
func RegisterWith(reg *schema.Registry) {
	reg.RegisterErrorOverrides(ProgramID.String(), ErrorOverrides)
}
