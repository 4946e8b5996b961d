// Package sendprogram is the hand-maintained typed client for the SOL send
// program. It is the "generated" route for this program; other programs go
// through the schema-driven codec.
package sendprogram

import (
	"encoding/binary"

	"github.com/aman-zulfiqar/solana-txkit/internal/constants"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58(constants.ProgramAddresses["SendProgram"])

var (
	SendSolDiscriminator    = [8]byte{214, 24, 219, 18, 3, 205, 201, 179}
	InitializeDiscriminator = [8]byte{175, 175, 109, 31, 13, 152, 155, 237}
	GetStatsDiscriminator   = [8]byte{241, 65, 112, 185, 230, 140, 139, 177}
)

// NewSendSolInstruction transfers lamports through the send program.
// Data layout: discriminator || amount (u64 LE) || recipient (32 bytes).
func NewSendSolInstruction(
	amount uint64,
	recipient solana.PublicKey,
	sendAccount solana.PublicKey,
	sender solana.PublicKey,
) solana.Instruction {

	data := make([]byte, 0, 48)
	data = append(data, SendSolDiscriminator[:]...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = append(data, recipient.Bytes()...)

	accounts := solana.AccountMetaSlice{
		solana.Meta(sendAccount).WRITE(),
		solana.Meta(sender).WRITE().SIGNER(),
		solana.Meta(recipient).WRITE(),
		solana.Meta(solana.SystemProgramID),
	}

	return solana.NewInstruction(ProgramID, accounts, data)
}

// NewInitializeInstruction creates the per-user send account PDA.
func NewInitializeInstruction(
	sendAccount solana.PublicKey,
	user solana.PublicKey,
) solana.Instruction {

	accounts := solana.AccountMetaSlice{
		solana.Meta(sendAccount).WRITE(),
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	}

	return solana.NewInstruction(ProgramID, accounts, InitializeDiscriminator[:])
}

// NewGetStatsInstruction reads the send account counters.
func NewGetStatsInstruction(sendAccount solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.Meta(sendAccount),
	}
	return solana.NewInstruction(ProgramID, accounts, GetStatsDiscriminator[:])
}

// FindSendAccount derives the per-user send account PDA.
func FindSendAccount(user solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{[]byte("send_account"), user.Bytes()},
		ProgramID,
	)
}
