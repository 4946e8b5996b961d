// Package ata derives and provisions associated token accounts.
package ata

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// FindAssociatedTokenAddress derives the ATA PDA for (owner, mint).
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (ata solana.PublicKey, bump uint8, err error) {
	// Seeds: [owner, token_program, mint]
	return solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			solana.TokenProgramID.Bytes(),
			mint.Bytes(),
		},
		solana.SPLAssociatedTokenAccountProgramID,
	)
}

// NewCreateAssociatedTokenAccountIx builds an instruction to create an ATA.
// Account order (ATA program):
// 0. payer (signer, writable)
// 1. ata (writable)
// 2. owner (read-only)
// 3. mint (read-only)
// 4. system_program
// 5. token_program
// 6. rent_sysvar
func NewCreateAssociatedTokenAccountIx(
	payer solana.PublicKey,
	ata solana.PublicKey,
	owner solana.PublicKey,
	mint solana.PublicKey,
) solana.Instruction {
	accounts := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	// ATA create instruction data is empty.
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, accounts, nil)
}

// AccountChecker reports whether an account exists on-chain.
type AccountChecker interface {
	AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error)
}

// EnsuredAccount is the resolved ATA plus any instruction needed to make it
// usable before the main transaction body runs.
type EnsuredAccount struct {
	Account solana.PublicKey
	Created bool
	PreIxs  []solana.Instruction
}

// Manager resolves ATAs against live chain state.
type Manager struct {
	checker AccountChecker
}

func NewManager(checker AccountChecker) *Manager {
	return &Manager{checker: checker}
}

// EnsureAccount derives the owner's ATA for a mint and, when absent
// on-chain, prepends a create instruction paid for by the owner.
func (m *Manager) EnsureAccount(ctx context.Context, owner, mint solana.PublicKey) (*EnsuredAccount, error) {
	if m == nil || m.checker == nil {
		return nil, fmt.Errorf("ata: account checker is nil")
	}

	account, _, err := FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	exists, err := m.checker.AccountExists(ctx, account)
	if err != nil {
		return nil, err
	}
	if exists {
		return &EnsuredAccount{Account: account}, nil
	}

	createIx := NewCreateAssociatedTokenAccountIx(owner, account, owner, mint)
	return &EnsuredAccount{
		Account: account,
		Created: true,
		PreIxs:  []solana.Instruction{createIx},
	}, nil
}
