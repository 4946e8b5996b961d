package codec

import (
	"fmt"

	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/gagliardetto/solana-go"
)

// BuildAccountMetas resolves the caller-supplied account map against the
// schema's ordered account requirements. Required accounts must all be
// present; optional accounts are skipped when absent. Writable/signer flags
// always come from the schema, never from the caller.
func BuildAccountMetas(inst *schema.Instruction, accounts map[string]solana.PublicKey) ([]*solana.AccountMeta, error) {
	metas := make([]*solana.AccountMeta, 0, len(inst.Accounts))
	for _, acc := range inst.Accounts {
		pk, ok := accounts[acc.Name]
		if !ok {
			if acc.Optional {
				continue
			}
			return nil, fmt.Errorf("%w: %q", schema.ErrMissingAccount, acc.Name)
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  pk,
			IsWritable: acc.Writable,
			IsSigner:   acc.Signer,
		})
	}
	return metas, nil
}

// ParseAccountAddresses converts a name→base58 map into resolved public
// keys, failing on the first invalid address.
func ParseAccountAddresses(accounts map[string]string) (map[string]solana.PublicKey, error) {
	out := make(map[string]solana.PublicKey, len(accounts))
	for name, addr := range accounts {
		pk, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: account %q: %q", schema.ErrInvalidAddress, name, addr)
		}
		out[name] = pk
	}
	return out, nil
}

// BuildInstruction encodes the instruction data and assembles the account
// metas into a ready-to-use solana instruction.
func (e *Encoder) BuildInstruction(
	programID string,
	instruction string,
	args map[string]any,
	accounts map[string]solana.PublicKey,
) (solana.Instruction, error) {
	inst, err := e.registry.LookupInstruction(programID, instruction)
	if err != nil {
		return nil, err
	}

	data, err := e.Encode(programID, instruction, args)
	if err != nil {
		return nil, err
	}

	metas, err := BuildAccountMetas(inst, accounts)
	if err != nil {
		return nil, err
	}

	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("%w: program %q", schema.ErrInvalidAddress, programID)
	}

	return solana.NewInstruction(program, metas, data), nil
}
