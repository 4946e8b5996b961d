package codec

import (
	"errors"
	"testing"

	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionalAccountEncoder(t *testing.T) *Encoder {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	reg := schema.NewRegistry(logger)
	idl := `{
		"address": "` + testProgramID + `",
		"instructions": [{
			"name": "configure",
			"discriminator": [9, 9, 9, 9, 9, 9, 9, 9],
			"accounts": [
				{"name": "state", "writable": true},
				{"name": "authority", "signer": true},
				{"name": "delegate", "optional": true}
			],
			"args": []
		}]
	}`
	require.NoError(t, reg.Load(testProgramID, []byte(idl)))
	return NewEncoder(reg)
}

func TestBuildAccountMetasOrderAndFlags(t *testing.T) {
	enc := newTestEncoder(t)
	inst, err := enc.registry.LookupInstruction(testProgramID, "send_sol")
	require.NoError(t, err)

	sendAccount := solana.NewWallet().PublicKey()
	sender := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	metas, err := BuildAccountMetas(inst, map[string]solana.PublicKey{
		"system_program": solana.SystemProgramID,
		"recipient":      recipient,
		"sender":         sender,
		"send_account":   sendAccount,
	})
	require.NoError(t, err)

	// Schema order, not map order.
	require.Len(t, metas, 4)
	assert.Equal(t, sendAccount, metas[0].PublicKey)
	assert.True(t, metas[0].IsWritable)
	assert.False(t, metas[0].IsSigner)
	assert.Equal(t, sender, metas[1].PublicKey)
	assert.True(t, metas[1].IsSigner)
	assert.Equal(t, recipient, metas[2].PublicKey)
	assert.Equal(t, solana.SystemProgramID, metas[3].PublicKey)
	assert.False(t, metas[3].IsWritable)
}

func TestBuildAccountMetasMissingRequired(t *testing.T) {
	enc := newTestEncoder(t)
	inst, err := enc.registry.LookupInstruction(testProgramID, "send_sol")
	require.NoError(t, err)

	_, err = BuildAccountMetas(inst, map[string]solana.PublicKey{
		"send_account": solana.NewWallet().PublicKey(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrMissingAccount))
	assert.Contains(t, err.Error(), "sender")
}

func TestBuildAccountMetasSkipsAbsentOptional(t *testing.T) {
	enc := optionalAccountEncoder(t)
	inst, err := enc.registry.LookupInstruction(testProgramID, "configure")
	require.NoError(t, err)

	metas, err := BuildAccountMetas(inst, map[string]solana.PublicKey{
		"state":     solana.NewWallet().PublicKey(),
		"authority": solana.NewWallet().PublicKey(),
	})
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	delegate := solana.NewWallet().PublicKey()
	metas, err = BuildAccountMetas(inst, map[string]solana.PublicKey{
		"state":     solana.NewWallet().PublicKey(),
		"authority": solana.NewWallet().PublicKey(),
		"delegate":  delegate,
	})
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, delegate, metas[2].PublicKey)
}

func TestBuildInstructionAssemblesEverything(t *testing.T) {
	enc := newTestEncoder(t)
	recipient := solana.NewWallet().PublicKey()

	ix, err := enc.BuildInstruction(testProgramID, "send_sol",
		map[string]any{
			"amount":    uint64(1_000_000_000),
			"recipient": recipient.String(),
		},
		map[string]solana.PublicKey{
			"send_account":   solana.NewWallet().PublicKey(),
			"sender":         solana.NewWallet().PublicKey(),
			"recipient":      recipient,
			"system_program": solana.SystemProgramID,
		})
	require.NoError(t, err)

	assert.Equal(t, testProgramID, ix.ProgramID().String())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Len(t, data, 48)
	assert.Len(t, ix.Accounts(), 4)
}

func TestParseAccountAddresses(t *testing.T) {
	pk := solana.NewWallet().PublicKey()

	out, err := ParseAccountAddresses(map[string]string{"sender": pk.String()})
	require.NoError(t, err)
	assert.Equal(t, pk, out["sender"])

	_, err = ParseAccountAddresses(map[string]string{"sender": "bogus!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalidAddress))
}
