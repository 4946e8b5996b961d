package sendprogram

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendSolInstructionLayout(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	sender := solana.NewWallet().PublicKey()
	sendAccount := solana.NewWallet().PublicKey()

	ix := NewSendSolInstruction(1_000_000_000, recipient, sendAccount, sender)

	data, err := ix.Data()
	require.NoError(t, err)

	require.Len(t, data, 48)
	assert.Equal(t, SendSolDiscriminator[:], data[:8])
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, recipient.Bytes(), data[16:48])
}

func TestNewSendSolInstructionAccounts(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	sender := solana.NewWallet().PublicKey()
	sendAccount := solana.NewWallet().PublicKey()

	ix := NewSendSolInstruction(1, recipient, sendAccount, sender)

	assert.Equal(t, ProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)

	assert.Equal(t, sendAccount, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.False(t, accounts[0].IsSigner)

	assert.Equal(t, sender, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.True(t, accounts[1].IsSigner)

	assert.Equal(t, recipient, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsWritable)

	assert.Equal(t, solana.SystemProgramID, accounts[3].PublicKey)
	assert.False(t, accounts[3].IsWritable)
}

func TestNewInitializeInstruction(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	sendAccount, _, err := FindSendAccount(user)
	require.NoError(t, err)

	ix := NewInitializeInstruction(sendAccount, user)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, InitializeDiscriminator[:], data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.True(t, accounts[1].IsSigner)
}

func TestNewGetStatsInstruction(t *testing.T) {
	sendAccount := solana.NewWallet().PublicKey()

	ix := NewGetStatsInstruction(sendAccount)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, GetStatsDiscriminator[:], data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 1)
	assert.False(t, accounts[0].IsWritable)
	assert.False(t, accounts[0].IsSigner)
}

func TestFindSendAccountIsDeterministic(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	a, bumpA, err := FindSendAccount(user)
	require.NoError(t, err)
	b, bumpB, err := FindSendAccount(user)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, bumpA, bumpB)
}
