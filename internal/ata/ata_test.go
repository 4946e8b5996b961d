package ata

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	exists bool
	err    error
	asked  []solana.PublicKey
}

func (f *fakeChecker) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	f.asked = append(f.asked, pubkey)
	return f.exists, f.err
}

func TestFindAssociatedTokenAddressIsDeterministic(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	a, _, err := FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	b, _, err := FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	other, _, err := FindAssociatedTokenAddress(solana.NewWallet().PublicKey(), mint)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestEnsureAccountExisting(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	checker := &fakeChecker{exists: true}

	res, err := NewManager(checker).EnsureAccount(context.Background(), owner, mint)
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Empty(t, res.PreIxs)

	expected, _, _ := FindAssociatedTokenAddress(owner, mint)
	assert.Equal(t, expected, res.Account)
	require.Len(t, checker.asked, 1)
	assert.Equal(t, expected, checker.asked[0])
}

func TestEnsureAccountMissingAddsCreateIx(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	checker := &fakeChecker{exists: false}

	res, err := NewManager(checker).EnsureAccount(context.Background(), owner, mint)
	require.NoError(t, err)

	assert.True(t, res.Created)
	require.Len(t, res.PreIxs, 1)

	ix := res.PreIxs[0]
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 7)
	assert.Equal(t, owner, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, res.Account, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
}

func TestEnsureAccountPropagatesCheckerError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("rpc down")}

	_, err := NewManager(checker).EnsureAccount(
		context.Background(),
		solana.NewWallet().PublicKey(),
		solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
	)
	assert.Error(t, err)
}
