package types

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalPubkeyWireForm(t *testing.T) {
	key := solana.NewWallet().PublicKey()

	b, err := SomePubkey(key).Bytes()
	require.NoError(t, err)
	assert.Equal(t, key[:], b[:])

	decoded := OptionalPubkeyFromBytes(b)
	got, ok := decoded.Get()
	assert.True(t, ok)
	assert.True(t, got.Equals(key))
}

func TestOptionalPubkeyNone(t *testing.T) {
	b, err := NonePubkey().Bytes()
	require.NoError(t, err)
	assert.Equal(t, [32]byte{}, b)

	decoded := OptionalPubkeyFromBytes(b)
	assert.False(t, decoded.IsSome())
	assert.Equal(t, "none", decoded.String())
}

func TestOptionalPubkeyRejectsZeroKey(t *testing.T) {
	_, err := SomePubkey(solana.PublicKey{}).Bytes()
	assert.ErrorIs(t, err, ErrZeroPubkey)
}

func TestOptionalPubkeyEquals(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	assert.True(t, NonePubkey().Equals(NonePubkey()))
	assert.True(t, SomePubkey(a).Equals(SomePubkey(a)))
	assert.False(t, SomePubkey(a).Equals(SomePubkey(b)))
	assert.False(t, SomePubkey(a).Equals(NonePubkey()))
}
