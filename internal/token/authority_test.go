package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

func newKeys(n int) []solana.PublicKey {
	keys := make([]solana.PublicKey, n)
	for i := range keys {
		keys[i] = solana.NewWallet().PublicKey()
	}
	return keys
}

func TestValidateOwnerSingle(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	signed := &AccountInfo{Key: authority, IsSigner: true}
	assert.NoError(t, ValidateOwner(program, authority, signed, nil))

	unsigned := &AccountInfo{Key: authority}
	assert.ErrorIs(t, ValidateOwner(program, authority, unsigned, nil), tokenerr.ErrMissingRequiredSignature)

	stranger := &AccountInfo{Key: solana.NewWallet().PublicKey(), IsSigner: true}
	err := ValidateOwner(program, authority, stranger, nil)
	assert.ErrorIs(t, err, tokenerr.ErrOwnerMismatch)
	kind, _ := tokenerr.KindOf(err)
	assert.Equal(t, tokenerr.KindAuthority, kind)
}

func multisigAccount(t *testing.T, program solana.PublicKey, m uint8, signers []solana.PublicKey) *AccountInfo {
	t.Helper()
	ms, err := NewMultisig(m, signers...)
	require.NoError(t, err)
	data, err := ms.Pack()
	require.NoError(t, err)
	require.Len(t, data, MultisigSize)
	return &AccountInfo{Key: solana.NewWallet().PublicKey(), Owner: program, Data: data}
}

func TestValidateOwnerMultisig(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	keys := newKeys(3)
	owner := multisigAccount(t, program, 2, keys)

	signer := func(k solana.PublicKey) *AccountInfo { return &AccountInfo{Key: k, IsSigner: true} }

	t.Run("quorum", func(t *testing.T) {
		err := ValidateOwner(program, owner.Key, owner, []*AccountInfo{signer(keys[0]), signer(keys[2])})
		assert.NoError(t, err)
	})

	t.Run("duplicate signer counts once", func(t *testing.T) {
		err := ValidateOwner(program, owner.Key, owner, []*AccountInfo{signer(keys[1]), signer(keys[1])})
		assert.ErrorIs(t, err, tokenerr.ErrMissingRequiredSignature)
	})

	t.Run("listed but not signing", func(t *testing.T) {
		err := ValidateOwner(program, owner.Key, owner, []*AccountInfo{signer(keys[0]), {Key: keys[1]}})
		assert.ErrorIs(t, err, tokenerr.ErrMissingRequiredSignature)
	})

	t.Run("outsiders ignored", func(t *testing.T) {
		err := ValidateOwner(program, owner.Key, owner, []*AccountInfo{signer(keys[0]), signer(solana.NewWallet().PublicKey())})
		assert.ErrorIs(t, err, tokenerr.ErrMissingRequiredSignature)
	})

	t.Run("foreign owner treated as single key", func(t *testing.T) {
		foreign := *owner
		foreign.Owner = solana.NewWallet().PublicKey()
		err := ValidateOwner(program, foreign.Key, &foreign, []*AccountInfo{signer(keys[0]), signer(keys[1])})
		assert.ErrorIs(t, err, tokenerr.ErrMissingRequiredSignature)
	})
}

func TestMultisigValidation(t *testing.T) {
	_, err := NewMultisig(0, newKeys(2)...)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidArgument)
	_, err = NewMultisig(3, newKeys(2)...)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidArgument)
	_, err = NewMultisig(1, newKeys(MaxSigners+1)...)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidArgument)

	_, err = UnpackMultisig(make([]byte, MultisigSize))
	assert.ErrorIs(t, err, tokenerr.ErrUninitializedState)
	_, err = UnpackMultisig(make([]byte, 10))
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)

	keys := newKeys(2)
	ms, err := NewMultisig(2, keys...)
	require.NoError(t, err)
	data, err := ms.Pack()
	require.NoError(t, err)
	got, err := UnpackMultisig(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), got.M)
	assert.Equal(t, uint8(2), got.N)
	assert.True(t, got.Signers[1].Equals(keys[1]))
	assert.True(t, got.Signers[2].IsZero())
}
