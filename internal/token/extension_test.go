package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

const testExtensionSize = 50

func TestMintLen(t *testing.T) {
	assert.Equal(t, MintSize, MintLen())
	assert.Equal(t, 166+4+testExtensionSize, MintLen(testExtensionSize))
	assert.Equal(t, 166+4+10+4+20, MintLen(10, 20))
}

func TestInitExtensionThenMint(t *testing.T) {
	data := AllocateMint(testExtensionSize)

	state, err := UnpackUninitialized(data)
	require.NoError(t, err)

	value, err := state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	require.NoError(t, err)
	require.Len(t, value, testExtensionSize)
	value[0] = 0xAA
	assert.Equal(t, byte(0xAA), data[tlvStart+tlvHeaderSize])
	assert.Equal(t, AccountTypeMint, data[AccountTypeOffset])

	authority := types.SomePubkey(solana.NewWallet().PublicKey())
	require.NoError(t, InitializeMint(data, 6, authority, types.NonePubkey()))

	mint, err := UnpackMint(data)
	require.NoError(t, err)
	assert.True(t, mint.IsInitialized)
	assert.Equal(t, uint8(6), mint.Decimals)
	assert.True(t, mint.MintAuthority.Equals(authority))
	assert.False(t, mint.FreezeAuthority.IsSome())

	initialized, err := Unpack(data)
	require.NoError(t, err)
	got, err := initialized.GetExtensionMut(ExtensionRebaseMint, testExtensionSize)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), got[0])

	present, err := initialized.ExtensionTypes()
	require.NoError(t, err)
	assert.Equal(t, []ExtensionType{ExtensionRebaseMint}, present)
}

func TestExtensionTypeString(t *testing.T) {
	assert.Equal(t, "RebaseMint", ExtensionRebaseMint.String())
	assert.Equal(t, "Uninitialized", ExtensionUninitialized.String())
	assert.Equal(t, "ExtensionType(7)", ExtensionType(7).String())
}

func TestInitExtensionTwice(t *testing.T) {
	data := AllocateMint(testExtensionSize, testExtensionSize)
	state, err := UnpackUninitialized(data)
	require.NoError(t, err)

	_, err = state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	require.NoError(t, err)

	_, err = state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	assert.ErrorIs(t, err, tokenerr.ErrExtensionAlreadyInitialized)
	kind, _ := tokenerr.KindOf(err)
	assert.Equal(t, tokenerr.KindLayout, kind)
}

func TestInitExtensionWithoutSpace(t *testing.T) {
	state, err := UnpackUninitialized(AllocateMint())
	require.NoError(t, err)
	_, err = state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)

	state, err = UnpackUninitialized(AllocateMint(testExtensionSize - 1))
	require.NoError(t, err)
	_, err = state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)
}

func TestUnpackStateChecks(t *testing.T) {
	data := AllocateMint(testExtensionSize)

	_, err := Unpack(data)
	assert.ErrorIs(t, err, tokenerr.ErrUninitializedState)

	require.NoError(t, InitializeMint(data, 0, types.NonePubkey(), types.NonePubkey()))
	_, err = UnpackUninitialized(data)
	assert.ErrorIs(t, err, tokenerr.ErrAlreadyInUse)

	err = InitializeMint(data, 0, types.NonePubkey(), types.NonePubkey())
	assert.ErrorIs(t, err, tokenerr.ErrAlreadyInUse)
}

func TestCheckLayout(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "unallocated", data: nil},
		{name: "short", data: make([]byte, MintSize-1)},
		{name: "token account size", data: make([]byte, AccountSize)},
		{name: "multisig size", data: make([]byte, MultisigSize)},
		{name: "dirty padding", data: func() []byte {
			d := AllocateMint(testExtensionSize)
			d[MintSize+1] = 1
			return d
		}()},
		{name: "wrong account type", data: func() []byte {
			d := AllocateMint(testExtensionSize)
			d[AccountTypeOffset] = 2
			return d
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnpackUninitialized(tt.data)
			assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)
		})
	}
}

func TestGetExtensionMutErrors(t *testing.T) {
	data := AllocateMint(testExtensionSize)
	state, err := UnpackUninitialized(data)
	require.NoError(t, err)

	_, err = state.GetExtensionMut(ExtensionRebaseMint, testExtensionSize)
	assert.ErrorIs(t, err, tokenerr.ErrExtensionNotFound)

	_, err = state.InitExtension(ExtensionRebaseMint, testExtensionSize)
	require.NoError(t, err)
	_, err = state.GetExtensionMut(ExtensionRebaseMint, testExtensionSize+1)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)

	// Corrupt the length so the entry runs past the buffer.
	data[tlvStart+2] = 0xFF
	_, err = state.GetExtensionMut(ExtensionRebaseMint, testExtensionSize)
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)
}

func TestAccountIter(t *testing.T) {
	a := &AccountInfo{Key: solana.NewWallet().PublicKey()}
	b := &AccountInfo{Key: solana.NewWallet().PublicKey()}
	it := NewAccountIter([]*AccountInfo{a, b})

	got, err := it.Next()
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, []*AccountInfo{b}, it.Rest())

	_, err = it.Next()
	require.NoError(t, err)
	_, err = it.Next()
	assert.ErrorIs(t, err, tokenerr.ErrNotEnoughAccountKeys)
}

func TestAccountInfoClone(t *testing.T) {
	a := &AccountInfo{Key: solana.NewWallet().PublicKey(), Data: []byte{1, 2, 3}}
	c := a.Clone()
	c.Data[0] = 9
	assert.Equal(t, byte(1), a.Data[0])
	assert.True(t, c.Key.Equals(a.Key))
}
