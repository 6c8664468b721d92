// internal/token/mint.go
package token

import (
	"fmt"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/binary"
)

// Base mint layout.
const (
	MintSize = 82

	mintAuthorityOffset   = 0
	supplyOffset          = 36
	decimalsOffset        = 44
	isInitializedOffset   = 45
	freezeAuthorityOffset = 46
)

// Mint holds the base fields of a mint account.
type Mint struct {
	MintAuthority   types.OptionalPubkey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority types.OptionalPubkey
}

func unpackMint(base []byte) Mint {
	return Mint{
		MintAuthority:   binary.ReadCOptionPubKey(base, mintAuthorityOffset),
		Supply:          binary.ReadUint64LittleEndian(base, supplyOffset),
		Decimals:        base[decimalsOffset],
		IsInitialized:   binary.ReadBool(base, isInitializedOffset),
		FreezeAuthority: binary.ReadCOptionPubKey(base, freezeAuthorityOffset),
	}
}

func (m Mint) pack(base []byte) {
	binary.WriteCOptionPubKey(m.MintAuthority, base, mintAuthorityOffset)
	binary.WriteUint64LittleEndian(m.Supply, base, supplyOffset)
	base[decimalsOffset] = m.Decimals
	binary.WriteBool(m.IsInitialized, base, isInitializedOffset)
	binary.WriteCOptionPubKey(m.FreezeAuthority, base, freezeAuthorityOffset)
}

// UnpackMint reads the base fields of a mint buffer, with or without
// extensions.
func UnpackMint(data []byte) (Mint, error) {
	if err := checkLayout(data); err != nil {
		return Mint{}, err
	}
	return unpackMint(data[:MintSize]), nil
}

// InitializeMint finalizes the base mint. Extensions that must precede the
// base initialization have to be written before this is called.
func InitializeMint(data []byte, decimals uint8, mintAuthority, freezeAuthority types.OptionalPubkey) error {
	state, err := UnpackUninitialized(data)
	if err != nil {
		return err
	}
	if err := validateAuthority(mintAuthority); err != nil {
		return err
	}
	if err := validateAuthority(freezeAuthority); err != nil {
		return err
	}

	Mint{
		MintAuthority:   mintAuthority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}.pack(state.base)
	if len(state.data) > MintSize {
		state.data[AccountTypeOffset] = AccountTypeMint
	}
	return nil
}

func validateAuthority(key types.OptionalPubkey) error {
	if _, err := key.Bytes(); err != nil {
		return fmt.Errorf("%v: %w", err, tokenerr.ErrInvalidArgument)
	}
	return nil
}
