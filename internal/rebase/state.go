// internal/rebase/state.go
package rebase

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

const (
	// CarryScale is the fixed-point scale of RoundingErrorCarry: a carry of
	// CarryScale equals one whole share.
	CarryScale = 10_000

	// StateSize is the packed size of State inside the mint account.
	StateSize = 8 + 8 + 32 + 2
)

// State is the elastic-supply record attached to a mint.
//
// TotalShares/TotalSupply is the current conversion ratio. RoundingErrorCarry
// banks the fractional share left over by the previous rebase and is always
// below CarryScale.
type State struct {
	TotalSupply        uint64
	TotalShares        uint64
	RebaseAuthority    types.OptionalPubkey
	RoundingErrorCarry uint16
}

// NewState returns the record written by Initialize: shares start 1:1 with
// supply and nothing is carried.
func NewState(initialSupply uint64, authority types.OptionalPubkey) State {
	return State{
		TotalSupply:     initialSupply,
		TotalShares:     initialSupply,
		RebaseAuthority: authority,
	}
}

func (s State) MarshalWithEncoder(enc *bin.Encoder) error {
	authority, err := s.RebaseAuthority.Bytes()
	if err != nil {
		return err
	}
	if err := enc.WriteUint64(s.TotalSupply, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(s.TotalShares, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteBytes(authority[:], false); err != nil {
		return err
	}
	return enc.WriteUint16(s.RoundingErrorCarry, bin.LE)
}

func (s *State) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if s.TotalSupply, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if s.TotalShares, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	raw, err := dec.ReadNBytes(32)
	if err != nil {
		return err
	}
	var authority [32]byte
	copy(authority[:], raw)
	s.RebaseAuthority = types.OptionalPubkeyFromBytes(authority)
	s.RoundingErrorCarry, err = dec.ReadUint16(bin.LE)
	return err
}

// Pack writes the record into dst, which must be exactly StateSize bytes.
// dst is untouched when an error is returned.
func (s State) Pack(dst []byte) error {
	if len(dst) != StateSize {
		return fmt.Errorf("pack rebase state into %d bytes: %w", len(dst), tokenerr.ErrInvalidAccountData)
	}
	var buf bytes.Buffer
	if err := s.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return fmt.Errorf("pack rebase state: %w", tokenerr.ErrInvalidArgument)
	}
	copy(dst, buf.Bytes())
	return nil
}

// Unpack reads a record previously written by Pack.
func Unpack(src []byte) (State, error) {
	var s State
	if len(src) != StateSize {
		return s, fmt.Errorf("unpack rebase state from %d bytes: %w", len(src), tokenerr.ErrInvalidAccountData)
	}
	if err := s.UnmarshalWithDecoder(bin.NewBinDecoder(src)); err != nil {
		return s, fmt.Errorf("unpack rebase state: %w", tokenerr.ErrInvalidAccountData)
	}
	if s.RoundingErrorCarry >= CarryScale {
		return s, fmt.Errorf("rounding carry %d out of range: %w", s.RoundingErrorCarry, tokenerr.ErrInvalidAccountData)
	}
	return s, nil
}
