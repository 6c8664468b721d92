// internal/token/multisig.go
package token

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

const (
	MaxSigners   = 11
	MultisigSize = 3 + MaxSigners*32
)

// Multisig is an m-of-n signer set that can stand in for a single
// authority.
type Multisig struct {
	M             uint8
	N             uint8
	IsInitialized bool
	Signers       [MaxSigners]solana.PublicKey
}

// NewMultisig builds an initialized m-of-len(signers) set.
func NewMultisig(m uint8, signers ...solana.PublicKey) (Multisig, error) {
	if len(signers) == 0 || len(signers) > MaxSigners {
		return Multisig{}, fmt.Errorf("%d signers: %w", len(signers), tokenerr.ErrInvalidArgument)
	}
	if m == 0 || int(m) > len(signers) {
		return Multisig{}, fmt.Errorf("threshold %d of %d: %w", m, len(signers), tokenerr.ErrInvalidArgument)
	}
	ms := Multisig{M: m, N: uint8(len(signers)), IsInitialized: true}
	copy(ms.Signers[:], signers)
	return ms, nil
}

func (ms Multisig) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(ms.M); err != nil {
		return err
	}
	if err := enc.WriteUint8(ms.N); err != nil {
		return err
	}
	if err := enc.WriteBool(ms.IsInitialized); err != nil {
		return err
	}
	for _, signer := range ms.Signers {
		if err := enc.WriteBytes(signer[:], false); err != nil {
			return err
		}
	}
	return nil
}

func (ms *Multisig) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if ms.M, err = dec.ReadUint8(); err != nil {
		return err
	}
	if ms.N, err = dec.ReadUint8(); err != nil {
		return err
	}
	if ms.IsInitialized, err = dec.ReadBool(); err != nil {
		return err
	}
	for i := range ms.Signers {
		raw, err := dec.ReadNBytes(32)
		if err != nil {
			return err
		}
		ms.Signers[i] = solana.PublicKeyFromBytes(raw)
	}
	return nil
}

// Pack returns the account data of the multisig.
func (ms Multisig) Pack() ([]byte, error) {
	var buf bytes.Buffer
	if err := ms.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackMultisig reads multisig account data.
func UnpackMultisig(data []byte) (Multisig, error) {
	var ms Multisig
	if len(data) != MultisigSize {
		return ms, fmt.Errorf("multisig of %d bytes: %w", len(data), tokenerr.ErrInvalidAccountData)
	}
	if err := ms.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return ms, fmt.Errorf("decode multisig: %w", tokenerr.ErrInvalidAccountData)
	}
	if !ms.IsInitialized {
		return ms, tokenerr.ErrUninitializedState
	}
	if ms.N > MaxSigners || ms.M > ms.N {
		return ms, fmt.Errorf("multisig %d of %d: %w", ms.M, ms.N, tokenerr.ErrInvalidAccountData)
	}
	return ms, nil
}
