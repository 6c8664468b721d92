// internal/types/pubkey.go
package types

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrZeroPubkey is returned when a present key would be indistinguishable
// from the absent sentinel on the wire.
var ErrZeroPubkey = errors.New("all-zero public key cannot be stored as a present key")

// OptionalPubkey is a public key that may be absent. On the wire an absent
// key is encoded as 32 zero bytes.
type OptionalPubkey struct {
	key     solana.PublicKey
	present bool
}

// SomePubkey wraps a present key.
func SomePubkey(key solana.PublicKey) OptionalPubkey {
	return OptionalPubkey{key: key, present: true}
}

// NonePubkey returns the absent key.
func NonePubkey() OptionalPubkey {
	return OptionalPubkey{}
}

// Get returns the key and whether it is present.
func (o OptionalPubkey) Get() (solana.PublicKey, bool) {
	return o.key, o.present
}

func (o OptionalPubkey) IsSome() bool {
	return o.present
}

func (o OptionalPubkey) Equals(other OptionalPubkey) bool {
	if o.present != other.present {
		return false
	}
	return !o.present || o.key.Equals(other.key)
}

func (o OptionalPubkey) String() string {
	if !o.present {
		return "none"
	}
	return o.key.String()
}

// Bytes returns the 32-byte wire form. A present all-zero key is rejected.
func (o OptionalPubkey) Bytes() ([32]byte, error) {
	var out [32]byte
	if !o.present {
		return out, nil
	}
	if o.key.IsZero() {
		return out, ErrZeroPubkey
	}
	copy(out[:], o.key[:])
	return out, nil
}

// OptionalPubkeyFromBytes decodes the 32-byte wire form.
func OptionalPubkeyFromBytes(b [32]byte) OptionalPubkey {
	key := solana.PublicKeyFromBytes(b[:])
	if key.IsZero() {
		return NonePubkey()
	}
	return SomePubkey(key)
}
