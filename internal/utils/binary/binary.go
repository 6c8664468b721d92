// internal/utils/binary/binary.go
package binary

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

// COptionPubkeySize is the size of a C-style optional key: a 4-byte tag
// followed by the key.
const COptionPubkeySize = 4 + 32

// Callers are expected to have checked the slice length; the helpers below
// panic on short input like the encoding/binary functions they wrap.

// ReadUint64LittleEndian reads a uint64 from a byte slice in little-endian format
func ReadUint64LittleEndian(data []byte, offset int) uint64 {
	return binary.LittleEndian.Uint64(data[offset : offset+8])
}

// ReadUint16LittleEndian reads a uint16 from a byte slice in little-endian format
func ReadUint16LittleEndian(data []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(data[offset : offset+2])
}

// ReadBool reads a boolean from a byte slice (0 = false, non-zero = true)
func ReadBool(data []byte, offset int) bool {
	return data[offset] != 0
}

// ReadPubKey reads a Solana public key from a byte slice
func ReadPubKey(data []byte, offset int) solana.PublicKey {
	return solana.PublicKeyFromBytes(data[offset : offset+32])
}

// ReadCOptionPubKey reads a tagged optional key. Any non-zero tag means
// the key is present.
func ReadCOptionPubKey(data []byte, offset int) types.OptionalPubkey {
	if binary.LittleEndian.Uint32(data[offset:offset+4]) == 0 {
		return types.NonePubkey()
	}
	return types.SomePubkey(ReadPubKey(data, offset+4))
}

// WriteUint64LittleEndian writes a uint64 to a byte slice in little-endian format
func WriteUint64LittleEndian(val uint64, data []byte, offset int) {
	binary.LittleEndian.PutUint64(data[offset:offset+8], val)
}

// WriteUint16LittleEndian writes a uint16 to a byte slice in little-endian format
func WriteUint16LittleEndian(val uint16, data []byte, offset int) {
	binary.LittleEndian.PutUint16(data[offset:offset+2], val)
}

// WriteBool writes a boolean to a byte slice (false = 0, true = 1)
func WriteBool(val bool, data []byte, offset int) {
	if val {
		data[offset] = 1
	} else {
		data[offset] = 0
	}
}

// WritePubKey writes a Solana public key to a byte slice
func WritePubKey(key solana.PublicKey, data []byte, offset int) {
	copy(data[offset:offset+32], key[:])
}

// WriteCOptionPubKey writes a tagged optional key; an absent key is a zero
// tag followed by 32 zero bytes.
func WriteCOptionPubKey(key types.OptionalPubkey, data []byte, offset int) {
	pk, ok := key.Get()
	if !ok {
		clear(data[offset : offset+COptionPubkeySize])
		return
	}
	binary.LittleEndian.PutUint32(data[offset:offset+4], 1)
	WritePubKey(pk, data, offset+4)
}
