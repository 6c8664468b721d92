// internal/token/extension.go
package token

import (
	"fmt"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/binary"
)

// Extended account layout: base mint, zero padding up to the size of a token
// account, one account-type byte, then type-length-value extension entries.
const (
	AccountSize       = 165
	AccountTypeOffset = AccountSize
	tlvStart          = AccountTypeOffset + 1
	tlvHeaderSize     = 4
)

const (
	AccountTypeUninitialized byte = 0
	AccountTypeMint          byte = 1
)

// ExtensionType identifies a TLV entry. Zero marks unused space.
type ExtensionType uint16

const (
	ExtensionUninitialized ExtensionType = 0
	ExtensionRebaseMint    ExtensionType = 28
)

func (t ExtensionType) String() string {
	switch t {
	case ExtensionUninitialized:
		return "Uninitialized"
	case ExtensionRebaseMint:
		return "RebaseMint"
	default:
		return fmt.Sprintf("ExtensionType(%d)", uint16(t))
	}
}

// MintLen returns the account size for a mint carrying extensions of the
// given value sizes.
func MintLen(extensionSizes ...int) int {
	if len(extensionSizes) == 0 {
		return MintSize
	}
	n := tlvStart
	for _, size := range extensionSizes {
		n += tlvHeaderSize + size
	}
	if n == MultisigSize {
		// Keep mints distinguishable from multisig accounts by length.
		n += tlvHeaderSize
	}
	return n
}

// AllocateMint returns a zeroed buffer sized for the given extensions.
func AllocateMint(extensionSizes ...int) []byte {
	return make([]byte, MintLen(extensionSizes...))
}

// StateWithExtensions is a view over a mint buffer. Writes through the
// returned slices go straight to the underlying account data.
type StateWithExtensions struct {
	data []byte
	base []byte
	tlv  []byte
}

func checkLayout(data []byte) error {
	switch {
	case len(data) < MintSize:
		return fmt.Errorf("mint buffer of %d bytes: %w", len(data), tokenerr.ErrInvalidAccountData)
	case len(data) == MintSize:
		return nil
	case len(data) < tlvStart, len(data) == MultisigSize:
		return fmt.Errorf("extended mint buffer of %d bytes: %w", len(data), tokenerr.ErrInvalidAccountData)
	}
	for _, b := range data[MintSize:AccountTypeOffset] {
		if b != 0 {
			return fmt.Errorf("non-zero mint padding: %w", tokenerr.ErrInvalidAccountData)
		}
	}
	if t := data[AccountTypeOffset]; t != AccountTypeUninitialized && t != AccountTypeMint {
		return fmt.Errorf("account type %d is not a mint: %w", t, tokenerr.ErrInvalidAccountData)
	}
	return nil
}

func newStateWithExtensions(data []byte) (*StateWithExtensions, error) {
	if err := checkLayout(data); err != nil {
		return nil, err
	}
	s := &StateWithExtensions{data: data, base: data[:MintSize]}
	if len(data) > MintSize {
		s.tlv = data[tlvStart:]
	}
	return s, nil
}

// UnpackUninitialized opens a mint whose base fields are not initialized
// yet.
func UnpackUninitialized(data []byte) (*StateWithExtensions, error) {
	s, err := newStateWithExtensions(data)
	if err != nil {
		return nil, err
	}
	if binary.ReadBool(s.base, isInitializedOffset) {
		return nil, tokenerr.ErrAlreadyInUse
	}
	return s, nil
}

// Unpack opens an initialized mint.
func Unpack(data []byte) (*StateWithExtensions, error) {
	s, err := newStateWithExtensions(data)
	if err != nil {
		return nil, err
	}
	if !binary.ReadBool(s.base, isInitializedOffset) {
		return nil, tokenerr.ErrUninitializedState
	}
	return s, nil
}

// UnpackUnchecked opens a mint buffer without looking at the base
// initialization flag. It is meant for read-only inspection.
func UnpackUnchecked(data []byte) (*StateWithExtensions, error) {
	return newStateWithExtensions(data)
}

type tlvEntry struct {
	typ    ExtensionType
	offset int
	length int
}

// entries walks the TLV region. free is the offset of the first unused
// entry, or -1 when the region is full.
func (s *StateWithExtensions) entries() (list []tlvEntry, free int, err error) {
	off := 0
	for off+tlvHeaderSize <= len(s.tlv) {
		typ := ExtensionType(binary.ReadUint16LittleEndian(s.tlv, off))
		if typ == ExtensionUninitialized {
			return list, off, nil
		}
		length := int(binary.ReadUint16LittleEndian(s.tlv, off+2))
		end := off + tlvHeaderSize + length
		if end > len(s.tlv) {
			return nil, -1, fmt.Errorf("extension %d overruns account data: %w", typ, tokenerr.ErrInvalidAccountData)
		}
		list = append(list, tlvEntry{typ: typ, offset: off + tlvHeaderSize, length: length})
		off = end
	}
	return list, -1, nil
}

// ExtensionTypes lists the extensions present in the buffer.
func (s *StateWithExtensions) ExtensionTypes() ([]ExtensionType, error) {
	list, _, err := s.entries()
	if err != nil {
		return nil, err
	}
	out := make([]ExtensionType, 0, len(list))
	for _, e := range list {
		out = append(out, e.typ)
	}
	return out, nil
}

// InitExtension claims space for a new extension and returns its zeroed
// value region. It fails if the extension is already present.
func (s *StateWithExtensions) InitExtension(t ExtensionType, length int) ([]byte, error) {
	list, free, err := s.entries()
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.typ == t {
			return nil, tokenerr.ErrExtensionAlreadyInitialized
		}
	}
	if free < 0 || free+tlvHeaderSize+length > len(s.tlv) {
		return nil, fmt.Errorf("no space for extension %d: %w", t, tokenerr.ErrInvalidAccountData)
	}

	binary.WriteUint16LittleEndian(uint16(t), s.tlv, free)
	binary.WriteUint16LittleEndian(uint16(length), s.tlv, free+2)
	s.data[AccountTypeOffset] = AccountTypeMint

	value := s.tlv[free+tlvHeaderSize : free+tlvHeaderSize+length]
	clear(value)
	return value, nil
}

// GetExtensionMut returns the value region of an existing extension.
func (s *StateWithExtensions) GetExtensionMut(t ExtensionType, length int) ([]byte, error) {
	list, _, err := s.entries()
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.typ != t {
			continue
		}
		if e.length != length {
			return nil, fmt.Errorf("extension %d has length %d, want %d: %w", t, e.length, length, tokenerr.ErrInvalidAccountData)
		}
		return s.tlv[e.offset : e.offset+e.length], nil
	}
	return nil, tokenerr.ErrExtensionNotFound
}
