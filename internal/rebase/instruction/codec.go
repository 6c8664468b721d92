// internal/rebase/instruction/codec.go
package instruction

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

// RebaseMintExtensionTag is the outer token instruction tag under which the
// rebase extension instructions are nested.
const RebaseMintExtensionTag uint8 = 44

// Opcode selects the extension instruction.
type Opcode uint8

const (
	OpInitialize   Opcode = 0
	OpRebaseSupply Opcode = 1
)

func (o Opcode) String() string {
	switch o {
	case OpInitialize:
		return "Initialize"
	case OpRebaseSupply:
		return "RebaseSupply"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

const (
	InitializeDataSize   = 32 + 2
	RebaseSupplyDataSize = 2
)

// InitializeData is the payload of Initialize.
type InitializeData struct {
	SupplyAuthority types.OptionalPubkey
	InitialSupply   uint16
}

func (d InitializeData) MarshalWithEncoder(enc *bin.Encoder) error {
	authority, err := d.SupplyAuthority.Bytes()
	if err != nil {
		return err
	}
	if err := enc.WriteBytes(authority[:], false); err != nil {
		return err
	}
	return enc.WriteUint16(d.InitialSupply, bin.LE)
}

func (d *InitializeData) UnmarshalWithDecoder(dec *bin.Decoder) error {
	raw, err := dec.ReadNBytes(32)
	if err != nil {
		return err
	}
	var authority [32]byte
	copy(authority[:], raw)
	d.SupplyAuthority = types.OptionalPubkeyFromBytes(authority)
	d.InitialSupply, err = dec.ReadUint16(bin.LE)
	return err
}

// RebaseSupplyData is the payload of RebaseSupply.
type RebaseSupplyData struct {
	NewSupply uint16
}

func (d RebaseSupplyData) MarshalWithEncoder(enc *bin.Encoder) error {
	return enc.WriteUint16(d.NewSupply, bin.LE)
}

func (d *RebaseSupplyData) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	d.NewSupply, err = dec.ReadUint16(bin.LE)
	return err
}

// Decoded is an extension instruction with exactly one payload set.
type Decoded struct {
	Opcode       Opcode
	Initialize   *InitializeData
	RebaseSupply *RebaseSupplyData
}

type payload interface {
	MarshalWithEncoder(enc *bin.Encoder) error
}

// StripFamilyTag checks the outer tag and returns the extension part of
// the instruction data.
func StripFamilyTag(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != RebaseMintExtensionTag {
		return nil, tokenerr.ErrInvalidInstructionData
	}
	return data[1:], nil
}

// DecodeInstructionType reads the opcode byte.
func DecodeInstructionType(input []byte) (Opcode, error) {
	if len(input) == 0 {
		return 0, tokenerr.ErrInvalidInstructionData
	}
	op := Opcode(input[0])
	if op != OpInitialize && op != OpRebaseSupply {
		return 0, fmt.Errorf("unknown opcode %d: %w", input[0], tokenerr.ErrInvalidInstructionData)
	}
	return op, nil
}

// Decode parses an extension instruction (opcode followed by payload). The
// payload must have exactly the size of the opcode's layout.
func Decode(input []byte) (Decoded, error) {
	op, err := DecodeInstructionType(input)
	if err != nil {
		return Decoded{}, err
	}
	data := input[1:]

	switch op {
	case OpInitialize:
		if len(data) != InitializeDataSize {
			return Decoded{}, fmt.Errorf("initialize payload of %d bytes: %w", len(data), tokenerr.ErrInvalidInstructionData)
		}
		var d InitializeData
		if err := d.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
			return Decoded{}, fmt.Errorf("decode initialize payload: %w", tokenerr.ErrInvalidInstructionData)
		}
		return Decoded{Opcode: op, Initialize: &d}, nil
	case OpRebaseSupply:
		if len(data) != RebaseSupplyDataSize {
			return Decoded{}, fmt.Errorf("rebase supply payload of %d bytes: %w", len(data), tokenerr.ErrInvalidInstructionData)
		}
		var d RebaseSupplyData
		if err := d.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
			return Decoded{}, fmt.Errorf("decode rebase supply payload: %w", tokenerr.ErrInvalidInstructionData)
		}
		return Decoded{Opcode: op, RebaseSupply: &d}, nil
	default:
		return Decoded{}, fmt.Errorf("unknown opcode %d: %w", uint8(op), tokenerr.ErrInvalidInstructionData)
	}
}

// Encode produces the full instruction data: family tag, opcode, payload.
func Encode(op Opcode, p payload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(RebaseMintExtensionTag)
	buf.WriteByte(byte(op))
	if err := p.MarshalWithEncoder(bin.NewBinEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", op, err)
	}
	return buf.Bytes(), nil
}
