// internal/rebase/processor/processor.go
package processor

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rebase-mint/internal/rebase"
	"github.com/rovshanmuradov/rebase-mint/internal/rebase/instruction"
	"github.com/rovshanmuradov/rebase-mint/internal/token"
	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/metrics"
)

// Processor executes rebase extension instructions against account
// buffers. Every instruction is loaded, validated and only then committed:
// a rejected instruction leaves all account data untouched.
type Processor struct {
	programID solana.PublicKey
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// New creates a processor for programID. collector may be nil.
func New(programID solana.PublicKey, logger *zap.Logger, collector *metrics.Collector) *Processor {
	return &Processor{
		programID: programID,
		logger:    logger.Named("rebase-processor"),
		metrics:   collector,
	}
}

// ProgramID returns the program the processor answers for.
func (p *Processor) ProgramID() solana.PublicKey {
	return p.programID
}

// ProcessInstruction runs one instruction. data carries the outer family
// tag followed by the extension opcode and payload.
func (p *Processor) ProcessInstruction(programID solana.PublicKey, accounts []*token.AccountInfo, data []byte) error {
	start := time.Now()
	name := "unknown"

	err := func() error {
		if !programID.Equals(p.programID) {
			return tokenerr.ErrIncorrectProgramID
		}
		input, err := instruction.StripFamilyTag(data)
		if err != nil {
			return err
		}
		decoded, err := instruction.Decode(input)
		if err != nil {
			return err
		}

		switch decoded.Opcode {
		case instruction.OpInitialize:
			name = "initialize"
			p.logger.Debug("RebaseMint: Initialize")
			return p.processInitialize(accounts, decoded.Initialize)
		case instruction.OpRebaseSupply:
			name = "rebase_supply"
			p.logger.Debug("RebaseMint: RebaseSupply")
			return p.processRebaseSupply(accounts, decoded.RebaseSupply)
		default:
			return fmt.Errorf("opcode %s: %w", decoded.Opcode, tokenerr.ErrInvalidInstructionData)
		}
	}()

	result := metrics.ResultOK
	if err != nil {
		result = "other"
		if kind, ok := tokenerr.KindOf(err); ok {
			result = kind.String()
		}
		p.logger.Warn("Instruction rejected", zap.String("instruction", name), zap.Error(err))
	}
	p.metrics.RecordInstruction(name, result, time.Since(start))
	return err
}

func (p *Processor) mintAccount(iter *token.AccountIter) (*token.AccountInfo, error) {
	mint, err := iter.Next()
	if err != nil {
		return nil, err
	}
	if !mint.Owner.Equals(p.programID) {
		return nil, fmt.Errorf("mint %s owned by %s: %w", mint.Key, mint.Owner, tokenerr.ErrIncorrectProgramID)
	}
	if !mint.IsWritable {
		return nil, fmt.Errorf("mint %s is not writable: %w", mint.Key, tokenerr.ErrInvalidArgument)
	}
	return mint, nil
}

func (p *Processor) processInitialize(accounts []*token.AccountInfo, data *instruction.InitializeData) error {
	iter := token.NewAccountIter(accounts)
	mint, err := p.mintAccount(iter)
	if err != nil {
		return err
	}

	// Load
	state, err := token.UnpackUninitialized(mint.Data)
	if err != nil {
		return err
	}

	// Validate
	next := rebase.NewState(uint64(data.InitialSupply), data.SupplyAuthority)
	packed := make([]byte, rebase.StateSize)
	if err := next.Pack(packed); err != nil {
		return err
	}

	// Commit
	region, err := state.InitExtension(token.ExtensionRebaseMint, rebase.StateSize)
	if err != nil {
		return err
	}
	copy(region, packed)

	p.logger.Info("Rebase extension initialized",
		zap.String("mint", mint.Key.String()),
		zap.Uint64("total_supply", next.TotalSupply),
		zap.Stringer("rebase_authority", next.RebaseAuthority))
	p.metrics.UpdateMintState(mint.Key.String(), next.TotalSupply, next.TotalShares, next.RoundingErrorCarry)
	return nil
}

func (p *Processor) processRebaseSupply(accounts []*token.AccountInfo, data *instruction.RebaseSupplyData) error {
	iter := token.NewAccountIter(accounts)
	mint, err := p.mintAccount(iter)
	if err != nil {
		return err
	}
	ownerInfo, err := iter.Next()
	if err != nil {
		return err
	}

	// Load
	state, err := token.Unpack(mint.Data)
	if err != nil {
		return err
	}
	region, err := state.GetExtensionMut(token.ExtensionRebaseMint, rebase.StateSize)
	if err != nil {
		return err
	}
	current, err := rebase.Unpack(region)
	if err != nil {
		return err
	}

	// Validate
	authority, ok := current.RebaseAuthority.Get()
	if !ok {
		return tokenerr.ErrNoAuthorityExists
	}
	if err := token.ValidateOwner(p.programID, authority, ownerInfo, iter.Rest()); err != nil {
		return err
	}
	next, err := current.Rebase(uint64(data.NewSupply))
	if err != nil {
		return err
	}

	// Commit
	if err := next.Pack(region); err != nil {
		return err
	}

	p.logger.Info("Supply rebased",
		zap.String("mint", mint.Key.String()),
		zap.Uint64("old_supply", current.TotalSupply),
		zap.Uint64("new_supply", next.TotalSupply),
		zap.Uint64("total_shares", next.TotalShares),
		zap.Uint16("rounding_error_carry", next.RoundingErrorCarry))
	p.metrics.UpdateMintState(mint.Key.String(), next.TotalSupply, next.TotalShares, next.RoundingErrorCarry)
	return nil
}

// LoadState reads the rebase record from a mint buffer whether or not the
// base mint is initialized.
func LoadState(data []byte) (rebase.State, error) {
	state, err := token.UnpackUnchecked(data)
	if err != nil {
		return rebase.State{}, err
	}
	region, err := state.GetExtensionMut(token.ExtensionRebaseMint, rebase.StateSize)
	if err != nil {
		return rebase.State{}, err
	}
	return rebase.Unpack(region)
}
