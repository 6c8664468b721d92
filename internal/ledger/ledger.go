// internal/ledger/ledger.go
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rebase-mint/internal/token"
	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

// ErrAccountExists is returned when creating an account under a taken key.
var ErrAccountExists = errors.New("account already exists")

// ErrReadOnlyModified is returned when an instruction changed the data of an
// account it did not mark writable.
var ErrReadOnlyModified = errors.New("read-only account modified")

// InstructionProcessor runs one instruction against the accounts it lists.
type InstructionProcessor interface {
	ProcessInstruction(programID solana.PublicKey, accounts []*token.AccountInfo, data []byte) error
}

// Ledger is a local account store that executes instructions atomically:
// the processor works on copies which are written back only on success.
type Ledger struct {
	mu        sync.Mutex
	accounts  map[solana.PublicKey]*token.AccountInfo
	processor InstructionProcessor
	logger    *zap.Logger
}

// New creates an empty ledger.
func New(processor InstructionProcessor, logger *zap.Logger) *Ledger {
	return &Ledger{
		accounts:  make(map[solana.PublicKey]*token.AccountInfo),
		processor: processor,
		logger:    logger.Named("ledger"),
	}
}

// CreateAccount stores a new account with the given owner and data.
func (l *Ledger) CreateAccount(key, owner solana.PublicKey, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[key]; ok {
		return fmt.Errorf("%s: %w", key, ErrAccountExists)
	}
	l.accounts[key] = &token.AccountInfo{
		Key:   key,
		Owner: owner,
		Data:  append([]byte(nil), data...),
	}
	l.logger.Debug("Account created",
		zap.String("key", key.String()),
		zap.String("owner", owner.String()),
		zap.Int("data_len", len(data)))
	return nil
}

// Account returns a copy of the stored account.
func (l *Ledger) Account(key solana.PublicKey) (*token.AccountInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[key]
	if !ok {
		return nil, false
	}
	return acc.Clone(), true
}

// Accounts returns copies of all stored accounts ordered by key.
func (l *Ledger) Accounts() []*token.AccountInfo {
	l.mu.Lock()
	list := make([]*token.AccountInfo, 0, len(l.accounts))
	for _, acc := range l.accounts {
		list = append(list, acc.Clone())
	}
	l.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Key.String() < list[j].Key.String()
	})
	return list
}

// InitializeMint finalizes the base mint stored under key. Extensions must
// be initialized before this call.
func (l *Ledger) InitializeMint(key solana.PublicKey, decimals uint8, mintAuthority, freezeAuthority types.OptionalPubkey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[key]
	if !ok {
		return fmt.Errorf("mint %s: %w", key, tokenerr.ErrInvalidAccountData)
	}
	working := acc.Clone()
	if err := token.InitializeMint(working.Data, decimals, mintAuthority, freezeAuthority); err != nil {
		return err
	}
	acc.Data = working.Data
	l.logger.Info("Mint initialized",
		zap.String("mint", key.String()),
		zap.Uint8("decimals", decimals),
		zap.Stringer("mint_authority", mintAuthority))
	return nil
}

// Execute runs ix with the given keys treated as having signed. Accounts
// unknown to the ledger are passed as empty system accounts.
func (l *Ledger) Execute(ix solana.Instruction, signers ...solana.PublicKey) error {
	data, err := ix.Data()
	if err != nil {
		return fmt.Errorf("failed to read instruction data: %w", err)
	}

	signed := make(map[solana.PublicKey]bool, len(signers))
	for _, s := range signers {
		signed[s] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	working := make(map[solana.PublicKey]*token.AccountInfo)
	infos := make([]*token.AccountInfo, 0, len(ix.Accounts()))
	for _, meta := range ix.Accounts() {
		if meta.IsSigner && !signed[meta.PublicKey] {
			return fmt.Errorf("account %s did not sign: %w", meta.PublicKey, tokenerr.ErrMissingRequiredSignature)
		}

		info, ok := working[meta.PublicKey]
		if !ok {
			if stored, exists := l.accounts[meta.PublicKey]; exists {
				info = stored.Clone()
			} else {
				info = &token.AccountInfo{Key: meta.PublicKey, Owner: solana.SystemProgramID}
			}
			working[meta.PublicKey] = info
		}
		info.IsSigner = info.IsSigner || meta.IsSigner
		info.IsWritable = info.IsWritable || meta.IsWritable
		infos = append(infos, info)
	}

	if err := l.processor.ProcessInstruction(ix.ProgramID(), infos, data); err != nil {
		return err
	}

	for key, info := range working {
		stored, ok := l.accounts[key]
		if !ok || info.IsWritable {
			continue
		}
		if !bytes.Equal(stored.Data, info.Data) {
			return fmt.Errorf("account %s: %w", key, ErrReadOnlyModified)
		}
	}
	for key, info := range working {
		stored, ok := l.accounts[key]
		if !ok || !info.IsWritable {
			continue
		}
		stored.Data = info.Data
	}
	return nil
}
