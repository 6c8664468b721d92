// internal/ledger/snapshot.go
package ledger

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type accountRecord struct {
	Key   string `yaml:"key"`
	Owner string `yaml:"owner"`
	Data  string `yaml:"data"`
}

type snapshot struct {
	Accounts []accountRecord `yaml:"accounts"`
}

// Save writes every account to path as YAML with base58 data.
func (l *Ledger) Save(path string) error {
	accounts := l.Accounts()
	snap := snapshot{Accounts: make([]accountRecord, 0, len(accounts))}
	for _, acc := range accounts {
		snap.Accounts = append(snap.Accounts, accountRecord{
			Key:   acc.Key.String(),
			Owner: acc.Owner.String(),
			Data:  base58.Encode(acc.Data),
		})
	}

	out, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	l.logger.Debug("Ledger saved", zap.String("path", path), zap.Int("accounts", len(snap.Accounts)))
	return nil
}

// Load reads accounts saved by Save into the ledger. A missing file leaves
// the ledger empty.
func (l *Ledger) Load(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger file: %w", err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to parse ledger file: %w", err)
	}

	for _, rec := range snap.Accounts {
		key, err := solana.PublicKeyFromBase58(rec.Key)
		if err != nil {
			return fmt.Errorf("invalid account key %q: %w", rec.Key, err)
		}
		owner, err := solana.PublicKeyFromBase58(rec.Owner)
		if err != nil {
			return fmt.Errorf("invalid owner of %s: %w", rec.Key, err)
		}
		var data []byte
		if rec.Data != "" {
			if data, err = base58.Decode(rec.Data); err != nil {
				return fmt.Errorf("invalid data of %s: %w", rec.Key, err)
			}
		}
		if err := l.CreateAccount(key, owner, data); err != nil {
			return err
		}
	}
	return nil
}
