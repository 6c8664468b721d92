// internal/cli/commands.go
package cli

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/token"
)

// Command is one rebasectl operation.
type Command interface {
	GetType() string
	Validate() error
}

// CreateMintCommand allocates a mint account sized for the rebase extension.
type CreateMintCommand struct{}

func (c CreateMintCommand) GetType() string { return "create-mint" }

func (c CreateMintCommand) Validate() error { return nil }

// CreateMultisigCommand stores an M-of-N multisig owned by the program.
type CreateMultisigCommand struct {
	M       int
	Signers []string
}

func (c CreateMultisigCommand) GetType() string { return "create-multisig" }

func (c CreateMultisigCommand) Validate() error {
	if len(c.Signers) == 0 || len(c.Signers) > token.MaxSigners {
		return fmt.Errorf("signers must hold 1..%d keys, got: %d", token.MaxSigners, len(c.Signers))
	}
	if c.M < 1 || c.M > len(c.Signers) {
		return fmt.Errorf("m must be between 1 and %d, got: %d", len(c.Signers), c.M)
	}
	return validateKeys(c.Signers...)
}

// InitCommand attaches the rebase extension and finalizes the mint.
type InitCommand struct {
	Mint      string
	Authority string // empty disables rebasing
	Supply    uint64
}

func (c InitCommand) GetType() string { return "init" }

func (c InitCommand) Validate() error {
	if c.Mint == "" {
		return fmt.Errorf("mint cannot be empty")
	}
	if c.Supply > math.MaxUint16 {
		return fmt.Errorf("supply must fit in 16 bits, got: %d", c.Supply)
	}
	if c.Authority != "" {
		if err := validateKeys(c.Authority); err != nil {
			return err
		}
	}
	return validateKeys(c.Mint)
}

// RebaseCommand changes the mint's total supply.
type RebaseCommand struct {
	Mint      string
	Authority string
	Signers   []string
	Supply    uint64
}

func (c RebaseCommand) GetType() string { return "rebase" }

func (c RebaseCommand) Validate() error {
	if c.Mint == "" || c.Authority == "" {
		return fmt.Errorf("mint and authority cannot be empty")
	}
	if c.Supply > math.MaxUint16 {
		return fmt.Errorf("supply must fit in 16 bits, got: %d", c.Supply)
	}
	if len(c.Signers) > token.MaxSigners {
		return fmt.Errorf("at most %d signers, got: %d", token.MaxSigners, len(c.Signers))
	}
	if err := validateKeys(c.Mint, c.Authority); err != nil {
		return err
	}
	return validateKeys(c.Signers...)
}

// ShowCommand prints a mint's base fields and rebase state.
type ShowCommand struct {
	Mint string
}

func (c ShowCommand) GetType() string { return "show" }

func (c ShowCommand) Validate() error {
	if c.Mint == "" {
		return fmt.Errorf("mint cannot be empty")
	}
	return validateKeys(c.Mint)
}

// Conversion kinds.
const (
	ToShares = "to-shares"
	ToAmount = "to-amount"
	ToUI     = "to-ui"
	FromUI   = "from-ui"
)

// ConvertCommand runs one of the read-only conversions against a mint.
type ConvertCommand struct {
	Kind  string
	Mint  string
	Value string
}

func (c ConvertCommand) GetType() string { return c.Kind }

func (c ConvertCommand) Validate() error {
	switch c.Kind {
	case ToShares, ToAmount, ToUI, FromUI:
	default:
		return fmt.Errorf("unknown conversion: %q", c.Kind)
	}
	if c.Mint == "" || c.Value == "" {
		return fmt.Errorf("mint and value cannot be empty")
	}
	return validateKeys(c.Mint)
}

// ServeCommand exposes the metrics registry until the context ends.
type ServeCommand struct{}

func (c ServeCommand) GetType() string { return "serve" }

func (c ServeCommand) Validate() error { return nil }

func validateKeys(keys ...string) error {
	for _, k := range keys {
		if _, err := solana.PublicKeyFromBase58(k); err != nil {
			return fmt.Errorf("invalid public key %q: %w", k, err)
		}
	}
	return nil
}
