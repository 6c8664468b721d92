// internal/cli/runner.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rebase-mint/internal/config"
	"github.com/rovshanmuradov/rebase-mint/internal/ledger"
	"github.com/rovshanmuradov/rebase-mint/internal/rebase"
	"github.com/rovshanmuradov/rebase-mint/internal/rebase/instruction"
	"github.com/rovshanmuradov/rebase-mint/internal/rebase/processor"
	"github.com/rovshanmuradov/rebase-mint/internal/token"
	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/types"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/logger"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/metrics"
)

// Runner executes commands against the ledger file named in the config.
type Runner struct {
	logger    *logger.Logger
	config    *config.Config
	registry  *prometheus.Registry
	collector *metrics.Collector
	ledger    *ledger.Ledger
	programID solana.PublicKey
	out       io.Writer
}

// NewRunner loads the ledger file and wires the processor behind it.
func NewRunner(cfg *config.Config, log *logger.Logger, out io.Writer) (*Runner, error) {
	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	programID := cfg.Program()
	proc := processor.New(programID, log.Logger, collector)
	l := ledger.New(proc, log.Logger)
	if err := l.Load(cfg.LedgerFile); err != nil {
		return nil, err
	}

	r := &Runner{
		logger:    log,
		config:    cfg,
		registry:  registry,
		collector: collector,
		ledger:    l,
		programID: programID,
		out:       out,
	}
	r.refreshGauges()
	return r, nil
}

// Execute validates and runs cmd. Commands that change accounts save the
// ledger file on success.
func (r *Runner) Execute(ctx context.Context, cmd Command) error {
	defer r.logger.TrackPerformance(cmd.GetType())()
	opLog := r.logger.WithOperation(cmd.GetType())
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid %s command: %w", cmd.GetType(), err)
	}

	var (
		err     error
		mutates = true
	)
	switch c := cmd.(type) {
	case CreateMintCommand:
		err = r.createMint()
	case CreateMultisigCommand:
		err = r.createMultisig(c)
	case InitCommand:
		err = r.initMint(c)
	case RebaseCommand:
		err = r.rebase(c)
	case ShowCommand:
		mutates = false
		err = r.show(c)
	case ConvertCommand:
		mutates = false
		err = r.convert(c)
	case ServeCommand:
		mutates = false
		err = r.serve(ctx, opLog)
	default:
		return fmt.Errorf("unsupported command: %s", cmd.GetType())
	}
	if err != nil {
		opLog.Debug("Command failed", zap.Error(err))
		return err
	}

	if mutates {
		if err := r.ledger.Save(r.config.LedgerFile); err != nil {
			return err
		}
	}
	opLog.Debug("Command completed")
	return nil
}

func (r *Runner) createMint() error {
	key := solana.NewWallet().PublicKey()
	if err := r.ledger.CreateAccount(key, r.programID, token.AllocateMint(rebase.StateSize)); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "mint: %s\n", key)
	return nil
}

func (r *Runner) createMultisig(c CreateMultisigCommand) error {
	signers := mustKeys(c.Signers)
	ms, err := token.NewMultisig(uint8(c.M), signers...)
	if err != nil {
		return err
	}
	data, err := ms.Pack()
	if err != nil {
		return err
	}
	key := solana.NewWallet().PublicKey()
	if err := r.ledger.CreateAccount(key, r.programID, data); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "multisig: %s (%d of %d)\n", key, c.M, len(signers))
	return nil
}

func (r *Runner) initMint(c InitCommand) error {
	mint := solana.MustPublicKeyFromBase58(c.Mint)
	authority := types.NonePubkey()
	if c.Authority != "" {
		authority = types.SomePubkey(solana.MustPublicKeyFromBase58(c.Authority))
	}

	ix, err := instruction.Initialize(r.programID, mint, authority, uint16(c.Supply))
	if err != nil {
		return err
	}
	if err := r.ledger.Execute(ix); err != nil {
		return err
	}
	if err := r.ledger.InitializeMint(mint, uint8(r.config.Decimals), authority, types.NonePubkey()); err != nil {
		return err
	}
	r.logger.WithMint(c.Mint).Info("Mint initialized with rebase extension",
		zap.Uint64("initial_supply", c.Supply),
		zap.Stringer("rebase_authority", authority))
	r.printInstruction(ix)
	return r.show(ShowCommand{Mint: c.Mint})
}

func (r *Runner) rebase(c RebaseCommand) error {
	mint := solana.MustPublicKeyFromBase58(c.Mint)
	authority := solana.MustPublicKeyFromBase58(c.Authority)
	signers := mustKeys(c.Signers)

	ix, err := instruction.RebaseSupply(r.programID, mint, authority, signers, uint16(c.Supply))
	if err != nil {
		return err
	}
	signed := signers
	if len(signed) == 0 {
		signed = []solana.PublicKey{authority}
	}
	mintLog := r.logger.WithMint(c.Mint)
	if err := r.ledger.Execute(ix, signed...); err != nil {
		mintLog.Debug("Rebase rejected", zap.Uint64("new_supply", c.Supply), zap.Error(err))
		return err
	}
	mintLog.Info("Rebase committed",
		zap.Uint64("new_supply", c.Supply),
		zap.Int("signers", len(signed)))
	r.printInstruction(ix)
	return r.show(ShowCommand{Mint: c.Mint})
}

func (r *Runner) show(c ShowCommand) error {
	acc, state, base, err := r.loadMint(c.Mint)
	if err != nil {
		return err
	}
	view, err := token.UnpackUnchecked(acc.Data)
	if err != nil {
		return err
	}
	present, err := view.ExtensionTypes()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(present))
	for _, t := range present {
		names = append(names, t.String())
	}
	fmt.Fprintf(r.out, "mint:                 %s\n", c.Mint)
	fmt.Fprintf(r.out, "initialized:          %t\n", base.IsInitialized)
	fmt.Fprintf(r.out, "decimals:             %d\n", base.Decimals)
	fmt.Fprintf(r.out, "total supply:         %d\n", state.TotalSupply)
	fmt.Fprintf(r.out, "total shares:         %d\n", state.TotalShares)
	fmt.Fprintf(r.out, "rounding error carry: %d\n", state.RoundingErrorCarry)
	fmt.Fprintf(r.out, "rebase authority:     %s\n", state.RebaseAuthority)
	fmt.Fprintf(r.out, "extensions:           %s\n", strings.Join(names, ", "))
	return nil
}

func (r *Runner) convert(c ConvertCommand) error {
	_, state, base, err := r.loadMint(c.Mint)
	if err != nil {
		return err
	}
	decimals := base.Decimals
	if !base.IsInitialized {
		decimals = uint8(r.config.Decimals)
	}

	switch c.Kind {
	case FromUI:
		shares, err := state.TryUIAmountIntoShares(c.Value, decimals)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, shares)
		return nil
	}

	value, err := strconv.ParseUint(c.Value, 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not an unsigned integer: %w", c.Value, tokenerr.ErrInvalidArgument)
	}
	switch c.Kind {
	case ToShares:
		fmt.Fprintln(r.out, state.AmountToShares(value))
	case ToAmount:
		fmt.Fprintln(r.out, state.SharesToAmount(value))
	case ToUI:
		fmt.Fprintln(r.out, state.SharesToUIAmount(value, decimals))
	}
	return nil
}

func (r *Runner) serve(ctx context.Context, log *zap.Logger) error {
	if r.config.MetricsAddr == "" {
		return errors.New("metrics_addr is not configured")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: r.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Serving metrics", zap.String("addr", r.config.MetricsAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (r *Runner) loadMint(key string) (*token.AccountInfo, rebase.State, token.Mint, error) {
	acc, ok := r.ledger.Account(solana.MustPublicKeyFromBase58(key))
	if !ok {
		return nil, rebase.State{}, token.Mint{}, fmt.Errorf("mint %s: %w", key, tokenerr.ErrInvalidAccountData)
	}
	base, err := token.UnpackMint(acc.Data)
	if err != nil {
		return nil, rebase.State{}, token.Mint{}, err
	}
	state, err := processor.LoadState(acc.Data)
	if err != nil {
		return nil, rebase.State{}, token.Mint{}, err
	}
	return acc, state, base, nil
}

func (r *Runner) printInstruction(ix solana.Instruction) {
	data, err := ix.Data()
	if err != nil {
		return
	}
	fmt.Fprintf(r.out, "instruction data:     %s\n", base58.Encode(data))
}

// refreshGauges publishes the state of every stored mint.
func (r *Runner) refreshGauges() {
	for _, acc := range r.ledger.Accounts() {
		if !acc.Owner.Equals(r.programID) {
			continue
		}
		state, err := processor.LoadState(acc.Data)
		if err != nil {
			continue
		}
		r.collector.UpdateMintState(acc.Key.String(), state.TotalSupply, state.TotalShares, state.RoundingErrorCarry)
	}
}

func mustKeys(list []string) []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(list))
	for _, k := range list {
		keys = append(keys, solana.MustPublicKeyFromBase58(k))
	}
	return keys
}
