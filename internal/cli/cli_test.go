package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rebase-mint/internal/config"
	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/logger"
)

func TestParse(t *testing.T) {
	key := solana.NewWallet().PublicKey().String()

	tests := []struct {
		name    string
		args    []string
		want    Command
		wantErr bool
	}{
		{name: "create mint", args: []string{"create-mint"}, want: CreateMintCommand{}},
		{
			name: "init",
			args: []string{"init", "-mint", key, "-authority", key, "-supply", "1000"},
			want: InitCommand{Mint: key, Authority: key, Supply: 1000},
		},
		{
			name: "rebase with signers",
			args: []string{"rebase", "-mint", key, "-authority", key, "-signers", key + ", " + key, "-supply", "5"},
			want: RebaseCommand{Mint: key, Authority: key, Signers: []string{key, key}, Supply: 5},
		},
		{
			name: "conversion",
			args: []string{"from-ui", "-mint", key, "-value", "5.00"},
			want: ConvertCommand{Kind: FromUI, Mint: key, Value: "5.00"},
		},
		{name: "no command", args: nil, wantErr: true},
		{name: "unknown command", args: []string{"mint-more"}, wantErr: true},
		{name: "unknown flag", args: []string{"show", "-key", key}, wantErr: true},
		{name: "stray argument", args: []string{"show", "-mint", key, "extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandValidation(t *testing.T) {
	key := solana.NewWallet().PublicKey().String()

	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{"valid init", InitCommand{Mint: key, Supply: 10}, false},
		{"init supply too large", InitCommand{Mint: key, Supply: 70000}, true},
		{"init bad authority", InitCommand{Mint: key, Authority: "zzz0"}, true},
		{"rebase without authority", RebaseCommand{Mint: key, Supply: 1}, true},
		{"multisig m too large", CreateMultisigCommand{M: 3, Signers: []string{key, key}}, true},
		{"multisig valid", CreateMultisigCommand{M: 1, Signers: []string{key}}, false},
		{"unknown conversion", ConvertCommand{Kind: "to-moon", Mint: key, Value: "1"}, true},
		{"empty show", ShowCommand{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type harness struct {
	cfg     *config.Config
	log     *logger.Logger
	logFile string
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")
	log, err := logger.New(&logger.Config{LogFile: logFile, MaxSize: 1})
	require.NoError(t, err)
	return &harness{
		logFile: logFile,
		cfg: &config.Config{
			ProgramID:  config.DefaultProgramID,
			Decimals:   2,
			LedgerFile: filepath.Join(dir, "ledger.yaml"),
		},
		log: log,
		out: &bytes.Buffer{},
	}
}

// run executes args on a fresh runner so every call reloads the ledger file.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h.out.Reset()
	r, err := NewRunner(h.cfg, h.log, h.out)
	require.NoError(t, err)
	cmd, err := Parse(args)
	require.NoError(t, err)
	err = r.Execute(context.Background(), cmd)
	return h.out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err)
	return out
}

func TestRunnerLifecycle(t *testing.T) {
	h := newHarness(t)
	authority := solana.NewWallet().PublicKey().String()

	out := h.mustRun(t, "create-mint")
	mint := strings.TrimSpace(strings.TrimPrefix(out, "mint: "))
	_, err := solana.PublicKeyFromBase58(mint)
	require.NoError(t, err)

	out = h.mustRun(t, "init", "-mint", mint, "-authority", authority, "-supply", "1000")
	assert.Contains(t, out, "total supply:         1000")
	assert.Contains(t, out, "initialized:          true")
	assert.Contains(t, out, "rebase authority:     "+authority)
	assert.Contains(t, out, "extensions:           RebaseMint")

	out = h.mustRun(t, "rebase", "-mint", mint, "-authority", authority, "-supply", "500")
	assert.Contains(t, out, "total supply:         500")
	assert.Contains(t, out, "total shares:         1000")

	assert.Equal(t, "250\n", h.mustRun(t, ToAmount, "-mint", mint, "-value", "500"))
	assert.Equal(t, "500\n", h.mustRun(t, ToShares, "-mint", mint, "-value", "250"))
	assert.Equal(t, "2.50\n", h.mustRun(t, ToUI, "-mint", mint, "-value", "500"))
	assert.Equal(t, "500\n", h.mustRun(t, FromUI, "-mint", mint, "-value", "2.5"))
}

func TestRunnerRejectedRebaseKeepsLedger(t *testing.T) {
	h := newHarness(t)
	authority := solana.NewWallet().PublicKey().String()

	mint := strings.TrimSpace(strings.TrimPrefix(h.mustRun(t, "create-mint"), "mint: "))
	h.mustRun(t, "init", "-mint", mint, "-authority", authority, "-supply", "1000")

	_, err := h.run(t, "rebase", "-mint", mint, "-authority", authority, "-supply", "0")
	require.ErrorIs(t, err, tokenerr.ErrInvalidSupply)

	other := solana.NewWallet().PublicKey().String()
	_, err = h.run(t, "rebase", "-mint", mint, "-authority", other, "-supply", "10")
	require.ErrorIs(t, err, tokenerr.ErrOwnerMismatch)

	out := h.mustRun(t, "show", "-mint", mint)
	assert.Contains(t, out, "total supply:         1000")
	assert.Contains(t, out, "total shares:         1000")
}

func TestRunnerMultisigRebase(t *testing.T) {
	h := newHarness(t)
	a := solana.NewWallet().PublicKey().String()
	b := solana.NewWallet().PublicKey().String()

	out := h.mustRun(t, "create-multisig", "-m", "2", "-signers", a+","+b)
	multisig := strings.Fields(strings.TrimPrefix(out, "multisig: "))[0]

	mint := strings.TrimSpace(strings.TrimPrefix(h.mustRun(t, "create-mint"), "mint: "))
	h.mustRun(t, "init", "-mint", mint, "-authority", multisig, "-supply", "100")

	_, err := h.run(t, "rebase", "-mint", mint, "-authority", multisig, "-signers", a, "-supply", "300")
	require.ErrorIs(t, err, tokenerr.ErrMissingRequiredSignature)

	out = h.mustRun(t, "rebase", "-mint", mint, "-authority", multisig, "-signers", a+","+b, "-supply", "300")
	assert.Contains(t, out, "total supply:         300")
}

func TestRunnerUnknownMint(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "show", "-mint", solana.NewWallet().PublicKey().String())
	assert.ErrorIs(t, err, tokenerr.ErrInvalidAccountData)
}

func (h *harness) logEntries(t *testing.T) []map[string]interface{} {
	t.Helper()
	_ = h.log.Sync()
	raw, err := os.ReadFile(h.logFile)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestRunnerLogsPerMint(t *testing.T) {
	h := newHarness(t)
	authority := solana.NewWallet().PublicKey().String()

	mint := strings.TrimSpace(strings.TrimPrefix(h.mustRun(t, "create-mint"), "mint: "))
	h.mustRun(t, "init", "-mint", mint, "-authority", authority, "-supply", "1000")
	h.mustRun(t, "rebase", "-mint", mint, "-authority", authority, "-supply", "400")

	var initialized, committed bool
	for _, entry := range h.logEntries(t) {
		switch entry["msg"] {
		case "Mint initialized with rebase extension":
			initialized = true
			assert.Equal(t, mint, entry["mint"])
			assert.Equal(t, 1000.0, entry["initial_supply"])
		case "Rebase committed":
			committed = true
			assert.Equal(t, mint, entry["mint"])
			assert.Equal(t, 400.0, entry["new_supply"])
		}
	}
	assert.True(t, initialized, "no per-mint init entry")
	assert.True(t, committed, "no per-mint rebase entry")
}

func TestRunnerServeRequiresAddr(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "serve")
	assert.Error(t, err)
}
