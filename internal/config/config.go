// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	ProgramID   string `mapstructure:"program_id"`
	Decimals    int    `mapstructure:"decimals"`
	LedgerFile  string `mapstructure:"ledger_file"`
	LogFile     string `mapstructure:"log_file"`
	Development bool   `mapstructure:"development"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

const (
	DefaultProgramID  = "TokenzQdBNbLqP5VEhdkAS6EPFLC8PEjdSyK3Mw5bPP"
	DefaultDecimals   = 9
	DefaultLedgerFile = "ledger.yaml"
	DefaultLogFile    = "rebasectl.log"

	// u64 amounts carry at most 20 significant digits.
	maxDecimals = 19
)

// LoadConfig reads the config file at path. An empty path means defaults
// plus REBASE_* environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"program_id":   DefaultProgramID,
		"decimals":     DefaultDecimals,
		"ledger_file":  DefaultLedgerFile,
		"log_file":     DefaultLogFile,
		"development":  false,
		"metrics_addr": "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("REBASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// Program returns the configured program id.
func (c *Config) Program() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}

func validateConfig(cfg *Config) error {
	if cfg.ProgramID == "" {
		return errors.New("missing program_id in configuration")
	}
	if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}
	if cfg.Decimals < 0 || cfg.Decimals > maxDecimals {
		return errors.New("invalid decimals")
	}
	if cfg.LedgerFile == "" {
		return errors.New("ledger_file is empty")
	}
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			return errors.New("invalid metrics_addr")
		}
	}
	return nil
}
