// ====================================
// File: cmd/rebasectl/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rebase-mint/internal/cli"
	"github.com/rovshanmuradov/rebase-mint/internal/config"
	"github.com/rovshanmuradov/rebase-mint/internal/utils/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, cli.Usage) }
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.Development
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cmd, err := cli.Parse(args)
	if err != nil {
		return err
	}

	runner, err := cli.NewRunner(cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	if err := runner.Execute(ctx, cmd); err != nil {
		log.Warn("Command failed", zap.String("command", cmd.GetType()), zap.Error(err))
		return err
	}
	return nil
}
