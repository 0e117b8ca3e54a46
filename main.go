package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/prasdif/library-system/config"
	"github.com/prasdif/library-system/library"
	"github.com/prasdif/library-system/logger"
	"github.com/prasdif/library-system/shell"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	loanDays int
	seedPath string
	sample   bool
	json     bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:          "library",
		Short:        "In-memory library catalogue and lending tracker",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.loanDays, "loan-days", library.DefaultLoanDays, "loan period in days")
	flags.StringVar(&f.seedPath, "seed", "", "SQLite seed file to load books and borrowers from")
	flags.BoolVar(&f.sample, "sample", false, "start with the built-in sample books and borrowers")
	flags.BoolVar(&f.json, "json", false, "print listings as JSON")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

// loadConfig layers .env, LIBRARY_* variables and explicitly set flags, in
// increasing precedence.
func loadConfig(cmd *cobra.Command, f rootFlags) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, errors.Wrap(err, "load .env")
	}
	cfg, err := config.NewConfig()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("loan-days") {
		cfg.LoanDays = f.loanDays
	}
	if flags.Changed("seed") {
		cfg.SeedPath = f.seedPath
	}
	if flags.Changed("log-level") {
		level, err := zapcore.ParseLevel(f.logLevel)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Log.LogLevel = level
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, f rootFlags) error {
	log, closeLog, err := logger.NewLogger(cfg.Log, "library")
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	catalog := library.NewCatalog(
		library.WithLoanPeriod(cfg.LoanDays),
		library.WithLogger(log),
	)

	if f.sample {
		if err := library.LoadSample(catalog); err != nil {
			return errors.Wrap(err, "load sample data")
		}
	}
	if cfg.SeedPath != "" {
		seed, err := library.NewSeedStore(cfg.SeedPath)
		if err != nil {
			log.Error("open seed", zap.String("path", cfg.SeedPath), zap.Error(err))
			return err
		}
		stats, err := seed.LoadInto(ctx, catalog)
		seed.Close()
		if err != nil {
			log.Error("load seed", zap.String("path", cfg.SeedPath), zap.Error(err))
			return err
		}
		log.Info("seed loaded",
			zap.String("path", cfg.SeedPath),
			zap.Int("books", stats.Books),
			zap.Int("borrowers", stats.Borrowers))
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Printf("Welcome to the Library! Loans last %d days.\n", catalog.LoanDays())
	}

	sh := shell.New(catalog, os.Stdin, os.Stdout,
		shell.WithJSON(f.json),
		shell.WithInteractive(interactive),
	)
	err = sh.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return err
}
