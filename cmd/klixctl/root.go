package main

import (
	"io"
	"log/slog"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/app"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/config"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/logging"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env is what every subcommand needs: the store and a logger.
type env struct {
	cfg    config.Config
	repo   *store.FileRepository
	logger *slog.Logger
}

func (e *env) service() *app.Service {
	return app.NewService(e.repo, nil, nil, e.logger)
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		dbPath   string
		envDir   string
		logLevel string
		e        env
	)

	root := &cobra.Command{
		Use:   "klixctl",
		Short: "Inspect and maintain the Klix ledger document",
		Long: `klixctl works directly on the JSON ledger document used by the klix server.
It reads the same configuration (DB_PATH, .env) so it can be pointed at a live
deployment's data directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.LoadConfig(envDir)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			e.cfg = cfg
			e.logger = logging.NewWithWriter(cmd.ErrOrStderr(), logging.Options{Level: cfg.LogLevel, Format: "text"})
			e.repo = store.NewFileRepository(cfg.DBPath, e.logger)
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the ledger document (overrides DB_PATH)")
	root.PersistentFlags().StringVar(&envDir, "config-dir", ".", "Directory holding an optional .env file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	root.AddCommand(newAuditCmd(&e))
	root.AddCommand(newSeedCmd(&e))
	root.AddCommand(newWalletCmd(&e))
	return root
}
