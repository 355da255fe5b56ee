package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "portfolio/docs"
	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/repository"
	"portfolio/internal/repository/db"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// @title                       Portfolio API
// @version                     1.0
// @description                 Homepage preferences, tracking beacon and admin tracking log.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio homepage with preference toggles and event tracking",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yml")

	root.AddCommand(
		newServeCmd(&configDir),
		newPruneCmd(&configDir),
		newAdminCmd(&configDir),
	)
	return root
}

// app holds what every subcommand needs: config, logger, db and repositories.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	db    *sql.DB
	repos *repository.Repository
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap(configDir string) (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Get(cfg.Log)

	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    conn,
		repos: repository.NewRepository(conn),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Sync()
}

// openDB initializes the SQLite database using configuration.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "portfolio.db")
		path = "portfolio.db"
	}
	conn, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	return conn, nil
}
