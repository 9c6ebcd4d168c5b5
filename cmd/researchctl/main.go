// Command researchctl runs maintenance tasks against the ResearchDesk database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/researchdesk/internal/bootstrap"
	"github.com/yigit/researchdesk/internal/config"
	"github.com/yigit/researchdesk/internal/db"
)

var rootCmd = &cobra.Command{
	Use:           "researchctl",
	Short:         "ResearchDesk maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env is what every subcommand needs: config, logger and an open database.
type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	database *db.PostgresDB
}

func openEnv() (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, err
	}
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &env{cfg: cfg, logger: lgr, database: database}, nil
}

// withDeps opens the environment and builds the service graph for fn.
func withDeps(ctx context.Context, fn func(ctx context.Context, e *env, deps *bootstrap.Dependencies) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.database.Close()

	deps, err := bootstrap.BuildDependencies(e.cfg, e.database, e.logger)
	if err != nil {
		return err
	}
	return fn(ctx, e, deps)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.database.Close()
		return bootstrap.RunMigrations(cmd.Context(), e.database, e.logger)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured admin account if it is missing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDeps(cmd.Context(), func(ctx context.Context, e *env, deps *bootstrap.Dependencies) error {
			return bootstrap.SeedAdmin(ctx, e.cfg, deps)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, userCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
