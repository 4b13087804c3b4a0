// Command clubctl runs operational tasks against the Monthly Club backend:
// schema migrations, orphaned processor object cleanup and support lookups.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"monthly-club.backend/internal/config"
	"monthly-club.backend/internal/domain/entities"
	"monthly-club.backend/internal/infrastructure/datasources/postgres"
	"monthly-club.backend/internal/infrastructure/payments"
	"monthly-club.backend/internal/infrastructure/repositories"
	"monthly-club.backend/internal/usecases"
	"monthly-club.backend/migrations"
	"monthly-club.backend/pkg/crypto"
	"monthly-club.backend/pkg/logger"
)

var Version = "dev"

type orphanService interface {
	List(ctx context.Context, limit int) ([]*entities.OrphanedProcessorObject, error)
	Sweep(ctx context.Context, limit int) (*usecases.SweepResult, error)
}

type complianceChecker interface {
	NeedsIdentityDocument(ctx context.Context, businessID uuid.UUID) (bool, error)
}

// app holds the collaborators of every subcommand. Tests swap them out.
type app struct {
	loadCfg    func() (*config.Config, error)
	openDB     func(cfg config.DatabaseConfig) (*sql.DB, error)
	migrate    func(db *sql.DB, dir postgres.Direction) error
	version    func(db *sql.DB) (uint, bool, error)
	orphans    func(cfg *config.Config, db *sql.DB) (orphanService, error)
	compliance func(cfg *config.Config, db *sql.DB) (complianceChecker, error)
	hash       func(password string) (string, error)
}

func defaultApp() *app {
	return &app{
		loadCfg: config.Load,
		openDB:  postgres.NewConnection,
		migrate: func(db *sql.DB, dir postgres.Direction) error {
			return postgres.Migrate(db, migrations.FS, dir)
		},
		version: func(db *sql.DB) (uint, bool, error) {
			return postgres.Version(db, migrations.FS)
		},
		orphans: func(cfg *config.Config, db *sql.DB) (orphanService, error) {
			gdb, err := postgres.NewGorm(db)
			if err != nil {
				return nil, err
			}
			return usecases.NewOrphanReconcileUsecase(
				repositories.NewOrphanRepository(gdb),
				repositories.NewCustomerPaymentProfileRepository(gdb),
				repositories.NewBusinessRepository(gdb),
				payments.NewStripeProcessor(cfg.Stripe),
			), nil
		},
		compliance: func(cfg *config.Config, db *sql.DB) (complianceChecker, error) {
			gdb, err := postgres.NewGorm(db)
			if err != nil {
				return nil, err
			}
			return usecases.NewComplianceUsecase(
				repositories.NewBusinessRepository(gdb),
				payments.NewStripeProcessor(cfg.Stripe),
			), nil
		},
		hash: crypto.HashPassword,
	}
}

func main() {
	_ = godotenv.Load()
	logger.Init("development", os.Getenv("SERVER_LOG_LEVEL"))
	defer logger.Sync()

	if err := newRootCmd(defaultApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "clubctl",
		Short:         "Operational tasks for the Monthly Club backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.orphansCmd())
	root.AddCommand(a.requirementsCmd())
	root.AddCommand(a.hashPasswordCmd())
	root.AddCommand(versionCmd())
	return root
}

// withDB loads config, opens the database and hands both to fn
func (a *app) withDB(fn func(cfg *config.Config, db *sql.DB) error) error {
	cfg, err := a.loadCfg()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := a.openDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, db)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clubctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
