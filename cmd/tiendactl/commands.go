package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/cache"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const commandTimeout = 2 * time.Minute

// env configuración y conexión compartidas por los subcomandos; se cargan al primer uso.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func (e *env) connect(ctx context.Context) error {
	if e.pool != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	e.pool = pool
	return nil
}

func (e *env) close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "tiendactl",
		Short:         "Operación de Tienda API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.AddCommand(newMigrateCmd(e), newSeedCmd(e), newStatsCmd(e), newLowStockCmd(e))
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de base de datos (idempotente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := e.connect(ctx); err != nil {
				return err
			}
			if err := postgres.Migrate(ctx, e.pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema aplicado")
			return nil
		},
	}
}

func newSeedCmd(e *env) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea los roles base y el usuario administrador",
		Long:  "Crea los roles admin, almacenista y vendedor y el administrador inicial. Sin flags usa ADMIN_EMAIL, ADMIN_PASSWORD y ADMIN_NAME.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := e.connect(ctx); err != nil {
				return err
			}
			admin := usecase.AdminSeed{Email: e.cfg.Seed.AdminEmail, Password: e.cfg.Seed.AdminPassword, Name: e.cfg.Seed.AdminName}
			if email != "" {
				admin.Email = email
			}
			if password != "" {
				admin.Password = password
			}
			if name != "" {
				admin.Name = name
			}
			uc := usecase.NewSeedUseCase(postgres.NewRoleRepository(e.pool), postgres.NewUserRepository(e.pool))
			res, err := uc.Run(ctx, admin)
			if err != nil {
				return err
			}
			e.log.Info().
				Strs("roles_created", res.RolesCreated).
				Bool("admin_created", res.AdminCreated).
				Str("admin_email", admin.Email).
				Msg("seed completado")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&password, "password", "", "contraseña del administrador (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&name, "name", "", "nombre del administrador")
	return cmd
}

func newStatsCmd(e *env) *cobra.Command {
	var from, to string
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Imprime el resumen de estadísticas en JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := inventory.ParseDateRange(from, to)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := e.connect(ctx); err != nil {
				return err
			}
			uc := usecase.NewStatisticsUseCase(postgres.NewStatisticsRepository(e.pool), cache.Noop{}, e.log)
			out, err := uc.Summary(ctx, r.From, r.To, top)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "desde (RFC3339 o YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "hasta, inclusive (RFC3339 o YYYY-MM-DD)")
	cmd.Flags().IntVar(&top, "top", 5, "productos en el ranking")
	return cmd
}

func newLowStockCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock",
		Short: "Lista los productos con stock igual o inferior a su mínimo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := e.connect(ctx); err != nil {
				return err
			}
			uc := usecase.NewStatisticsUseCase(postgres.NewStatisticsRepository(e.pool), cache.Noop{}, e.log)
			rows, err := uc.LowStock(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
