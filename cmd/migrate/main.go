// migrate administra el esquema de la base de datos y la carga inicial de usuarios.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down 1
//	go run ./cmd/migrate import-users --file usuarios.csv --encoding latin1
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Supermercado-api/internal/application/auth"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/importer"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Supermercado-api/pkg/config"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

var (
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool

	importFile     string
	importEncoding string
	skipExisting   bool
)

var rootCmd = &cobra.Command{
	Use:               "migrate",
	Short:             "Migraciones y carga de datos del supermercado",
	PersistentPreRunE: setupDatabase,
	PersistentPostRun: func(*cobra.Command, []string) {
		if pool != nil {
			pool.Close()
		}
	},
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas las migraciones pendientes",
	RunE: withMigrator(func(m *postgres.Migrator, _ []string) error {
		applied, err := m.Up()
		if err != nil {
			return err
		}
		if !applied {
			log.Info().Msg("no hay migraciones pendientes")
			return nil
		}
		log.Info().Msg("migraciones aplicadas")
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Revierte migraciones (por defecto 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withMigrator(func(m *postgres.Migrator, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps inválido %q", args[0])
			}
			steps = n
		}
		if err := m.Down(steps); err != nil {
			return err
		}
		log.Info().Int("steps", steps).Msg("migraciones revertidas")
		return nil
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migra hasta una versión concreta",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *postgres.Migrator, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("versión inválida %q", args[0])
		}
		if err := m.Goto(uint(v)); err != nil {
			return err
		}
		log.Info().Uint64("version", v).Msg("migración completada")
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema",
	RunE: withMigrator(func(m *postgres.Migrator, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Fija la versión sin ejecutar SQL (limpia un estado sucio)",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *postgres.Migrator, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("versión inválida %q", args[0])
		}
		if err := m.Force(v); err != nil {
			return err
		}
		log.Warn().Int("version", v).Msg("versión forzada")
		return nil
	}),
}

var importUsersCmd = &cobra.Command{
	Use:   "import-users",
	Short: "Registra usuarios desde un CSV (username,password,role,store_id)",
	RunE:  runImportUsers,
}

func init() {
	importUsersCmd.Flags().StringVarP(&importFile, "file", "f", "", "ruta del CSV")
	importUsersCmd.Flags().StringVar(&importEncoding, "encoding", "utf-8", "codificación del archivo (utf-8, latin1, windows-1252)")
	importUsersCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "omitir usuarios que ya existen")
	_ = importUsersCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(upCmd, downCmd, gotoCmd, versionCmd, forceCmd, importUsersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupDatabase(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-migrate"})

	pool, err = postgres.NewPool(cmd.Context(), cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.DBName).Msg("conectado a la base de datos")
	return nil
}

func withMigrator(fn func(m *postgres.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		m, err := postgres.NewMigrator(pool)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m, args)
	}
}

func runImportUsers(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	rows, err := importer.ParseUsers(f, importEncoding)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	jwtCfg := auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}

	var res importer.Result
	err = postgres.NewTxRunner(pool).RunUsers(ctx, func(users repository.UserRepository) error {
		var err error
		res, err = importer.Apply(ctx, auth.NewAuthUseCase(users, jwtCfg, log.Named("auth")), rows, skipExisting)
		return err
	})
	if err != nil {
		return fmt.Errorf("importación cancelada, no se guardó ningún usuario: %w", err)
	}
	log.Info().
		Int("created", res.Created).
		Strs("skipped", res.Skipped).
		Str("file", importFile).
		Msg("usuarios importados")
	return nil
}
