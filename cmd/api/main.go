package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Supermercado-api/docs"
	"github.com/jhoicas/Supermercado-api/internal/application/auth"
	"github.com/jhoicas/Supermercado-api/internal/application/permission"
	"github.com/jhoicas/Supermercado-api/internal/application/usecase"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Supermercado-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Supermercado-api/internal/interfaces/http"
	"github.com/jhoicas/Supermercado-api/pkg/config"
	"github.com/jhoicas/Supermercado-api/pkg/datefmt"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// @title			Supermercado API
// @version		1.0
// @description	Autenticación, permisos por rol, usuarios, tiendas, catálogo y existencias del sistema de supermercado.
// @BasePath		/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es obligatorio")
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando API")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("crear migrador")
		}
		applied, err := migrator.Up()
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Bool("applied", applied).Msg("migraciones verificadas")
	}

	dates, err := datefmt.New(cfg.App.Timezone, cfg.App.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de fechas")
	}

	userRepo := postgres.NewUserRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Named("auth"))

	// PDF: matriz de permisos por rol
	pdfGenerator := infrapdf.NewMatrixGenerator(dates)
	permissionUC := permission.NewUseCase(userRepo, permRepo, pdfGenerator, log.Named("permission"))

	userUC := usecase.NewUserUseCase(userRepo, log.Named("users"))
	storeUC := usecase.NewStoreUseCase(postgres.NewStoreRepository(pool), log.Named("stores"))
	categoryUC := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool))
	supplierUC := usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool))
	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), log.Named("products"))
	inventoryUC := usecase.NewInventoryUseCase(postgres.NewInventoryRepository(pool), userRepo, log.Named("inventory"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	m := metrics.New("supermercado_api")
	m.Gauge("db_pool_acquired_conns", "Conexiones del pool en uso", func() float64 { return float64(pool.Stat().AcquiredConns()) })
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Supermercado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		PermissionUC: permissionUC,
		UserUC:       userUC,
		StoreUC:      storeUC,
		CategoryUC:   categoryUC,
		SupplierUC:   supplierUC,
		ProductUC:    productUC,
		InventoryUC:  inventoryUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("API detenida")
}
