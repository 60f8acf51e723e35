package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Supermercado-api/internal/application/navigation"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/apiclient"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/clientstate"
	"github.com/jhoicas/Supermercado-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Supermercado-api/internal/interfaces/portal"
	"github.com/jhoicas/Supermercado-api/pkg/config"
	"github.com/jhoicas/Supermercado-api/pkg/datefmt"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

const (
	sweepInterval = 5 * time.Minute
	sessionIdle   = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-portal",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("api", cfg.Remote.BaseURL).
		Msg("iniciando portal")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Estado persistido de las sesiones: Redis si está configurado, si no memoria del proceso.
	var states portal.StateBackend
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		rs := clientstate.NewRedis(rdb, cfg.Redis.Prefix, cfg.Redis.StateTTL)
		if err := rs.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		states = rs
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: las sesiones se pierden al reiniciar")
		states = clientstate.NewMemory()
	}

	dates, err := datefmt.New(cfg.App.Timezone, cfg.App.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de fechas")
	}

	api := apiclient.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	registry := portal.NewRegistry(api, states, log.Named("session"))
	go registry.RunSweeper(ctx, sweepInterval, sessionIdle)

	guard := navigation.NewGuard(navigation.DefaultTable(), log.Named("guard"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-portal",
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Remote.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	m := metrics.New("supermercado_portal")
	m.Gauge("sessions", "Sesiones de cliente en memoria", func() float64 { return float64(registry.Len()) })
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-portal", "sessions": registry.Len()})
	})

	portal.NewServer(registry, guard, dates, portal.CookieConfig{
		Name:   cfg.Portal.CookieName,
		Secure: cfg.Portal.CookieSecure,
		MaxAge: cfg.Redis.StateTTL,
	}, log.Named("portal")).WithRecorder(m).Register(app)

	go func() {
		if err := app.Listen(cfg.Portal.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando portal...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("portal detenido")
}
