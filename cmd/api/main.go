package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appavail "github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
	"github.com/jhoicas/bestands-api/internal/infrastructure/feed"
	httpRouter "github.com/jhoicas/bestands-api/internal/interfaces/http"
	"github.com/jhoicas/bestands-api/pkg/config"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("fuente", cfg.Source.Mode).
		Str("politica", cfg.Engine.Policy).
		Msg("iniciando aplicación")

	// Gateway de fuentes según modo: servicio de datos remoto o archivos
	// planos locales.
	var gateway appavail.SourceGateway
	switch cfg.Source.Mode {
	case "file":
		gateway = feed.NewFileGateway(cfg.Source.Dir, cfg.Source.Delimiter, cfg.Source.Encoding, log)
	default:
		gateway = feed.NewHTTPGateway(cfg.Source.BaseURL, log)
	}

	// "Hoy" fijo opcional (tests, reprocesos); vacío = fecha del sistema.
	var today time.Time
	if cfg.Engine.Today != "" {
		today, err = time.Parse(time.DateOnly, cfg.Engine.Today)
		if err != nil {
			log.Fatal().Err(err).Str("valor", cfg.Engine.Today).Msg("ENGINE_TODAY inválido (se espera yyyy-mm-dd)")
		}
	}

	availabilityUC := appavail.NewUseCase(gateway, appavail.Options{
		Policy:         entity.ClassificationPolicy(cfg.Engine.Policy),
		PairingRemoval: cfg.Engine.PairingRemoval,
		StrictSources:  cfg.Engine.StrictSources,
		Today:          today,
		Log:            log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AvailabilityUC: availabilityUC,
		Log:            log,
		MetricsEnabled: cfg.Metrics.Enabled,
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

	log.Info().Msg("aplicación detenida")
}
