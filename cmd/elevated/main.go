// Servicio elevado: actualiza credenciales propias y elimina personal (credencial + registro)
// con privilegios que el panel no tiene.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/panel-api/internal/application/auth"
	infraredis "github.com/jhoicas/panel-api/internal/infrastructure/redis"
	"github.com/jhoicas/panel-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/panel-api/internal/interfaces/http"
	"github.com/jhoicas/panel-api/pkg/config"
	"github.com/jhoicas/panel-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando servicio elevado")

	ctx := context.Background()
	stores, err := storage.Open(ctx, cfg.DB, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer stores.Close()

	redisClient, err := infraredis.NewClient(ctx, cfg.Redis, log.Component("redis"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer func() { _ = redisClient.Close() }()

	authUC := auth.NewAuthUseCase(
		stores.Credentials,
		stores.Records,
		infraredis.NewSessionRegistry(redisClient),
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		log.Component("auth"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-elevated",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	})
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-elevated"})
	})

	httpRouter.ElevatedRouter(app, httpRouter.ElevatedDeps{
		Auth:        authUC,
		Credentials: authUC,
		Purger:      stores.Purger,
		Log:         log.Component("elevated"),
	})

	go func() {
		if err := app.Listen(cfg.Elevated.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor elevado finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor elevado")
	}
	log.Info().Msg("servicio elevado detenido")
}
