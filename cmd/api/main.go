package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/panel-api/internal/application/auth"
	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/application/ports"
	"github.com/jhoicas/panel-api/internal/application/workspace"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/infrastructure/elevated"
	"github.com/jhoicas/panel-api/internal/infrastructure/metrics"
	"github.com/jhoicas/panel-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/panel-api/internal/infrastructure/pdf"
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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando panel")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

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
	elevatedClient := elevated.NewClient(cfg.Elevated)

	// Notificaciones en vivo: listener websocket propio
	hub := notify.NewHub(authUC, log.Component("notify"))
	go hub.Run(ctx)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	notifySrv := &http.Server{Addr: cfg.Notify.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := notifySrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listener de notificaciones finalizado")
		}
	}()

	var registry *workspace.Registry
	recorder := metrics.NewRecorder(func() int { return registry.Len() })
	registry = workspace.NewRegistry(ctx, workspace.Deps{
		Store:       stores.Records,
		Auth:        authUC,
		Credentials: authUC,
		Remover:     elevatedClient,
		ProfileAPI:  elevatedClient,
		Notifiers: func(identity entity.Identity) ports.Notifier {
			return notify.NewSessionNotifier(hub, identity, log.Component("notifier"))
		},
		Recorder:   recorder,
		Log:        log.Component("workspace"),
		SessionTTL: time.Duration(cfg.JWT.Expiration) * time.Minute,
	})

	replenishmentUC := inventory.NewReplenishmentUseCase(stores.Records, notify.NewAdminAlerts(hub), recorder, log.Component("replenishment"))

	scheduler := cron.New()
	if cfg.Alerts.LowStockSpec != "" {
		if _, err := scheduler.AddFunc(cfg.Alerts.LowStockSpec, func() { replenishmentUC.Run(ctx) }); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.Alerts.LowStockSpec).Msg("programar alerta de bajo stock")
		}
	}
	if _, err := scheduler.AddFunc("@every 10m", func() { registry.Purge() }); err != nil {
		log.Fatal().Err(err).Msg("programar depuración de sesiones cerradas")
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Panel API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "workspaces": registry.Len()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Workspaces:    registry,
		Replenishment: replenishmentUC,
		Reporter:      infrapdf.NewLowStockReport("Productos por reponer"),
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

	<-scheduler.Stop().Done()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := notifySrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del listener de notificaciones")
	}
	registry.CloseAll()
	stop()

	log.Info().Msg("aplicación detenida")
}
