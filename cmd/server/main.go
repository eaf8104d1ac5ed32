package main

import (
	"strings"

	"restock-backend/internal/audit"
	"restock-backend/internal/auth"
	"restock-backend/internal/config"
	"restock-backend/internal/database"
	"restock-backend/internal/job"
	"restock-backend/internal/logging"
	"restock-backend/internal/metrics"
	"restock-backend/internal/progress"
	"restock-backend/internal/restock"
	"restock-backend/internal/shipment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logging.Configure(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	database.Init(cfg)

	settings, err := config.LoadSettingsFile(cfg.SettingsFile)
	if err != nil {
		logging.L().Fatal().Err(err).Str("file", cfg.SettingsFile).Msg("Ayar dosyası yüklenemedi")
	}

	hub := progress.NewHub()
	reg := metrics.NewRegistry()
	deps := &job.Deps{
		Settings: settings,
		Hub:      hub,
		Metrics:  reg,
		Workers:  cfg.LoadWorkers,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		ErrorHandler: job.ErrorHandler,
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(reg.Handler()))

	api := app.Group("/api")

	// Public
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// EventSource header gönderemez; iş numarası tahmin edilemez uuid
	api.Post("/progress", progress.NewJobHandler())
	api.Get("/progress/:id", progress.StreamHandler(hub, cfg.ProgressIdle))

	// Protected (JWT_SECRET yoksa açık)
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/settings/defaults", config.DefaultsHandler(settings))

	// Mutabakat
	protected.Post("/restock", restock.Handler(deps))
	protected.Post("/shipment", shipment.Handler(deps))

	// Çalıştırma kayıtları
	protected.Get("/runs", audit.ListRunsHandler())

	logging.L().Info().Str("port", cfg.HTTPPort).Msg("Server çalışıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logging.L().Fatal().Err(err).Msg("Server durdu")
	}
}
