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

	"github.com/jhoicas/millet-kiosk/internal/infrastructure/kioskapi"
	infrapdf "github.com/jhoicas/millet-kiosk/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/millet-kiosk/internal/interfaces/http"
	"github.com/jhoicas/millet-kiosk/pkg/config"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
	"github.com/jhoicas/millet-kiosk/pkg/logger"
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
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: el token del backend solo se decodifica")
	}

	backend := kioskapi.New(kioskapi.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Logger:        log.Component("kioskapi").Zerolog(),
	})
	// PDF: exportaciones de listados y comprobantes de pedido
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	deps := httpRouter.RouterDeps{
		Gateway:   backend,
		Documents: pdfGenerator,
		Session: httpRouter.SessionOptions{
			TokenCookie: cfg.Session.TokenCookie,
			ShopCookie:  cfg.Session.ShopCookie,
			LoginPath:   cfg.Session.LoginPath,
			Secure:      cfg.Session.Secure,
			MaxAge:      cfg.Session.MaxAge,
			JWTSecret:   cfg.JWT.Secret,
		},
		CartCookie: cfg.Session.CartCookie,
		PageSize:   cfg.List.PageSize,
		CSV:        listview.CSVOptions{EscapeQuotes: cfg.List.CSVEscapeQuotes},
		Logger:     log.Component("http").Zerolog(),
	}
	errorHandler, err := httpRouter.ErrorHandler(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas HTML")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // las exportaciones PDF pueden tardar
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Millet Kiosk API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if err := httpRouter.Router(app, deps); err != nil {
		log.Fatal().Err(err).Msg("registrar rutas")
	}

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
