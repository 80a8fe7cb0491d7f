package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/splitchess-backend/internal/config"
	"github.com/benbeisheim/splitchess-backend/internal/controller"
	"github.com/benbeisheim/splitchess-backend/internal/middleware"
	"github.com/benbeisheim/splitchess-backend/internal/service"
	"github.com/benbeisheim/splitchess-backend/internal/store"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

func newLogger(cfg config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(cfg.LogLevel).With().Timestamp().Logger()
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archive, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := archive.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	// Initialize services
	gameManager := service.NewGameManager(service.ManagerOptions{
		Archive:   archive,
		ClockTime: cfg.ClockTime,
		Logger:    log,
	})
	go gameManager.Run(ctx, cfg.MatchInterval)
	gameService := service.NewGameService(gameManager, view.NewRenderer(view.DefaultPieceSet{}, 96))

	// Initialize controllers
	gameController := controller.NewGameController(gameService, log)
	wsController := controller.NewWebSocketController(gameService, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(log))
	controller.Routes(app, gameController, wsController, cfg.Origins())

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Str("data_dir", cfg.DataDir).Msg("listening")
	return app.Listen(cfg.Addr)
}
