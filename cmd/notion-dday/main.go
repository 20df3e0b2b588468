package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sglre6355/notion-dday/internal/infrastructure"
	"github.com/sglre6355/notion-dday/internal/infrastructure/database"
	"github.com/sglre6355/notion-dday/internal/presentation"
	"github.com/sglre6355/notion-dday/internal/usecase"
)

type config struct {
	DiscordToken     string        `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	DiscordChannelID uint64        `env:"DISCORD_CHANNEL_ID,required,notEmpty"`
	NotionAPIKey     string        `env:"NOTION_API_KEY,required,notEmpty"`
	NotionDatabaseID string        `env:"NOTION_DATABASE_ID,required,notEmpty"`
	DateProperty     string        `env:"NOTION_DATE_PROPERTY"  envDefault:"날짜"`
	TitleProperty    string        `env:"NOTION_TITLE_PROPERTY" envDefault:"이름"`
	CommandPrefix    string        `env:"COMMAND_PREFIX"        envDefault:"!"`
	CheckInterval    time.Duration `env:"CHECK_INTERVAL"        envDefault:"24h"`
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	HealthAddress    string        `env:"HEALTH_ADDRESS"`
}

func (c config) channelID() string {
	return strconv.FormatUint(c.DiscordChannelID, 10)
}

// loadConfig reads .env when present, then the process environment. Existing variables win.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, err
	}
	if cfg.CheckInterval <= 0 {
		return config{}, fmt.Errorf("CHECK_INTERVAL must be positive, got %s", cfg.CheckInterval)
	}

	return cfg, nil
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to parse environment variables", slog.Any("error", err))
		return 1
	}

	var (
		notifierOpts = []usecase.DDayNotifierOption{
			usecase.WithNotifierInterval(cfg.CheckInterval),
			usecase.WithNotifierErrorHandler(
				func(channelID string, stage usecase.NotifierErrorStage, err error) {
					slog.Error(
						"d-day check failed",
						slog.String("channel", channelID),
						slog.Any("stage", stage),
						slog.Any("error", err),
					)
				},
			),
		}
		botOpts = []presentation.DDayBotOption{
			presentation.WithCommandPrefix(cfg.CommandPrefix),
		}
	)

	if cfg.DatabaseDSN != "" {
		db, err := database.Open(cfg.DatabaseDSN)
		if err != nil {
			slog.Error("failed to connect to database", slog.Any("error", err))
			return 1
		}

		sqlDB, err := db.DB()
		if err != nil {
			slog.Error("failed to access database handle", slog.Any("error", err))
			return 1
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database connection", slog.Any("error", err))
			}
		}()

		deliveryStore := database.NewDeliveryStore(db)
		if err := deliveryStore.AutoMigrate(context.Background()); err != nil {
			slog.Error("failed to run database migrations", slog.Any("error", err))
			return 1
		}

		notifierOpts = append(notifierOpts, usecase.WithDeliveryRecorder(deliveryStore))
		botOpts = append(botOpts, presentation.WithCommandDeliveryRecorder(deliveryStore))
	}

	if cfg.HealthAddress != "" {
		healthServer, err := infrastructure.NewHealthServer(cfg.HealthAddress)
		if err != nil {
			slog.Error("failed to start health server", slog.Any("error", err))
			return 1
		}
		go func() {
			if err := healthServer.Serve(); err != nil {
				slog.Error("health server failed", slog.Any("error", err))
			}
		}()
		defer healthServer.Stop()

		slog.Info("health server listening", slog.String("address", healthServer.Addr().String()))
		botOpts = append(botOpts, presentation.WithReadinessReporter(healthServer))
	}

	notionService, err := infrastructure.NewNotionService(
		cfg.NotionAPIKey,
		cfg.NotionDatabaseID,
		infrastructure.WithDateProperty(cfg.DateProperty),
		infrastructure.WithTitleProperty(cfg.TitleProperty),
	)
	if err != nil {
		slog.Error("failed to create notion service", slog.Any("error", err))
		return 1
	}

	scheduleUsecase := usecase.NewScheduleUsecase(notionService)

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		slog.Error("failed to create Discord session", slog.Any("error", err))
		return 1
	}

	notifier, err := usecase.NewDDayNotifier(
		scheduleUsecase,
		presentation.NewDiscordMessenger(session),
		cfg.channelID(),
		notifierOpts...,
	)
	if err != nil {
		slog.Error("failed to create notifier", "error", err)
		return 1
	}

	bot, err := presentation.NewDDayBot(session, notifier, scheduleUsecase, botOpts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		return 1
	}

	if err := bot.Start(); err != nil {
		bot.Stop()
		slog.Error("failed to start bot", "error", err)
		return 1
	}

	if err := bot.RegisterCommands(); err != nil {
		bot.Stop()
		slog.Error("failed to register commands", "error", err)
		return 1
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Termination signal received, shutting down...")
	bot.Stop()
	slog.Info("Bot successfully terminated")

	return 0
}

func main() {
	os.Exit(run())
}
