package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/courtside/internal/api/fantasy"
	"github.com/omarshaarawi/courtside/internal/api/league"
	"github.com/omarshaarawi/courtside/internal/bot"
	"github.com/omarshaarawi/courtside/internal/config"
	"github.com/omarshaarawi/courtside/internal/repository"
	"github.com/omarshaarawi/courtside/internal/repository/memory"
	"github.com/omarshaarawi/courtside/internal/repository/redis"
	"github.com/omarshaarawi/courtside/internal/repository/sqlite"
	"github.com/omarshaarawi/courtside/internal/scheduler"
	"github.com/omarshaarawi/courtside/internal/server"
	"github.com/omarshaarawi/courtside/internal/service"
	"github.com/omarshaarawi/courtside/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leagueAPI := league.NewAPI(league.NewClient(cfg.LeagueAPI))

	var (
		players   fantasy.PlayerDirectory   = leagueAPI
		gameweeks fantasy.GameweekDirectory = leagueAPI
	)
	if cfg.Directory.Source == config.SourceSQLite {
		db, err := sqlite.Open(ctx, cfg.Directory.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		loc, err := time.LoadLocation(cfg.Schedule.Timezone)
		if err != nil {
			return fmt.Errorf("loading timezone: %w", err)
		}
		dir := sqlite.NewDirectory(db, loc)
		players, gameweeks = dir, dir
		slog.Info("Reading players and gameweeks from SQLite", "dsn", cfg.Directory.DSN)
	}

	fantasyAPI := fantasy.NewAPI(players, gameweeks, leagueAPI, leagueAPI)
	directoryService := service.NewDirectoryService(fantasyAPI, memory.NewRepository())

	store, closeStore, err := rosterStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(fantasyAPI, directoryService, store, cfg.Schedule.DefaultGameweek)
	fantasyService := service.NewFantasyService(fantasyAPI, directoryService, sessions)

	if _, err := directoryService.Refresh(ctx); err != nil {
		slog.Error("Initial directory refresh failed", "error", err)
	}

	var (
		alertKey    string
		sendMessage func(string) error
	)
	if cfg.BotEnabled() {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, fantasyService)
		if err != nil {
			return err
		}
		if telegramBot.ChatID() != 0 {
			alertKey = bot.SessionKey(telegramBot.ChatID())
			sendMessage = telegramBot.SendMessage
		}

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	} else {
		slog.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule, directoryService, fantasyService, sessions, alertKey, sendMessage)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	srv := server.NewServer(cfg.Server, directoryService, sessions)
	srv.Start()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping HTTP server", "error", err)
	}

	return nil
}

// rosterStore persists rosters in Redis when REDIS_URL is set and in process
// memory otherwise.
func rosterStore(ctx context.Context, cfg config.Redis) (repository.RosterStore, func(), error) {
	if cfg.URL == "" {
		slog.Info("REDIS_URL not set, rosters will not survive a restart")
		return memory.NewRosterStore(), func() {}, nil
	}

	client, err := redis.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing redis client", "error", err)
		}
	}
	return redis.NewRosterStore(client, cfg.RosterTTL), closeFn, nil
}
