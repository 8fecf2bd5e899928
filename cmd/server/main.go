package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/config"
	"github.com/svitlo-tech/svitlo-tracker/internal/db"
	"github.com/svitlo-tech/svitlo-tracker/internal/notify"
	"github.com/svitlo-tech/svitlo-tracker/internal/redis"
	"github.com/svitlo-tech/svitlo-tracker/internal/telegram"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// PostgreSQL is optional: without it the service is a read-only
	// schedule viewer and every store operation is a no-op.
	store := db.NewNoopStore()
	if cfg.PersistenceAvailable() {
		if err := db.Init(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("db init")
		}
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("db migrate")
		}
		store = db.NewStore()
	} else {
		log.Warn().Msg("DATABASE_URL not set, subscriptions and notifications disabled")
	}

	// redis is optional: without it every request hits the provider.
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}

	schedules := yasno.New(yasno.DefaultRegions)

	// the bot is constructed once here, only when a token is configured,
	// and handed to every component that needs it.
	var bot *telegram.Bot
	var router *telegram.Router
	if cfg.BotConfigured() {
		bot, err = telegram.NewBot(cfg.BotToken)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram bot init")
		}
		router = telegram.NewRouter(bot, store, schedules, yasno.DefaultRegions, cfg.PersistenceAvailable(), cfg.Location)
	} else {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, bot surface disabled")
	}

	notifier := notify.New(store, schedules, senderOrNil(bot), yasno.RegionNames(yasno.DefaultRegions))

	cronRunner, err := notify.StartCron(cfg.CronSchedule, notifier, cfg.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("notification cron init")
	}
	defer cronRunner.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if bot != nil && cfg.BotMode == "polling" {
		go bot.Poll(ctx, router)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, cfg, schedules, notifier, bot, router)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// senderOrNil keeps the notifier constructible without a bot; with no
// sender every due alert counts as an error and stays unlogged.
func senderOrNil(bot *telegram.Bot) notify.Sender {
	if bot == nil {
		return nil
	}
	return bot
}
