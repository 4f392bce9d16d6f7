package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/minbar-labs/minbar/internal/db"
	"github.com/minbar-labs/minbar/internal/iqamaah"
	"github.com/minbar-labs/minbar/internal/notify"
	"github.com/minbar-labs/minbar/internal/redis"
	"github.com/minbar-labs/minbar/internal/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using process environment")
	}

	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init failed")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	store := db.NewStore(nil)

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	storageSystem := InitStorage(env)

	// refresh notifications are optional; boards fall back to polling
	var notifier *notify.Publisher
	if env.MQTTBroker != "" {
		var err error
		notifier, err = notify.NewPublisher(env.MQTTBroker, env.MQTTClientID)
		if err != nil {
			log.Error().Err(err).Msg("MQTT unavailable, board push notifications disabled")
			notifier = nil
		} else {
			defer notifier.Close()
		}
	}

	svc := iqamaah.NewService(store)

	var refresher *tasks.TimingsRefresher
	if env.TimingsAPIBase != "" {
		refresher = tasks.NewTimingsRefresher(store, env.TimingsAPIBase, env.TimingsRefreshCron)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go refresher.Start(ctx)
	}

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, svc, notifier, refresher)

	log.Info().Str("address", env.ServerAddress).Msg("server listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
