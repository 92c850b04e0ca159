package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manokmart/manokmart-BE/api"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/manokmart/manokmart-BE/internal/event"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/manokmart/manokmart-BE/internal/tracking"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	if err = connPool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	taskDistributor := worker.NewTaskDistributor(redisOpt)
	taskInspector := worker.NewTaskInspector(redisOpt)

	lalamoveClient, err := lalamove.NewClient(&config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create delivery provider client 😣")
	}
	log.Info().Msg("delivery provider client created successfully ✅")

	eventSender := event.NewSSEServer()
	go eventSender.Run()

	orchestrator := delivery.NewOrchestrator(lalamoveClient, store, taskDistributor, taskInspector, eventSender, redisDb, &config)

	go runTaskProcessor(redisOpt, store, eventSender, orchestrator)

	tracker, err := tracking.NewTracker(store, lalamoveClient, orchestrator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create delivery tracker 😣")
	}
	if err = tracker.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start delivery tracker 😣")
	}
	log.Info().Msg("delivery tracker started successfully ✅")

	runHTTPServer(&config, store, orchestrator, taskDistributor, taskInspector, eventSender)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, eventSender event.EventSender, orchestrator *delivery.Orchestrator) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, store, eventSender, orchestrator)
	log.Info().Msg("task processor created successfully ✅")

	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runHTTPServer(config *util.Config, store db.Store, orchestrator *delivery.Orchestrator, taskDistributor worker.TaskDistributor, taskInspector worker.TaskInspector, eventSender event.EventSender) {
	server := api.NewServer(store, config, orchestrator, taskDistributor, taskInspector, eventSender)

	// A tunnel lets the provider reach the webhook routes during local
	// development. Production deployments expose the server directly.
	if config.NgrokAuthToken != "" {
		publicURL, err := server.StartWithTunnel(context.Background(), config.NgrokAuthToken)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start ngrok tunnel 😣")
		}
		log.Info().Msgf("webhook tunnel available at %s/webhook/lalamove ✅", publicURL)
		select {}
	}

	if err := server.Start(config.HTTPServerAddress); err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
