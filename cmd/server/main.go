package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stickstrike/arena/pkg/api"
	"github.com/stickstrike/arena/pkg/broadcast"
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/log"
	"github.com/stickstrike/arena/pkg/network"
	"github.com/stickstrike/arena/pkg/queue"
	"github.com/stickstrike/arena/pkg/repositories"
	"github.com/stickstrike/arena/pkg/router"
	"github.com/stickstrike/arena/pkg/sessions"
	"github.com/stickstrike/arena/pkg/workers"

	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	wsPort := flag.Int("ws-port", 8080, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 8081, "Legacy API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	logFile := flag.String("log-file", "", "Log to this file with rotation instead of stdout")
	historyDriver := flag.String("history-driver", "none", "Match history store: none, sqlite, or postgres")
	historyDSN := flag.String("history-dsn", "", "Match history DSN (sqlite path or postgres connection string)")
	migrationsDir := flag.String("migrations", "migrations/sqlite", "SQLite migrations directory")
	historyInterval := flag.Duration("history-interval", 5*time.Second, "Match history flush interval")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	if *logFile != "" {
		log.SetDefaultLogger(log.New(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}, parsedLogLevel))
	} else {
		log.SetDefaultLogger(log.New(os.Stdout, parsedLogLevel))
	}
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	players := game.NewDirectory()
	rooms := game.NewRoomManager()
	combat := game.NewResolver(players)
	registry := sessions.NewRegistry(players)
	broadcaster := broadcast.NewBroadcaster(registry)
	historyQueue := queue.NewInMemoryQueue()

	repository, err := newRepository(ctx, *historyDriver, *historyDSN, *migrationsDir)
	if err != nil {
		log.Error("Failed to open history repository: %v", err)
		os.Exit(1)
	}
	defer repository.Close(context.Background())

	historyWorker := workers.NewHistoryWorker(workers.NewHistoryWorkerOptions{
		Repository: repository,
		EventQueue: historyQueue,
		Interval:   *historyInterval,
	})
	go historyWorker.Start(ctx)

	messageRouter := router.NewRouter(router.NewRouterOptions{
		Players:      players,
		Rooms:        rooms,
		Combat:       combat,
		Sessions:     registry,
		Broadcaster:  broadcaster,
		HistoryQueue: historyQueue,
	})

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:    *apiPort,
		Players: players,
		Combat:  combat,
	})
	go apiServer.Start()

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Port: *wsPort,
	})
	go wsServer.Start(ctx, messageRouter)

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
}

func newRepository(ctx context.Context, driver, dsn, migrations string) (repositories.Repository, error) {
	switch driver {
	case "none":
		return repositories.NewNoopRepository(), nil
	case "sqlite":
		if dsn == "" {
			dsn = "arena.db"
		}
		return repositories.NewSQLiteRepository(ctx, dsn, migrations)
	case "postgres":
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return nil, fmt.Errorf("postgres history requires -history-dsn or DATABASE_URL")
		}
		return repositories.NewPostgresRepository(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown history driver: %s", driver)
	}
}
