package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jroark/cellduel/pkg/api"
	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/puzzle"
	"github.com/jroark/cellduel/pkg/registry"
	"github.com/jroark/cellduel/pkg/repositories"
	"github.com/jroark/cellduel/pkg/server"
	"github.com/jroark/cellduel/pkg/version"
	"github.com/jroark/cellduel/pkg/workers"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	port := flag.Int("port", 8080, "Websocket port to listen on")
	apiPort := flag.Int("api-port", 8081, "HTTP API port to listen on")
	dbPath := flag.String("db", "cellduel.db", "SQLite database path (ignored when DATABASE_URL is set)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	// the port may also be given as a bare positional argument
	if arg := flag.Arg(0); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			panic(fmt.Sprintf("Invalid port argument %q: %v", arg, err))
		}
		*port = parsed
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repository repositories.Repository
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr)
	} else {
		repository, err = repositories.NewSQLiteRepository(ctx, *dbPath)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(context.Background())

	saveGameRecordChannelSize := 100
	saveGameRecordChan := make(chan *repositories.GameRecord, saveGameRecordChannelSize)

	saveGameRecordWorker := workers.NewSaveGameRecordWorker(workers.NewSaveGameRecordWorkerOptions{
		Repository:         repository,
		SaveGameRecordChan: saveGameRecordChan,
	})
	go saveGameRecordWorker.Start(ctx)

	reg := registry.NewRegistry(registry.NewRegistryOptions{
		Source: puzzle.NewGenerator(),
	})

	router := server.NewRouter(server.NewRouterOptions{
		Registry:           reg,
		SaveGameRecordChan: saveGameRecordChan,
	})

	wsServer := server.NewWSServer(server.NewWSServerOptions{
		Port:   *port,
		Router: router,
	})
	go wsServer.Start()

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       *apiPort,
		Registry:   reg,
		Repository: repository,
	})
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := wsServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop websocket server: %v", err)
	}
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	log.Info("Server stopped")
}
