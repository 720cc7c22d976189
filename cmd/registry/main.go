package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-app-gateway/conf"
	"mini-app-gateway/controller"
	"mini-app-gateway/database"
	"mini-app-gateway/feed"
	"mini-app-gateway/service/registry_service"

	log "github.com/sirupsen/logrus"
)

var (
	ENV      string
	seedFile string
)

func init() {
	flag.StringVar(&ENV, "env", "loc", "Environment: loc/mainnet/testnet/example")
	flag.StringVar(&seedFile, "seed", "", "YAML file of apps to import on startup")
}

// @title           Mini-App Registry API
// @version         1.0
// @description     App metadata registry backing the mini-app gateway

// @host      localhost:7291
// @BasePath  /

func main() {
	registryService, srv, cleanup := initAll()
	defer cleanup()

	// Import seed file before serving
	if seedFile != "" {
		seed, err := registry_service.LoadSeedFile(seedFile)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		registryService.ImportSeed(seed)
	}

	// Start update feed (in goroutine)
	var zmqClient *feed.ZMQClient
	if conf.Cfg.Feed.ZmqEnabled {
		zmqClient = feed.NewZMQClient(conf.Cfg.Feed.ZmqAddress)
		if err := zmqClient.StartWithApps(conf.Cfg.Feed.ZmqTopic, registryService.Upsert); err != nil {
			log.Fatalf("Failed to start update feed: %v", err)
		}
		log.Info("Registry update feed started successfully")
	}

	// Start HTTP API service (in goroutine)
	go startServer(srv)
	log.Info("Registry API service started successfully")

	waitForShutdown()

	log.Info("Shutting down registry service...")

	if zmqClient != nil {
		zmqClient.Stop()
	}
	shutdownServer(srv)

	log.Info("Server exited")
}

// initEnv initialize environment
func initEnv() {
	env, err := conf.ParseEnvironment(ENV)
	if err != nil {
		log.Fatalf("Invalid -env flag: %v", err)
	}
	conf.SystemEnvironmentEnum = env
}

// initAll initialize all components
func initAll() (*registry_service.RegistryService, *http.Server, func()) {
	flag.Parse()

	initEnv()

	if err := conf.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	conf.InitLogger(conf.Cfg.Server.LogLevel)
	log.WithFields(log.Fields{
		"env":  ENV,
		"port": conf.Cfg.Feed.Port,
		"db":   conf.Cfg.Database.IndexerType,
	}).Info("Configuration loaded")

	// Initialize database
	if err := initDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	registryService := registry_service.NewRegistryService()
	router := controller.SetupRegistryRouter(registryService)

	srv := &http.Server{
		Addr:              ":" + conf.Cfg.Feed.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		if database.DB != nil {
			database.DB.Close()
		}
	}

	return registryService, srv, cleanup
}

// initDatabase initialize database based on configuration
func initDatabase() error {
	dbType := database.DBType(conf.Cfg.Database.IndexerType)

	switch dbType {
	case database.DBTypePebble:
		config := &database.PebbleConfig{
			DataDir: conf.Cfg.Database.DataDir,
		}
		return database.InitDatabase(database.DBTypePebble, config)
	default:
		return fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// startServer start HTTP server
func startServer(srv *http.Server) {
	log.Infof("Registry API service starting on port %s...", conf.Cfg.Feed.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// waitForShutdown wait for shutdown signal
func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

// shutdownServer gracefully shutdown server
func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
}
