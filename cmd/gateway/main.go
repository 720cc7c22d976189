package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-app-gateway/conf"
	"mini-app-gateway/controller"
	"mini-app-gateway/registry"

	log "github.com/sirupsen/logrus"
)

var ENV string

func init() {
	flag.StringVar(&ENV, "env", "loc", "Environment: loc/mainnet/testnet/example")
}

// @title           Mini-App Gateway API
// @version         1.0
// @description     Deep-link resolution and social-preview gateway for wallet mini-apps

// @host      localhost:7290
// @BasePath  /

// @schemes https http

func main() {
	srv, cleanup := initAll()
	defer cleanup()

	// Start HTTP service (in goroutine)
	go startServer(srv)
	log.Info("Gateway service started successfully")

	// Wait for shutdown signal
	waitForShutdown()

	log.Info("Shutting down gateway service...")

	// Gracefully shutdown HTTP service
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
func initAll() (*http.Server, func()) {
	// Parse command line parameters
	flag.Parse()

	// Set environment
	initEnv()

	// Initialize configuration
	if err := conf.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	conf.InitLogger(conf.Cfg.Server.LogLevel)
	log.WithFields(log.Fields{
		"env":      ENV,
		"port":     conf.Cfg.Server.Port,
		"registry": conf.Cfg.Registry.BaseUrl,
	}).Info("Configuration loaded")

	// Create registry client
	client := registry.NewClient(conf.Cfg.Registry.BaseUrl,
		registry.WithUserAgent(conf.Cfg.Registry.UserAgent),
		registry.WithTimeout(time.Duration(conf.Cfg.Registry.TimeoutMs)*time.Millisecond),
		registry.WithBreakerThreshold(int64(conf.Cfg.Registry.BreakerThreshold)),
	)

	router, err := controller.SetupGatewayRouter(client)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + conf.Cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		client.Close()
	}

	return srv, cleanup
}

// startServer start HTTP server
func startServer(srv *http.Server) {
	log.Infof("Gateway service starting on port %s...", conf.Cfg.Server.Port)
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
