package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dedovbet/backend/docs"
	"github.com/dedovbet/backend/internal/audit"
	"github.com/dedovbet/backend/internal/cache"
	"github.com/dedovbet/backend/internal/config"
	"github.com/dedovbet/backend/internal/database"
	"github.com/dedovbet/backend/internal/server"
	"github.com/dedovbet/backend/internal/services"
	"github.com/dedovbet/backend/internal/store"
)

// @title Dedovbet Betting API
// @version 1.0
// @description REST API for the dedovbet betting demo: accounts, balance ledger and game transactions
// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	config.Load()

	docs.SwaggerInfo.Title = "Dedovbet Betting API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + viper.GetString("server.port")
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	userStore := store.NewUserStore(viper.GetString("store.file"))

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}
	sessionCache := cache.New(redisClient)

	authService := services.NewAuthService(userStore, sessionCache)
	walletService := services.NewWalletService(userStore, sessionCache)

	auditor := audit.New(userStore)
	if err := auditor.Start(viper.GetString("audit.schedule")); err != nil {
		log.Fatalf("Failed to start ledger audit: %v", err)
	}
	defer auditor.Stop()

	r := server.NewRouter(authService, walletService)

	port := viper.GetString("server.port")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
