package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/courses"
	"coursehub/internal/db"
	"coursehub/internal/httpserver"
	"coursehub/internal/logging"
	"coursehub/internal/seed"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("COURSEHUB_JWT_SECRET must be set")
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	courseStore := courses.NewStore(dbConn)

	if cfg.SeedPath != "" {
		if err := seed.Load(ctx, cfg.SeedPath, userStore, courseStore, logger); err != nil {
			log.Fatalf("seed data: %v", err)
		}
	}

	authSvc := auth.NewService(userStore, cfg.JWTSecret)

	handler := httpserver.NewRouter(logger, authSvc, userStore, courseStore, cfg.FrontendOrigin)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
