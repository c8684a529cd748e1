package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"taskforge/internal/auth"
	"taskforge/internal/config"
	"taskforge/internal/db"
	"taskforge/internal/httpserver"
	"taskforge/internal/notes"
	"taskforge/internal/tasks"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Optional; env vars win over the file.
	_ = godotenv.Load(".env")

	cfg := config.Load()

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userStore := auth.NewStore(dbConn)
	if err := userStore.SeedFromFile(ctx, cfg.UsersPath); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	authSvc := auth.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)

	taskStore := tasks.NewStore(dbConn)
	taskSvc := tasks.NewService(taskStore, userStore, logger)

	noteStore := notes.NewStore(dbConn)
	noteSvc := notes.NewService(noteStore, taskStore, logger)

	handler := httpserver.NewRouter(logger, authSvc, userStore, taskSvc, noteSvc)
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
