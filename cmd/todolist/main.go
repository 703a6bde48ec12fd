package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todolist/internal/config"
	"todolist/internal/identity"
	"todolist/internal/repository"
	"todolist/internal/schedule"
	"todolist/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	store := repository.NewStore(db)

	provider := identity.NewProvider(users, sessions, cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(provider, store, cfg.CORSOrigins)

	scheduler := schedule.New(time.Local)
	if _, err := scheduler.Every(cfg.SessionPurgeInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		purged, err := sessions.DeleteExpired(jobCtx, time.Now())
		if err != nil {
			log.Printf("[sessions] purge: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("[sessions] purged %d expired", purged)
		}
	}); err != nil {
		log.Fatalf("schedule session purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	addr := ":" + cfg.Port
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[http] shutdown: %v", err)
		}
	}()

	log.Println("[info] API listening on", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
	log.Println("Shutdown complete.")
}
