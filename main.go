package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"school-dashboard-go/config"
	"school-dashboard-go/dashboard"
	"school-dashboard-go/db"
	"school-dashboard-go/handlers"
)

func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store: Redis when configured, memory otherwise
	sessions := newSessionStore(cfg)
	reportSessions(ctx, sessions)

	// Backend client and controller
	store := db.NewRemoteStore(cfg.BackendURL, cfg.RequestTimeout)
	ctrl := dashboard.NewController(store)
	log.Printf("Using school backend at %s", cfg.BackendURL)

	// Create Dashboard Handler (injecting the services)
	dashboardHandler := handlers.NewDashboardHandler(ctrl, sessions)

	router := handlers.NewRouter(gin.Default(), dashboardHandler, handlers.RouterConfig{
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

func newSessionStore(cfg config.Config) db.SessionStore {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, keeping dashboard sessions in memory")
		return db.NewMemoryStore(cfg.SessionTTL)
	}
	client, err := db.InitializeRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	return db.NewRedisService(client, cfg.SessionTTL)
}

// reportSessions logs how many dashboard sessions survived the restart.
func reportSessions(ctx context.Context, sessions db.SessionStore) {
	count, err := sessions.CountSessions(ctx)
	if err != nil {
		log.Printf("Warning: could not count stored sessions: %v", err)
		return
	}
	if count == 0 {
		log.Println("No stored dashboard sessions found")
	} else {
		log.Printf("Found %d stored dashboard session(s)", count)
	}
}
