package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rideflow/rideflow/config"
	"github.com/rideflow/rideflow/internal/stub"
)

func main() {
	// ── Load configuration ──────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// ── Choose the store ────────────────────────────────
	var store stub.Store
	if cfg.Stub.PostgresDSN != "" {
		pg, err := stub.NewPostgresStore(ctx, cfg.Stub.PostgresDSN)
		if err != nil {
			log.Fatalf("failed to connect to PostgreSQL: %v", err)
		}
		store = pg
		log.Println("✓ PostgreSQL store")
	} else {
		store = stub.NewMemoryStore()
		log.Println("✓ in-memory store (set PG_DSN to persist)")
	}
	defer store.Close()

	// ── Choose the token revoker ────────────────────────
	var revoker stub.Revoker
	if cfg.Stub.RedisAddr != "" {
		rr, err := stub.NewRedisRevoker(ctx, cfg.Stub.RedisAddr, cfg.Stub.RedisPassword, cfg.Stub.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer rr.Close()
		revoker = rr
		log.Println("✓ Redis token revocation")
	} else {
		revoker = stub.NewMemoryRevoker()
		log.Println("✓ in-memory token revocation (set REDIS_ADDR to share)")
	}

	// ── Build the gateway ───────────────────────────────
	tokens := stub.NewJWTManager(cfg.Stub.JWTSecret, cfg.Stub.TokenTTL)
	gw := stub.NewServer(store, tokens, revoker, cfg.Stub.APIKey, cfg.Stub.TokenTTL)
	if err := gw.Seed(ctx); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}

	// ── Setup router ────────────────────────────────────
	root := mux.NewRouter()
	root.HandleFunc("/health", healthHandler(store, revoker)).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	root.PathPrefix("/").Handler(gw.Router())

	// ── Start HTTP server ───────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Stub.Addr(),
		Handler:      root,
		ReadTimeout:  cfg.Stub.ReadTimeout,
		WriteTimeout: cfg.Stub.WriteTimeout,
		IdleTimeout:  cfg.Stub.IdleTimeout,
	}

	// Start in a goroutine so we can listen for shutdown signals.
	go func() {
		log.Printf("🚀 Gateway listening on %s", cfg.Stub.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("✅ Gateway gracefully stopped")
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// healthHandler checks connectivity of whichever backends are configured.
// In-memory backends report healthy by construction.
func healthHandler(store stub.Store, revoker stub.Revoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "ok",
			Services: make(map[string]string),
		}

		check := func(name string, c any) {
			hc, ok := c.(healthChecker)
			if !ok {
				resp.Services[name] = "healthy (in-memory)"
				return
			}
			if err := hc.HealthCheck(r.Context()); err != nil {
				resp.Status = "degraded"
				resp.Services[name] = "unhealthy: " + err.Error()
				return
			}
			resp.Services[name] = "healthy"
		}
		check("store", store)
		check("revoker", revoker)

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
