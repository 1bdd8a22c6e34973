package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/EV-Complaints/internal/complaints"
	"github.com/EmpoweredVote/EV-Complaints/internal/config"
	"github.com/EmpoweredVote/EV-Complaints/internal/db"
	"github.com/EmpoweredVote/EV-Complaints/internal/logger"
	"github.com/EmpoweredVote/EV-Complaints/internal/middleware"
	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

type invalidator interface {
	Invalidate()
}

// reloadOnSignal drops the cached zone list each time sig fires, so a zone
// import is served without waiting for the TTL.
func reloadOnSignal(ctx context.Context, c invalidator, sig <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			c.Invalidate()
			logger.Info(ctx, "zone snapshot invalidated")
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config: ", err)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Connect(cfg.Database); err != nil {
		logger.Fatal(ctx, "could not connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "could not close database", zap.Error(err))
		}
	}()

	if err := zones.Init(); err != nil {
		logger.Fatal(ctx, "could not init zones", zap.Error(err))
	}
	if err := complaints.Init(); err != nil {
		logger.Fatal(ctx, "could not init complaints", zap.Error(err))
	}

	snapshot := zones.NewSnapshot(zones.NewGormStore(db.DB), cfg.ZoneCacheTTL)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloadOnSignal(ctx, snapshot, hup)

	limiter := rate.NewLimiter(rate.Limit(cfg.ResolveRateLimit), cfg.ResolveRateBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/", RootHandler)
	r.Get("/healthz", HealthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/zones", zones.SetupRoutes(zones.NewHandler(snapshot), limiter))

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "could not start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()
	logger.Info(shutdownCtx, "stopping server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "could not stop server", zap.Error(err))
	}
}
