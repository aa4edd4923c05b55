package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aura-wellness/aura/internal/api"
	"github.com/aura-wellness/aura/internal/app/cheer"
	"github.com/aura-wellness/aura/internal/app/engine"
	"github.com/aura-wellness/aura/internal/app/events"
	"github.com/aura-wellness/aura/internal/app/points"
	"github.com/aura-wellness/aura/internal/app/score"
	"github.com/aura-wellness/aura/internal/app/streak"
	_ "github.com/aura-wellness/aura/internal/infra/metrics" // Register Prometheus metrics
	"github.com/aura-wellness/aura/internal/infra/sqlite"
)

// Daemon is the core Aura runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Engine *engine.Engine
	Server *api.Server
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = auraHome()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	eng := engine.New(
		events.NewStore(db),
		score.NewAggregator(db),
		streak.NewTracker(db, cfg.Streak.Milestones),
		points.NewLedger(db, cfg.Points.DailyCap),
		cheer.NewDispatcher(db),
		engine.PointValues{
			Mood:       cfg.Points.MoodPoints,
			Boost:      cfg.Points.BoostPoints,
			Journal:    cfg.Points.JournalPoints,
			Meditation: cfg.Points.MeditationPoints,
			Workout:    cfg.Points.WorkoutPoints,
		},
	)

	srv := api.NewServer(eng)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Engine: eng,
		Server: srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Aura serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
