// Package daemon runs snapshot collection on an interval with a
// metrics endpoint and graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RunSummary reports what one collection run touched.
type RunSummary struct {
	Devices      int
	MetricErrors map[string]int64
}

// CollectFunc performs one snapshot run.
type CollectFunc func(ctx context.Context) (RunSummary, error)

// Config holds daemon configuration
type Config struct {
	Interval    time.Duration
	MetricsAddr string
	Registry    *prometheus.Registry
}

// Daemon manages the continuous collection loop
type Daemon struct {
	interval    time.Duration
	metricsAddr string
	registry    *prometheus.Registry
	collect     CollectFunc
	logger      zerolog.Logger
	metrics     *RunMetrics

	startTime time.Time
	runCount  atomic.Int64

	// boundAddr holds the listener address once the metrics server is up.
	boundAddr atomic.Value
}

// NewDaemon creates a new daemon instance
func NewDaemon(config Config, collect CollectFunc, logger zerolog.Logger) (*Daemon, error) {
	if config.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", config.Interval)
	}
	if collect == nil {
		return nil, errors.New("collect function is required")
	}

	metrics, err := NewRunMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon metrics: %w", err)
	}

	return &Daemon{
		interval:    config.Interval,
		metricsAddr: config.MetricsAddr,
		registry:    config.Registry,
		collect:     collect,
		logger:      logger,
		metrics:     metrics,
		startTime:   time.Now(),
	}, nil
}

// Start runs the collection loop, the metrics server, and signal
// handling as one actor group. It blocks until the context is canceled,
// a signal arrives, or an actor fails.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group

	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	if d.metricsAddr != "" {
		listener, err := net.Listen("tcp", d.metricsAddr)
		if err != nil {
			return fmt.Errorf("failed to bind metrics address: %w", err)
		}
		d.boundAddr.Store(listener.Addr().String())

		server := &http.Server{Handler: d.handler()}
		g.Add(func() error {
			d.logger.Info().Str("addr", listener.Addr().String()).Msg("metrics server listening")
			return server.Serve(listener)
		}, func(error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		})
	}

	g.Add(func() error {
		return d.loop(ctx)
	}, func(error) {
		cancel()
	})

	err := g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		d.logger.Info().Str("signal", sigErr.Signal.String()).Msg("shutting down")
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// loop runs an immediate collection, then one per interval.
func (d *Daemon) loop(ctx context.Context) error {
	d.runOnce(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

func (d *Daemon) runOnce(ctx context.Context) {
	start := time.Now()
	summary, err := d.collect(ctx)
	duration := time.Since(start).Seconds()
	d.runCount.Add(1)

	status := "success"
	if err != nil {
		status = "error"
		d.logger.Error().Err(err).Msg("collection run failed")
	}
	d.metrics.RecordRun(ctx, status)
	d.metrics.RecordRunDuration(ctx, duration, status)

	if err != nil {
		return
	}
	d.metrics.RecordDevicesReached(ctx, int64(summary.Devices))
	for key, n := range summary.MetricErrors {
		d.metrics.RecordMetricErrors(ctx, key, n)
	}
}

func (d *Daemon) handler() http.Handler {
	mux := http.NewServeMux()

	metricsHandler := promhttp.Handler()
	if d.registry != nil {
		metricsHandler = promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})
	}
	mux.Handle("/metrics", metricsHandler)

	healthy := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok uptime=%ds runs=%d\n", int64(time.Since(d.startTime).Seconds()), d.runCount.Load())
	}
	mux.HandleFunc("/health", healthy)
	mux.HandleFunc("/-/healthy", healthy)
	mux.HandleFunc("/-/ready", healthy)

	return mux
}

// MetricsAddr returns the bound metrics address, empty until the server
// has started.
func (d *Daemon) MetricsAddr() string {
	if addr, ok := d.boundAddr.Load().(string); ok {
		return addr
	}
	return ""
}

// RunCount returns total collection runs executed.
func (d *Daemon) RunCount() int64 {
	return d.runCount.Load()
}
