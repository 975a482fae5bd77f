package daemon

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopCollect(context.Context) (RunSummary, error) {
	return RunSummary{}, nil
}

func TestNewDaemon(t *testing.T) {
	d, err := NewDaemon(Config{Interval: time.Minute}, noopCollect, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d.interval)
	assert.NotNil(t, d.metrics)
}

func TestNewDaemonRejectsBadConfig(t *testing.T) {
	_, err := NewDaemon(Config{Interval: 0}, noopCollect, zerolog.Nop())
	require.Error(t, err)

	_, err = NewDaemon(Config{Interval: time.Minute}, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestDaemonRunsImmediatelyThenOnInterval(t *testing.T) {
	var runs atomic.Int64
	d, err := NewDaemon(Config{Interval: 50 * time.Millisecond}, func(context.Context) (RunSummary, error) {
		runs.Add(1)
		return RunSummary{}, nil
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}

	assert.GreaterOrEqual(t, d.RunCount(), int64(2))
}

func TestDaemonContinuesAfterRunError(t *testing.T) {
	var runs atomic.Int64
	d, err := NewDaemon(Config{Interval: 30 * time.Millisecond}, func(context.Context) (RunSummary, error) {
		runs.Add(1)
		return RunSummary{}, fmt.Errorf("run %d failed", runs.Load())
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestDaemonConsumesRunSummary(t *testing.T) {
	summary := RunSummary{
		Devices: 6,
		MetricErrors: map[string]int64{
			"leaf_leaf1": 2,
			"fabric":     1,
		},
	}
	d, err := NewDaemon(Config{Interval: time.Minute}, func(context.Context) (RunSummary, error) {
		return summary, nil
	}, zerolog.Nop())
	require.NoError(t, err)

	// Device and per-collection error counts flow into the instruments
	// without panicking, for both successful and failed runs.
	d.runOnce(context.Background())
	assert.Equal(t, int64(1), d.RunCount())

	d.collect = func(context.Context) (RunSummary, error) {
		return RunSummary{}, fmt.Errorf("fabric unreachable")
	}
	d.runOnce(context.Background())
	assert.Equal(t, int64(2), d.RunCount())
}

func TestDaemonMetricsEndpoints(t *testing.T) {
	d, err := NewDaemon(Config{
		Interval:    time.Minute,
		MetricsAddr: "127.0.0.1:0",
	}, noopCollect, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	require.Eventually(t, func() bool { return d.MetricsAddr() != "" }, 2*time.Second, 10*time.Millisecond)

	for _, path := range []string{"/metrics", "/health", "/-/healthy", "/-/ready"} {
		resp, err := http.Get("http://" + d.MetricsAddr() + path)
		require.NoError(t, err, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}
