package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// HealthChecker is satisfied by clients.HuggingFaceClient.
type HealthChecker interface {
	AnalyzerHealthCheck(ctx context.Context) bool
}

// MonitorAnalyzerHealth checks the remote sentiment service once right away
// and then every interval until ctx is cancelled, storing the result in
// healthy.
func MonitorAnalyzerHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		isHealthy := checker.AnalyzerHealthCheck(checkCtx)
		if healthy.Swap(isHealthy) != isHealthy {
			slog.Info("[HealthCheck] Analyzer health changed",
				slog.Bool("healthy", isHealthy))
		}
		if !isHealthy {
			slog.Warn("[HealthCheck] Analyzer is unhealthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
