package pipeline

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "licenseassess",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
		},
		[]string{"stage", "error"},
	)
	filesIndexedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "licenseassess",
			Subsystem: "pipeline",
			Name:      "files_indexed_total",
			Help:      "Total number of files the Indexer has built a TokenIndex for.",
		},
	)
	matchesFoundCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "licenseassess",
			Subsystem: "pipeline",
			Name:      "matches_found_total",
			Help:      "Total number of license matches, by the strength that produced them.",
		},
		[]string{"strength"},
	)
)

// observeStage wraps fn so its wall-clock duration and error outcome are
// recorded under stageDuration{stage=name}, the same "time the call, label by
// error" shape as updater_metrics.go's duration histograms.
func observeStage(name string, fn stateFunc) stateFunc {
	return func(ctx context.Context, c *Controller) (State, error) {
		start := time.Now()
		next, err := fn(ctx, c)
		errLabel := "false"
		if err != nil {
			errLabel = "true"
		}
		stageDuration.WithLabelValues(name, errLabel).Observe(time.Since(start).Seconds())
		return next, err
	}
}
