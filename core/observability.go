package core

import (
	"context"
	"time"
)

func (g *Gateway) observe(ctx context.Context, operation Operation, startedAt time.Time, err error) {
	if g == nil || g.metricsRecorder == nil {
		return
	}
	tags := map[string]string{
		"operation": string(operation),
		"outcome":   string(OutcomeOf(err)),
	}
	elapsed := time.Since(startedAt)
	g.metricsRecorder.IncCounter(ctx, "integrations."+string(operation)+".total", 1, tags)
	g.metricsRecorder.ObserveHistogram(ctx, "integrations."+string(operation)+".duration_ms", float64(elapsed.Milliseconds()), tags)
}
