package events

import (
	"context"
	"sync"
	"time"
)

// MetricsCollector records publish outcomes.
type MetricsCollector interface {
	RecordEventPublished(eventType string, success bool, duration time.Duration)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventPublished(string, bool, time.Duration) {}

// MetricPublisher wraps a Publisher with metrics collection
type MetricPublisher struct {
	publisher Publisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher Publisher, metrics MetricsCollector) *MetricPublisher {
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, event)

	p.metrics.RecordEventPublished(event.EventType, err == nil, time.Since(start))
	return err
}

// TypeCounts is the publish tally for one event type.
type TypeCounts struct {
	Published   int           `json:"published"`
	Failed      int           `json:"failed"`
	LastLatency time.Duration `json:"last_latency_ns"`
}

// Counters is an in-process MetricsCollector.
type Counters struct {
	mu     sync.Mutex
	counts map[string]TypeCounts
}

func NewCounters() *Counters {
	return &Counters{counts: make(map[string]TypeCounts)}
}

func (c *Counters) RecordEventPublished(eventType string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tc := c.counts[eventType]
	if success {
		tc.Published++
	} else {
		tc.Failed++
	}
	tc.LastLatency = duration
	c.counts[eventType] = tc
}

// Snapshot returns a copy of the counts keyed by event type.
func (c *Counters) Snapshot() map[string]TypeCounts {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]TypeCounts, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
