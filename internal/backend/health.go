// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultProbeInterval is the minimum spacing between health probes.
const DefaultProbeInterval = 30 * time.Second

// HealthReport is the outcome of one health probe.
type HealthReport struct {
	Status    *HealthStatus
	Err       error
	Latency   time.Duration
	CheckedAt time.Time
}

// Healthy reports whether the probe succeeded and the backend said healthy.
func (r HealthReport) Healthy() bool {
	return r.Err == nil && r.Status.Healthy()
}

// Checked reports whether a probe has ever completed.
func (r HealthReport) Checked() bool {
	return !r.CheckedAt.IsZero()
}

// Prober runs health probes no more often than its interval. Results are
// informational; nothing in the chat flow waits on them.
type Prober struct {
	client  *Client
	limiter *rate.Limiter

	mu   sync.Mutex
	last HealthReport
}

// NewProber creates a prober allowing one probe per interval. A
// non-positive interval selects DefaultProbeInterval.
func NewProber(client *Client, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Probe checks backend health. When the limiter denies the probe it returns
// the previous report together with ErrProbeThrottled.
func (p *Prober) Probe(ctx context.Context) (HealthReport, error) {
	if !p.limiter.Allow() {
		return p.Last(), ErrProbeThrottled
	}

	start := time.Now()
	status, err := p.client.Health(ctx)
	report := HealthReport{
		Status:    status,
		Err:       err,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}

	p.mu.Lock()
	p.last = report
	p.mu.Unlock()
	return report, nil
}

// Last returns the most recent report.
func (p *Prober) Last() HealthReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
