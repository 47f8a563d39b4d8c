package metrics

import (
	"sync/atomic"
	"time"

	"payslips/internal/domain/dispatch"
)

// Collector counts HTTP traffic and payslip outcomes for /metrics.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	runs         uint64
	sent         uint64
	noAddress    uint64
	renderFailed uint64
	sendFailed   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordRun() {
	atomic.AddUint64(&c.runs, 1)
}

// RecordOutcome counts one finished record by its status.
func (c *Collector) RecordOutcome(status string) {
	switch status {
	case dispatch.StatusSent:
		atomic.AddUint64(&c.sent, 1)
	case dispatch.StatusNoAddress:
		atomic.AddUint64(&c.noAddress, 1)
	case dispatch.StatusRenderFailed:
		atomic.AddUint64(&c.renderFailed, 1)
	case dispatch.StatusSendFailed:
		atomic.AddUint64(&c.sendFailed, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          errs,
		"rateLimitedTotal":     limited,
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"runsTotal":            atomic.LoadUint64(&c.runs),
		"payslipsSent":         atomic.LoadUint64(&c.sent),
		"payslipsNoAddress":    atomic.LoadUint64(&c.noAddress),
		"payslipsRenderFailed": atomic.LoadUint64(&c.renderFailed),
		"payslipsSendFailed":   atomic.LoadUint64(&c.sendFailed),
	}
}
