package sessionguard

import (
	"time"

	"github.com/davrion/sessionguard/session"
)

// Engine is the session security engine: it issues, validates, rotates, and
// revokes sessions, detects hijacking, and enforces per-user concurrency
// limits. All shared state lives in the external Redis store; Engine holds
// no in-process session cache, so any number of instances may run against
// the same store.
//
// Engine instances are intended to be configured during initialization through
// [Builder.Build] and then treated as immutable.
type Engine struct {
	config       Config
	sessionStore *session.Store
	audit        *auditDispatcher
	metrics      *Metrics
	userProvider UserProvider
}

// Close flushes and stops the audit dispatcher. The Engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were shed under backpressure.
// A nonzero value is an operator signal, never a caller-visible failure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// sessionTTL is the store TTL for a record: the idle timeout, extended for
// remember-me sessions. Every activity touch re-applies it.
func (e *Engine) sessionTTL(rec *session.Record) time.Duration {
	if rec.HasFlag(session.FlagRememberMe) {
		return e.config.Session.RememberMeTimeout
	}
	return e.config.Session.IdleTimeout
}

func (e *Engine) idleTimeout(rec *session.Record) time.Duration {
	return e.sessionTTL(rec)
}
