package internaldefs

import (
	sessionguard "github.com/davrion/sessionguard"
)

// CounterDef defines a public type used by sessionguard APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sessionguard.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sessionguard APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sessionguard.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session security engine.
var CounterDefs = []CounterDef{
	{ID: sessionguard.MetricSessionCreated, Name: "sessionguard_session_created_total", Help: "Created sessions."},
	{ID: sessionguard.MetricSessionDestroyed, Name: "sessionguard_session_destroyed_total", Help: "Destroyed sessions (logout or targeted revoke)."},
	{ID: sessionguard.MetricSessionRotated, Name: "sessionguard_session_rotated_total", Help: "Token rotations (interval or escalation)."},
	{ID: sessionguard.MetricSessionEvicted, Name: "sessionguard_session_evicted_total", Help: "Sessions evicted by the per-user concurrency cap."},
	{ID: sessionguard.MetricValidateAccept, Name: "sessionguard_validate_accept_total", Help: "Accepted validations."},
	{ID: sessionguard.MetricRejectNoSession, Name: "sessionguard_reject_no_session_total", Help: "Validations rejected for an unknown token."},
	{ID: sessionguard.MetricRejectExpired, Name: "sessionguard_reject_expired_total", Help: "Validations rejected for idle expiry."},
	{ID: sessionguard.MetricRejectUserInactive, Name: "sessionguard_reject_user_inactive_total", Help: "Validations rejected because the owning user is inactive."},
	{ID: sessionguard.MetricHijackSuspected, Name: "sessionguard_hijack_suspected_total", Help: "Validations rejected as suspected hijacks."},
	{ID: sessionguard.MetricIPChangeFlagged, Name: "sessionguard_ip_change_flagged_total", Help: "Client IP mismatches flagged on a session."},
	{ID: sessionguard.MetricUAChangeFlagged, Name: "sessionguard_ua_change_flagged_total", Help: "User-Agent fingerprint mismatches flagged on a session."},
	{ID: sessionguard.MetricPrivilegeEscalated, Name: "sessionguard_privilege_escalated_total", Help: "Privilege escalation operations."},
	{ID: sessionguard.MetricSessionsBulkRevoked, Name: "sessionguard_sessions_bulk_revoked_total", Help: "Bulk revocation operations."},
	{ID: sessionguard.MetricRevokeDenied, Name: "sessionguard_revoke_denied_total", Help: "Revocations denied by the ownership check."},
	{ID: sessionguard.MetricAuditEmitFailed, Name: "sessionguard_audit_emit_failed_total", Help: "Audit events shed by the dispatcher."},
}

// HistogramDefs is an exported constant or variable used by the session security engine.
var HistogramDefs = []HistogramDef{
	{ID: sessionguard.MetricValidateLatency, Name: "sessionguard_validate_latency_seconds", Help: "ValidateSession latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session security engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session security engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form the
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
