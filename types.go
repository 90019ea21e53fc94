package sessionguard

import "github.com/davrion/sessionguard/session"

// User is the identity-store view this engine consumes. It is deliberately
// minimal: only active/inactive status and role ever influence a session
// decision.
type User struct {
	UserID   string
	Role     string
	IsActive bool
}

// UserProvider is the identity store boundary. Implementations are supplied
// by the host application and must be safe for concurrent use.
type UserProvider interface {
	GetUser(userID string) (User, error)
}

// RejectReason defines a public type used by sessionguard APIs.
//
// RejectReason instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RejectReason string

const (
	// ReasonNoSuchSession is an exported constant or variable used by the session security engine.
	ReasonNoSuchSession RejectReason = "no_such_session"
	// ReasonExpired is an exported constant or variable used by the session security engine.
	ReasonExpired RejectReason = "expired"
	// ReasonHijackSuspected is an exported constant or variable used by the session security engine.
	ReasonHijackSuspected RejectReason = "hijack_suspected"
	// ReasonUserInactive is an exported constant or variable used by the session security engine.
	ReasonUserInactive RejectReason = "user_inactive"
)

// DecisionKind defines a public type used by sessionguard APIs.
//
// DecisionKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DecisionKind uint8

const (
	// DecisionReject is an exported constant or variable used by the session security engine.
	DecisionReject DecisionKind = iota
	// DecisionAccept is an exported constant or variable used by the session security engine.
	DecisionAccept
	// DecisionRotateAndAccept is an exported constant or variable used by the session security engine.
	DecisionRotateAndAccept
)

// Decision is the outcome of validating one inbound request.
//
// On DecisionRotateAndAccept the Token field carries the replacement token;
// callers must propagate it back to the client (response cookie/header);
// the presented token is dead from this call onward. Any DecisionReject
// must be treated as "not authenticated".
type Decision struct {
	Kind   DecisionKind
	Reason RejectReason

	// Token is the identifier the client should keep using: the presented
	// token on Accept, the replacement on RotateAndAccept, empty on Reject.
	Token  string
	Record *session.Record
}

// Accepted reports whether the request may proceed.
func (d Decision) Accepted() bool {
	return d.Kind == DecisionAccept || d.Kind == DecisionRotateAndAccept
}

// SessionInfo is the safe introspection view for a session. It intentionally
// excludes full token material; tokens are masked and the User-Agent appears
// only as a short fingerprint digest.
type SessionInfo struct {
	TokenDisplay    string
	CreatedAt       int64
	LastActivityAt  int64
	ClientIP        string
	UserAgentDigest string
	PrivilegeLevel  string
	IsCurrent       bool
}
