package session

// Security and lifetime flags carried by a [Record]. Anomaly flags are set
// by the validator and never cleared automatically.
const (
	FlagRememberMe byte = 1 << iota
	FlagIPChanged
	FlagUAChanged
	FlagSuspicious
)

// Record is the persisted state of one active session. The token is the
// primary identifier and is never reused; UserID is immutable for the
// session's lifetime.
//
// Record instances are plain data: all policy (expiry, hijack detection,
// rotation) is applied by the caller.
type Record struct {
	Token string

	UserID         string
	Role           string
	PrivilegeLevel string

	// ClientIP is captured at creation and compared on every request.
	// UAFingerprint is a one-way hash of the client's User-Agent; the raw
	// string is never persisted.
	ClientIP      string
	UAFingerprint [32]byte

	Flags        byte
	RequestCount uint32

	CreatedAt      int64
	LastActivityAt int64
	LastRotatedAt  int64
}

// HasFlag reports whether the given flag bit is set.
func (r *Record) HasFlag(flag byte) bool {
	return r.Flags&flag != 0
}

// SetFlag sets the given flag bit. Flags are sticky: there is no ClearFlag.
func (r *Record) SetFlag(flag byte) {
	r.Flags |= flag
}
