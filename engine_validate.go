package sessionguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davrion/sessionguard/internal"
	"github.com/davrion/sessionguard/session"
	"github.com/redis/go-redis/v9"
)

// ValidateSession decides whether an inbound request presenting token may
// proceed. Client IP and User-Agent are taken from ctx. The returned
// [Decision] is Accept, Reject(reason), or RotateAndAccept(newToken); a
// non-nil error is returned only for infrastructure failures
// (store unavailable, corrupt record), never for policy rejections.
//
// Heuristic asymmetry: a User-Agent fingerprint mismatch rejects by default
// and the record is kept so the anomaly stays visible; an IP mismatch only
// raises a flag unless [HijackConfig].RejectOnIPChange is set.
func (e *Engine) ValidateSession(ctx context.Context, token string) (Decision, error) {
	if e == nil || e.sessionStore == nil {
		return Decision{}, ErrEngineNotReady
	}

	start := time.Now()
	decision, err := e.validateSession(ctx, token)
	if e.metrics != nil {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}
	return decision, err
}

func (e *Engine) validateSession(ctx context.Context, token string) (Decision, error) {
	if token == "" {
		return e.reject(ctx, "", "", ReasonNoSuchSession), nil
	}

	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return e.reject(ctx, "", token, ReasonNoSuchSession), nil
		}
		return Decision{}, err
	}

	now := time.Now()
	idleTimeout := e.idleTimeout(rec)
	idle := now.Sub(time.Unix(rec.LastActivityAt, 0))

	// Boundary is exclusive: a session idle for exactly the timeout is
	// still live.
	if idle > idleTimeout {
		if _, err := e.sessionStore.DeleteOwned(ctx, rec.UserID, token); err != nil {
			return Decision{}, err
		}
		return e.reject(ctx, rec.UserID, token, ReasonExpired), nil
	}
	remaining := idleTimeout - idle

	active, err := e.ownerActive(rec.UserID)
	if err != nil {
		return Decision{}, err
	}
	if !active {
		return e.reject(ctx, rec.UserID, token, ReasonUserInactive), nil
	}

	currentFP := internal.FingerprintUserAgent(userAgentFromContext(ctx))
	if !internal.FingerprintEqual(currentFP, rec.UAFingerprint) {
		rec.SetFlag(session.FlagUAChanged)
		e.metricInc(MetricUAChangeFlagged)

		if e.config.Hijack.RejectOnUserAgentChange {
			rec.SetFlag(session.FlagSuspicious)
			// Persist the anomaly without refreshing activity, so the
			// flag is visible to audit and to the user's other devices
			// while the legitimate client keeps working.
			if err := e.sessionStore.Update(ctx, rec, remaining); err != nil {
				return Decision{}, err
			}
			e.metricInc(MetricHijackSuspected)
			e.emitAnomaly(ctx, rec, "ua_changed", true)
			return e.reject(ctx, rec.UserID, token, ReasonHijackSuspected), nil
		}
		e.emitAnomaly(ctx, rec, "ua_changed", false)
	}

	if ip := clientIPFromContext(ctx); ip != "" && rec.ClientIP != "" && ip != rec.ClientIP {
		rec.SetFlag(session.FlagIPChanged)
		e.metricInc(MetricIPChangeFlagged)

		if e.config.Hijack.RejectOnIPChange {
			rec.SetFlag(session.FlagSuspicious)
			if err := e.sessionStore.Update(ctx, rec, remaining); err != nil {
				return Decision{}, err
			}
			e.metricInc(MetricHijackSuspected)
			e.emitAnomaly(ctx, rec, "ip_changed", true)
			return e.reject(ctx, rec.UserID, token, ReasonHijackSuspected), nil
		}
		e.emitAnomaly(ctx, rec, "ip_changed", false)
	}

	rec.LastActivityAt = now.Unix()
	rec.RequestCount++
	ttl := e.sessionTTL(rec)

	if now.Sub(time.Unix(rec.LastRotatedAt, 0)) > e.config.Session.RotationInterval {
		return e.rotate(ctx, rec, ttl)
	}

	if err := e.sessionStore.Update(ctx, rec, ttl); err != nil {
		return Decision{}, err
	}

	e.metricInc(MetricValidateAccept)
	return Decision{Kind: DecisionAccept, Token: rec.Token, Record: rec}, nil
}

// rotate replaces the session's token, preserving the logical session.
// Concurrent rotations race benignly: the store's last writer wins and the
// loser's token is orphaned, which only affects the client that never
// received it.
func (e *Engine) rotate(ctx context.Context, rec *session.Record, ttl time.Duration) (Decision, error) {
	newToken, err := internal.NewToken()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	oldToken := rec.Token
	rec.LastRotatedAt = time.Now().Unix()

	if err := e.sessionStore.Rotate(ctx, rec, newToken, ttl); err != nil {
		return Decision{}, err
	}

	e.metricInc(MetricSessionRotated)
	e.metricInc(MetricValidateAccept)
	e.emitAudit(ctx, auditEventSessionRotated, true, rec.UserID, newToken, "", func() map[string]string {
		return map[string]string{
			"previous_session": internal.DisplayToken(oldToken),
		}
	})

	return Decision{Kind: DecisionRotateAndAccept, Token: newToken, Record: rec}, nil
}

func (e *Engine) ownerActive(userID string) (bool, error) {
	if e.userProvider == nil {
		return false, ErrEngineNotReady
	}
	user, err := e.userProvider.GetUser(userID)
	if err != nil {
		// A vanished owner fails validation the same way a deactivated
		// one does.
		return false, nil
	}
	return user.IsActive, nil
}

func (e *Engine) reject(ctx context.Context, userID, token string, reason RejectReason) Decision {
	switch reason {
	case ReasonNoSuchSession:
		e.metricInc(MetricRejectNoSession)
	case ReasonExpired:
		e.metricInc(MetricRejectExpired)
	case ReasonUserInactive:
		e.metricInc(MetricRejectUserInactive)
	}

	e.emitAudit(ctx, auditEventSessionRejected, false, userID, token, reason, nil)

	return Decision{Kind: DecisionReject, Reason: reason}
}

func (e *Engine) emitAnomaly(ctx context.Context, rec *session.Record, kind string, rejected bool) {
	e.emitAudit(ctx, auditEventAnomalyDetected, !rejected, rec.UserID, rec.Token, "", func() map[string]string {
		meta := map[string]string{
			kind: "1",
		}
		if rejected {
			meta["rejected"] = "1"
		}
		return meta
	})
}
