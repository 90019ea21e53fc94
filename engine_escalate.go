package sessionguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davrion/sessionguard/internal"
	"github.com/redis/go-redis/v9"
)

// Escalate raises (or changes) a session's privilege level. A privilege
// change always forces a token rotation regardless of the rotation-interval
// timer, so a token captured before escalation never carries the new
// privileges. Returns the replacement token the client must use from now on.
func (e *Engine) Escalate(ctx context.Context, token, newPrivilegeLevel string) (string, error) {
	if e == nil || e.sessionStore == nil {
		return "", ErrEngineNotReady
	}
	if token == "" {
		return "", ErrSessionNotFound
	}

	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}

	newToken, err := internal.NewToken()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	now := time.Now().Unix()
	previousLevel := rec.PrivilegeLevel
	rec.PrivilegeLevel = newPrivilegeLevel
	rec.LastRotatedAt = now
	rec.LastActivityAt = now

	if err := e.sessionStore.Rotate(ctx, rec, newToken, e.sessionTTL(rec)); err != nil {
		return "", err
	}

	e.metricInc(MetricPrivilegeEscalated)
	e.metricInc(MetricSessionRotated)
	e.emitAudit(ctx, auditEventPrivilegeEscalated, true, rec.UserID, newToken, "", func() map[string]string {
		return map[string]string{
			"previous_level":   previousLevel,
			"new_level":        newPrivilegeLevel,
			"previous_session": internal.DisplayToken(token),
		}
	})

	return newToken, nil
}
