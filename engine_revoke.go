package sessionguard

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Logout ends the caller's own session. It is idempotent: logging out a
// session that already expired or was revoked is not an error.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}
	if token == "" {
		return nil
	}

	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	existed, err := e.sessionStore.DeleteOwned(ctx, rec.UserID, token)
	if err != nil {
		return err
	}
	if existed {
		e.metricInc(MetricSessionDestroyed)
		e.emitAudit(ctx, auditEventSessionDestroyed, true, rec.UserID, token, "", nil)
	}

	return nil
}

// RevokeSession revokes one of userID's sessions by token. Ownership is
// verified against the caller's own index only, so probing a foreign token
// always yields ErrNotOwner without confirming whether it exists. The
// session the caller is currently using cannot be revoked through this
// path; logout is the only way to end one's own active session.
func (e *Engine) RevokeSession(ctx context.Context, userID, token, currentToken string) error {
	if e == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}
	if token == currentToken && token != "" {
		return ErrCannotRevokeCurrent
	}

	tokens, err := e.sessionStore.Members(ctx, userID)
	if err != nil {
		return err
	}

	owned := false
	for _, member := range tokens {
		if member == token {
			owned = true
			break
		}
	}
	if !owned {
		e.metricInc(MetricRevokeDenied)
		e.emitAudit(ctx, auditEventRevokeDenied, false, userID, token, "", nil)
		return ErrNotOwner
	}

	if _, err := e.sessionStore.DeleteOwned(ctx, userID, token); err != nil {
		return err
	}

	e.metricInc(MetricSessionDestroyed)
	e.emitAudit(ctx, auditEventSessionDestroyed, true, userID, token, "", nil)

	return nil
}

// RevokeAllSessions revokes every session of userID except exceptToken
// (pass the caller's current token to keep it, or empty to revoke all).
// Returns the number of sessions revoked, suitable for user-facing
// confirmation. Other users' sessions are never touched.
func (e *Engine) RevokeAllSessions(ctx context.Context, userID, exceptToken string) (int, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}

	tokens, err := e.sessionStore.Members(ctx, userID)
	if err != nil {
		return 0, err
	}

	revoked := 0
	for _, token := range tokens {
		if token == exceptToken {
			continue
		}
		existed, err := e.sessionStore.DeleteOwned(ctx, userID, token)
		if err != nil {
			return revoked, err
		}
		if existed {
			revoked++
		}
	}

	if revoked > 0 {
		e.metricInc(MetricSessionsBulkRevoked)
	}
	e.emitAudit(ctx, auditEventSessionsBulkRevoke, true, userID, exceptToken, "", func() map[string]string {
		return map[string]string{
			"revoked_count": strconv.Itoa(revoked),
		}
	})

	return revoked, nil
}
