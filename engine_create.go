package sessionguard

import (
	"context"
	"fmt"
	"time"

	"github.com/davrion/sessionguard/internal"
	"github.com/davrion/sessionguard/session"
)

const defaultPrivilegeLevel = "standard"

// CreateSession issues a new session for userID after a successful
// authentication. Client IP and User-Agent are taken from ctx (see
// [WithClientIP], [WithUserAgent]); only a fingerprint of the User-Agent is
// persisted. The concurrency cap is enforced before insertion: when the
// user is at the cap, the oldest session by creation time is evicted.
//
// CreateSession may return an error when the identity store rejects the
// user or the backing store is unreachable. Store failures are never
// silent.
func (e *Engine) CreateSession(ctx context.Context, userID string, rememberMe bool) (string, error) {
	if e == nil || e.sessionStore == nil {
		return "", ErrEngineNotReady
	}
	if userID == "" {
		return "", ErrUserNotFound
	}

	user, err := e.userProvider.GetUser(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUserNotFound, err)
	}
	if !user.IsActive {
		return "", ErrUserInactive
	}

	if err := e.admitSession(ctx, userID); err != nil {
		return "", err
	}

	token, err := internal.NewToken()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	now := time.Now().Unix()
	rec := &session.Record{
		Token:          token,
		UserID:         userID,
		Role:           user.Role,
		PrivilegeLevel: defaultPrivilegeLevel,
		ClientIP:       clientIPFromContext(ctx),
		UAFingerprint:  internal.FingerprintUserAgent(userAgentFromContext(ctx)),
		CreatedAt:      now,
		LastActivityAt: now,
		LastRotatedAt:  now,
	}
	if rememberMe {
		rec.SetFlag(session.FlagRememberMe)
	}

	if err := e.sessionStore.Save(ctx, rec, e.sessionTTL(rec)); err != nil {
		return "", err
	}

	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventSessionCreated, true, userID, token, "", func() map[string]string {
		meta := map[string]string{
			"role": user.Role,
		}
		if rememberMe {
			meta["remember_me"] = "1"
		}
		return meta
	})

	return token, nil
}

// admitSession is the concurrency enforcer. It runs synchronously inside
// CreateSession, before the new record is stored. Eviction is oldest-first
// by CreatedAt, not least-recently-used: a long-idle but recently rotated
// session is still evicted before a newer one.
func (e *Engine) admitSession(ctx context.Context, userID string) error {
	limits := e.config.Limits

	cap := limits.MaxSessionsPerUser
	if limits.EnforceSingleSession {
		cap = 1
	}
	if cap <= 0 {
		return nil
	}

	tokens, err := e.sessionStore.Members(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) < cap {
		return nil
	}

	records, err := e.sessionStore.GetMany(ctx, tokens)
	if err != nil {
		return err
	}

	// Index entries whose records the TTL already reclaimed are orphans;
	// drop them opportunistically while we hold the member list.
	if len(records) < len(tokens) {
		live := make(map[string]struct{}, len(records))
		for _, rec := range records {
			live[rec.Token] = struct{}{}
		}
		for _, token := range tokens {
			if _, ok := live[token]; !ok {
				if err := e.sessionStore.RemoveFromIndex(ctx, userID, token); err != nil {
					return err
				}
			}
		}
	}

	for len(records) >= cap {
		oldest := 0
		for i, rec := range records {
			if rec.CreatedAt < records[oldest].CreatedAt {
				oldest = i
			}
		}

		evicted := records[oldest]
		if _, err := e.sessionStore.DeleteOwned(ctx, userID, evicted.Token); err != nil {
			return err
		}
		records = append(records[:oldest], records[oldest+1:]...)

		e.metricInc(MetricSessionEvicted)
		e.emitAudit(ctx, auditEventSessionEvicted, true, userID, evicted.Token, "", func() map[string]string {
			return map[string]string{
				"created_at": fmt.Sprintf("%d", evicted.CreatedAt),
			}
		})
	}

	return nil
}
