package sessionguard

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/davrion/sessionguard/internal"
	"github.com/redis/go-redis/v9"
)

// HealthStatus is an on-demand backend health result.
type HealthStatus struct {
	RedisAvailable bool
	RedisLatency   time.Duration
}

// ListUserSessions returns the display projection of a user's active
// sessions, oldest first. Tokens are masked and User-Agents appear only as
// fingerprint digests; pass the caller's current token so its entry is
// marked IsCurrent.
func (e *Engine) ListUserSessions(ctx context.Context, userID, currentToken string) ([]SessionInfo, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}
	if userID == "" {
		return nil, ErrUserNotFound
	}

	tokens, err := e.sessionStore.Members(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := e.sessionStore.GetMany(ctx, tokens)
	if err != nil {
		return nil, err
	}

	out := make([]SessionInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, SessionInfo{
			TokenDisplay:    internal.DisplayToken(rec.Token),
			CreatedAt:       rec.CreatedAt,
			LastActivityAt:  rec.LastActivityAt,
			ClientIP:        rec.ClientIP,
			UserAgentDigest: internal.FingerprintDigest(rec.UAFingerprint),
			PrivilegeLevel:  rec.PrivilegeLevel,
			IsCurrent:       currentToken != "" && rec.Token == currentToken,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].TokenDisplay < out[j].TokenDisplay
	})

	return out, nil
}

// GetSessionInfo fetches the display projection of a single session without
// mutating any store state.
func (e *Engine) GetSessionInfo(ctx context.Context, token string) (*SessionInfo, error) {
	if e == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}
	if token == "" {
		return nil, ErrSessionNotFound
	}

	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return &SessionInfo{
		TokenDisplay:    internal.DisplayToken(rec.Token),
		CreatedAt:       rec.CreatedAt,
		LastActivityAt:  rec.LastActivityAt,
		ClientIP:        rec.ClientIP,
		UserAgentDigest: internal.FingerprintDigest(rec.UAFingerprint),
		PrivilegeLevel:  rec.PrivilegeLevel,
	}, nil
}

// ActiveSessionCount returns the size of a user's session index.
func (e *Engine) ActiveSessionCount(ctx context.Context, userID string) (int, error) {
	if e == nil || e.sessionStore == nil {
		return 0, ErrEngineNotReady
	}
	if userID == "" {
		return 0, ErrUserNotFound
	}

	return e.sessionStore.Count(ctx, userID)
}

// Health returns a point-in-time availability check of the backing store.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	if e == nil || e.sessionStore == nil {
		return HealthStatus{}
	}

	latency, err := e.sessionStore.Ping(ctx)
	return HealthStatus{
		RedisAvailable: err == nil,
		RedisLatency:   latency,
	}
}
