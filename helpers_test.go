package sessionguard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

type memoryUserProvider struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemoryUserProvider(users ...User) *memoryUserProvider {
	up := &memoryUserProvider{users: make(map[string]User, len(users))}
	for _, u := range users {
		up.users[u.UserID] = u
	}
	return up
}

func (p *memoryUserProvider) GetUser(userID string) (User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (p *memoryUserProvider) SetActive(userID string, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user := p.users[userID]
	user.IsActive = active
	p.users[userID] = user
}

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type captureSink struct {
	events chan AuditEvent
}

func newCaptureSink(buffer int) *captureSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &captureSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *captureSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *captureSink) waitFor(t *testing.T, eventType string) AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-s.events:
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for audit event %q", eventType)
		}
	}
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Audit.Enabled = false
	return cfg
}

func buildTestEngine(t *testing.T, cfg Config, up UserProvider, sink AuditSink) (*Engine, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)

	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(up)
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}

	engine, err := builder.Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return engine, mr, func() {
		engine.Close()
		mr.Close()
	}
}

func newActiveEngine(t *testing.T, cfg Config, userID string) (*Engine, *miniredis.Miniredis, *memoryUserProvider, func()) {
	t.Helper()

	up := newMemoryUserProvider(User{UserID: userID, Role: "member", IsActive: true})
	engine, mr, cleanup := buildTestEngine(t, cfg, up, nil)
	return engine, mr, up, cleanup
}

// ageSession rewrites a session's clock fields directly in the store so
// expiry and rotation paths can be exercised without sleeping.
func ageSession(t *testing.T, e *Engine, token string, lastActivity, lastRotated time.Time) {
	t.Helper()

	ctx := context.Background()
	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	rec.LastActivityAt = lastActivity.Unix()
	rec.LastRotatedAt = lastRotated.Unix()
	if err := e.sessionStore.Update(ctx, rec, e.sessionTTL(rec)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

// setCreatedAt pins a session's creation time so eviction ordering is
// deterministic even when sessions are created within the same second.
func setCreatedAt(t *testing.T, e *Engine, token string, createdAt time.Time) {
	t.Helper()

	ctx := context.Background()
	rec, err := e.sessionStore.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	rec.CreatedAt = createdAt.Unix()
	if err := e.sessionStore.Update(ctx, rec, e.sessionTTL(rec)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func mustCreate(t *testing.T, e *Engine, ctx context.Context, userID string) string {
	t.Helper()

	token, err := e.CreateSession(ctx, userID, false)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return token
}

func requestContext(ip, userAgent string) context.Context {
	ctx := context.Background()
	if ip != "" {
		ctx = WithClientIP(ctx, ip)
	}
	if userAgent != "" {
		ctx = WithUserAgent(ctx, userAgent)
	}
	return ctx
}

func mustHaveFlag(t *testing.T, e *Engine, token string, flag byte) {
	t.Helper()

	rec, err := e.sessionStore.Get(context.Background(), token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !rec.HasFlag(flag) {
		t.Fatalf("expected flag %#x set, got flags %#x", flag, rec.Flags)
	}
}
