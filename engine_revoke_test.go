package sessionguard

import (
	"context"
	"errors"
	"testing"
)

func TestLogoutEndsSession(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	token := mustCreate(t, engine, ctx, "u1")

	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if decision, _ := engine.ValidateSession(ctx, token); decision.Accepted() {
		t.Fatal("expected logged-out session rejected")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	token := mustCreate(t, engine, ctx, "u1")

	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("second Logout must be a no-op, got %v", err)
	}
	if err := engine.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout with empty token must be a no-op, got %v", err)
	}

	if got := engine.MetricsSnapshot().Counters[MetricSessionDestroyed]; got != 1 {
		t.Fatalf("expected exactly 1 destroy counted, got %d", got)
	}
}

func TestRevokeSessionOwnOtherDevice(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	current := mustCreate(t, engine, ctx, "u1")
	other := mustCreate(t, engine, ctx, "u1")

	if err := engine.RevokeSession(ctx, "u1", other, current); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}

	if decision, _ := engine.ValidateSession(ctx, other); decision.Accepted() {
		t.Fatal("expected revoked session rejected")
	}
	if decision, _ := engine.ValidateSession(ctx, current); !decision.Accepted() {
		t.Fatal("expected current session untouched")
	}
}

func TestRevokeSessionCannotRevokeCurrent(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	current := mustCreate(t, engine, ctx, "u1")

	err := engine.RevokeSession(ctx, "u1", current, current)
	if !errors.Is(err, ErrCannotRevokeCurrent) {
		t.Fatalf("expected ErrCannotRevokeCurrent, got %v", err)
	}

	if decision, _ := engine.ValidateSession(ctx, current); !decision.Accepted() {
		t.Fatal("expected current session still valid")
	}
}

// Revoking a token that belongs to someone else fails identically whether
// the token exists or not; the caller learns nothing about foreign tokens.
func TestRevokeSessionForeignToken(t *testing.T) {
	up := newMemoryUserProvider(
		User{UserID: "u1", Role: "member", IsActive: true},
		User{UserID: "u2", Role: "member", IsActive: true},
	)
	engine, _, cleanup := buildTestEngine(t, testConfig(), up, nil)
	defer cleanup()

	ctx := context.Background()
	aliceCurrent := mustCreate(t, engine, ctx, "u1")
	bobToken := mustCreate(t, engine, ctx, "u2")

	existing := engine.RevokeSession(ctx, "u1", bobToken, aliceCurrent)
	if !errors.Is(existing, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for a live foreign token, got %v", existing)
	}

	missing := engine.RevokeSession(ctx, "u1", "no-such-token", aliceCurrent)
	if !errors.Is(missing, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for an unknown token, got %v", missing)
	}

	if decision, _ := engine.ValidateSession(ctx, bobToken); !decision.Accepted() {
		t.Fatal("expected foreign session untouched")
	}
	if got := engine.MetricsSnapshot().Counters[MetricRevokeDenied]; got != 2 {
		t.Fatalf("expected 2 denied revokes counted, got %d", got)
	}
}

func TestRevokeAllSessionsKeepsCurrent(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.MaxSessionsPerUser = 10

	up := newMemoryUserProvider(
		User{UserID: "u1", Role: "member", IsActive: true},
		User{UserID: "u2", Role: "member", IsActive: true},
	)
	engine, _, cleanup := buildTestEngine(t, cfg, up, nil)
	defer cleanup()

	ctx := context.Background()
	current := mustCreate(t, engine, ctx, "u1")
	extras := []string{
		mustCreate(t, engine, ctx, "u1"),
		mustCreate(t, engine, ctx, "u1"),
		mustCreate(t, engine, ctx, "u1"),
	}
	bobToken := mustCreate(t, engine, ctx, "u2")

	revoked, err := engine.RevokeAllSessions(ctx, "u1", current)
	if err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}
	if revoked != 3 {
		t.Fatalf("expected 3 revoked, got %d", revoked)
	}

	for _, token := range extras {
		if decision, _ := engine.ValidateSession(ctx, token); decision.Accepted() {
			t.Fatal("expected extra session revoked")
		}
	}
	if decision, _ := engine.ValidateSession(ctx, current); !decision.Accepted() {
		t.Fatal("expected current session kept")
	}
	if decision, _ := engine.ValidateSession(ctx, bobToken); !decision.Accepted() {
		t.Fatal("expected other user's session untouched")
	}
}

func TestRevokeAllSessionsWithoutException(t *testing.T) {
	engine, _, _, cleanup := newActiveEngine(t, testConfig(), "u1")
	defer cleanup()

	ctx := context.Background()
	tokens := []string{
		mustCreate(t, engine, ctx, "u1"),
		mustCreate(t, engine, ctx, "u1"),
	}

	revoked, err := engine.RevokeAllSessions(ctx, "u1", "")
	if err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}
	if revoked != 2 {
		t.Fatalf("expected 2 revoked, got %d", revoked)
	}

	for _, token := range tokens {
		if decision, _ := engine.ValidateSession(ctx, token); decision.Accepted() {
			t.Fatal("expected session revoked")
		}
	}

	count, err := engine.ActiveSessionCount(ctx, "u1")
	if err != nil {
		t.Fatalf("ActiveSessionCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty index, got %d", count)
	}
}
