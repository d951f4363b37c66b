package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"careerpath/internal/domain"
)

func sampleSession() domain.AssessmentSession {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.AssessmentSession{
		ID:              "s1",
		UserID:          "u1",
		Answers:         []domain.Answer{{QuestionID: "apt-1", Category: domain.CategoryAptitude, Value: 10, AnsweredAt: now}},
		CurrentCategory: domain.CategoryInterests,
		CurrentIndex:    1,
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

func TestMemorySessionStore_RoundTripAndIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	s := sampleSession()
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Answers[0].Value = 0

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Answers[0].Value != 10 || got.CurrentCategory != domain.CategoryInterests {
		t.Fatalf("expected stored copy to be isolated, got %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(30 * time.Millisecond)
	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestMemorySessionStore_SweepsExpiredOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(30 * time.Millisecond).(*memorySessionStore)
	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	other := sampleSession()
	other.ID = "s2"
	if err := store.Save(ctx, other); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.items["s1"]; ok || len(store.items) != 1 {
		t.Fatalf("expected abandoned session swept, got %d items", len(store.items))
	}
}

func TestMemorySessionStore_RequiresID(t *testing.T) {
	store := NewMemorySessionStore(0)
	if err := store.Save(context.Background(), domain.AssessmentSession{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisKV()
	store := &redisSessionStore{client: mock, ttl: time.Hour, prefix: "assessment:session:"}

	want := sampleSession()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if mock.lastSetKey != "assessment:session:s1" || mock.lastSetTTL != time.Hour {
		t.Fatalf("unexpected set key/ttl: %q %v", mock.lastSetKey, mock.lastSetTTL)
	}
	if raw := mock.data["assessment:session:s1"]; !strings.Contains(raw, `"current_category":"interests"`) {
		t.Fatalf("expected category encoded by name, got %s", raw)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.UserID != want.UserID || len(got.Answers) != 1 || !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestRedisSessionStore_Errors(t *testing.T) {
	ctx := context.Background()
	mock := &mockRedisKVClient{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	store := &redisSessionStore{client: mock, ttl: time.Hour, prefix: "assessment:session:"}

	if err := store.Save(ctx, sampleSession()); err == nil {
		t.Fatalf("expected save error")
	}
	if _, err := store.Get(ctx, "s1"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if _, err := store.Get(ctx, " "); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found for empty id, got %v", err)
	}
}
