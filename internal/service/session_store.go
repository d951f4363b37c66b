package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"careerpath/internal/domain"
)

var ErrSessionNotFound = errors.New("assessment session not found")

const defaultSessionTTL = 24 * time.Hour

// SessionStore guarda sesiones en curso hasta que se completan o expiran.
type SessionStore interface {
	Save(ctx context.Context, session domain.AssessmentSession) error
	Get(ctx context.Context, id string) (domain.AssessmentSession, error)
	Delete(ctx context.Context, id string) error
}

type memorySessionEntry struct {
	session   domain.AssessmentSession
	expiresAt time.Time
}

type memorySessionStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	items     map[string]memorySessionEntry
	lastSweep time.Time
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &memorySessionStore{
		ttl:   ttl,
		items: make(map[string]memorySessionEntry),
	}
}

func (s *memorySessionStore) Save(_ context.Context, session domain.AssessmentSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.sweep(now)
	session.Answers = append([]domain.Answer(nil), session.Answers...)
	s.items[session.ID] = memorySessionEntry{
		session:   session,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// sweep descarta sesiones vencidas como mucho una vez por ttl. Requiere s.mu.
func (s *memorySessionStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, id)
		}
	}
}

func (s *memorySessionStore) Get(_ context.Context, id string) (domain.AssessmentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[id]
	if !ok {
		return domain.AssessmentSession{}, ErrSessionNotFound
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, id)
		return domain.AssessmentSession{}, ErrSessionNotFound
	}
	session := entry.session
	session.Answers = append([]domain.Answer(nil), session.Answers...)
	return session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type redisSessionStore struct {
	client redisKV
	ttl    time.Duration
	prefix string
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &redisSessionStore{
		client: client,
		ttl:    ttl,
		prefix: "assessment:session:",
	}
}

func (s *redisSessionStore) Save(ctx context.Context, session domain.AssessmentSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id required")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+session.ID, payload, s.ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (domain.AssessmentSession, error) {
	if strings.TrimSpace(id) == "" {
		return domain.AssessmentSession{}, ErrSessionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	raw, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.AssessmentSession{}, ErrSessionNotFound
		}
		return domain.AssessmentSession{}, err
	}
	var session domain.AssessmentSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.AssessmentSession{}, err
	}
	return session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+id).Err()
}
