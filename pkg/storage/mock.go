package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*state.Session
	quests    map[string]*quest.Quest
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*state.Session),
		quests:   make(map[string]*quest.Quest),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveSession stores a copy so later caller mutations do not leak in
func (m *MockStorage) SaveSession(ctx context.Context, s *state.Session) error {
	if s == nil {
		return errors.New("session cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	m.sessions[s.ID] = copySession(s)
	return nil
}

// LoadSession mocks loading a session
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

// DeleteSession mocks deleting a session
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ListQuests mocks listing quests
func (m *MockStorage) ListQuests(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.quests))
	for id, q := range m.quests {
		out[q.Name] = id
	}
	return out, nil
}

// GetQuest mocks getting a quest
func (m *MockStorage) GetQuest(ctx context.Context, questID string) (*quest.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quests[questID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestNotFound, questID)
	}
	return q, nil
}

// AddQuest is a helper for tests to register a quest
func (m *MockStorage) AddQuest(q *quest.Quest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quests[q.ID] = q
}

func copySession(s *state.Session) *state.Session {
	c := *s
	c.Inventory = maps.Clone(s.Inventory)
	if s.Location != nil {
		loc := *s.Location
		c.Location = &loc
	}
	return &c
}
