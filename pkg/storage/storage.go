package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
)

var ErrQuestNotFound = errors.New("quest not found")

// Storage defines a unified interface for all storage operations
// This interface combines session persistence (Redis) with quest loading
// (built-in quests and the filesystem)
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations (Redis-backed)
	SaveSession(ctx context.Context, s *state.Session) error
	// LoadSession returns nil, nil when the session does not exist
	LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Quest operations (built-in, then filesystem)
	// ListQuests maps quest display names to quest ids
	ListQuests(ctx context.Context) (map[string]string, error)
	GetQuest(ctx context.Context, questID string) (*quest.Quest, error)
}
