package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/internal/logger"
	"github.com/jwebster45206/quest-helper/pkg/state"
	"github.com/redis/go-redis/v9"
)

// Session operations (Redis-backed)

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisStorage) SaveSession(ctx context.Context, s *state.Session) error {
	if s == nil {
		return errors.New("session cannot be nil")
	}
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		logger.WithError(logger.FromContext(ctx, r.logger), err).Error("Failed to marshal session", "uuid", s.ID)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.sessionTTL).Err(); err != nil {
		logger.WithError(logger.FromContext(ctx, r.logger), err).Error("Failed to save session", "uuid", s.ID)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.FromContext(ctx, r.logger).Warn("Session not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		logger.WithError(logger.FromContext(ctx, r.logger), err).Error("Failed to load session", "uuid", id)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s state.Session
	if err := json.Unmarshal(data, &s); err != nil {
		logger.WithError(logger.FromContext(ctx, r.logger), err).Error("Failed to unmarshal session", "uuid", id)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		logger.WithError(logger.FromContext(ctx, r.logger), err).Error("Failed to delete session", "uuid", id)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
