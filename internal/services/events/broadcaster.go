package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSessionCreated EventType = "session.created"
	EventTypeStageChanged   EventType = "session.stage_changed"
	EventTypePlayerUpdated  EventType = "session.player_updated"
	EventTypeSessionEnded   EventType = "session.ended"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Publisher sends session events to subscribers
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, event Event) error
}

// Channel is the Redis Pub/Sub channel for a session's events
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// SessionCreated builds a session.created event
func SessionCreated(sessionID uuid.UUID, questID string, stepKey string) Event {
	return Event{
		Type:      EventTypeSessionCreated,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"quest_id": questID,
			"stage":    0,
			"step":     stepKey,
		},
	}
}

// StageChanged builds a session.stage_changed event
func StageChanged(sessionID uuid.UUID, from, to int, stepKey string) Event {
	return Event{
		Type:      EventTypeStageChanged,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"from": from,
			"to":   to,
			"step": stepKey,
		},
	}
}

// PlayerUpdated builds a session.player_updated event. changed reports
// whether the resolved step differs from before the update.
func PlayerUpdated(sessionID uuid.UUID, stepKey string, changed bool) Event {
	return Event{
		Type:      EventTypePlayerUpdated,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"step":         stepKey,
			"step_changed": changed,
		},
	}
}

// SessionEnded builds a session.ended event
func SessionEnded(sessionID uuid.UUID) Event {
	return Event{
		Type:      EventTypeSessionEnded,
		SessionID: sessionID.String(),
	}
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// Ensure Broadcaster implements Publisher
var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish publishes an event to the session-specific channel
func (b *Broadcaster) Publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
