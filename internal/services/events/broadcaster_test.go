package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_Publish(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	b := NewBroadcaster(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionID := uuid.New()
	pubsub := client.Subscribe(ctx, Channel(sessionID))
	defer pubsub.Close()
	_, err = pubsub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, sessionID, StageChanged(sessionID, 0, 1, "investigate_crate")))

	msg, err := pubsub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, EventTypeStageChanged, event.Type)
	assert.Equal(t, sessionID.String(), event.SessionID)
	assert.Equal(t, "investigate_crate", event.Data["step"])
	assert.Equal(t, float64(1), event.Data["to"])
}

func TestEventBuilders(t *testing.T) {
	id := uuid.New()

	created := SessionCreated(id, "tribal_totem", "talk_to_kangai_mau")
	assert.Equal(t, EventTypeSessionCreated, created.Type)
	assert.Equal(t, "tribal_totem", created.Data["quest_id"])

	updated := PlayerUpdated(id, "use_label", true)
	assert.Equal(t, EventTypePlayerUpdated, updated.Type)
	assert.Equal(t, true, updated.Data["step_changed"])

	ended := SessionEnded(id)
	assert.Equal(t, EventTypeSessionEnded, ended.Type)
	assert.Nil(t, ended.Data)

	assert.Equal(t, "session-events:"+id.String(), Channel(id))
}
