package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quests/tribaltotem"
	"github.com/jwebster45206/quest-helper/pkg/state"
	"github.com/jwebster45206/quest-helper/pkg/storage"
	"github.com/jwebster45206/quest-helper/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gloryRun = `{
	"name": "Glory Run",
	"steps": {
		"teleport": {"key": "teleport", "kind": "detailed", "text": "Teleport to Edgeville."}
	},
	"stages": {"0": {"step": "teleport"}},
	"recommended": [{"name": "Amulet of glory", "collection": "amulet_of_glory"}]
}`

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	dataDir := t.TempDir()
	questsDir := filepath.Join(dataDir, "quests")
	require.NoError(t, os.MkdirAll(questsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(questsDir, "glory_run.json"), []byte(gloryRun), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(questsDir, "broken.json"), []byte(`{"name": "Broken", "stages": {"1": {"step": "x"}}}`), 0o644))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	rs, err := NewRedisStorage("redis://"+mr.Addr(), dataDir, time.Hour, items.Default(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	return rs, mr
}

func TestRedisStorage_Ping(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	assert.NoError(t, rs.Ping(ctx))
	assert.NoError(t, rs.WaitForConnection(ctx))

	mr.SetError("LOADING")
	assert.Error(t, rs.Ping(ctx))
}

func TestRedisStorage_SessionRoundTrip(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	s := state.NewSession(tribaltotem.ID)
	s.Stage = 1
	s.Inventory[items.AddressLabel] = 1
	s.Location = world.At(2650, 3273, 0)
	require.NoError(t, rs.SaveSession(ctx, s))

	key := "session:" + s.ID.String()
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	loaded, err := rs.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, 1, loaded.Stage)
	assert.Equal(t, 1, loaded.ItemQuantity(items.AddressLabel))
	assert.Equal(t, world.At(2650, 3273, 0), loaded.Location)

	q := tribaltotem.New(items.Default())
	step, err := loaded.CurrentStep(q)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.StepUseLabel, step.Key)

	require.NoError(t, rs.DeleteSession(ctx, s.ID))
	loaded, err = rs.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_SessionExpires(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	s := state.NewSession(tribaltotem.ID)
	require.NoError(t, rs.SaveSession(ctx, s))

	mr.FastForward(2 * time.Hour)

	loaded, err := rs.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadCorruptSession(t *testing.T) {
	rs, mr := setupTestStorage(t)
	id := uuid.New()
	require.NoError(t, mr.Set("session:"+id.String(), "{not json"))

	_, err := rs.LoadSession(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_ListQuests(t *testing.T) {
	rs, _ := setupTestStorage(t)

	list, err := rs.ListQuests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Tribal Totem": "tribal_totem",
		"Glory Run":    "glory_run",
	}, list)
}

func TestRedisStorage_ListQuests_TopLevelOnly(t *testing.T) {
	rs, _ := setupTestStorage(t)
	questsDir := filepath.Join(rs.dataDir, "quests")

	nested := filepath.Join(questsDir, "archive")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "old_run.json"),
		[]byte(strings.Replace(gloryRun, "Glory Run", "Old Run", 1)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(questsDir, "zz_glory_copy.json"), []byte(gloryRun), 0o644))

	list, err := rs.ListQuests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Tribal Totem": "tribal_totem",
		"Glory Run":    "glory_run",
	}, list)

	for name, id := range list {
		_, err := rs.GetQuest(context.Background(), id)
		assert.NoError(t, err, name)
	}
}

func TestRedisStorage_ListQuests_NoDirectory(t *testing.T) {
	rs, _ := setupTestStorage(t)
	rs.dataDir = t.TempDir()

	list, err := rs.ListQuests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Tribal Totem": "tribal_totem"}, list)
}

func TestRedisStorage_GetQuest(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	q, err := rs.GetQuest(ctx, tribaltotem.ID)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.Name, q.Name)

	q, err = rs.GetQuest(ctx, "glory_run")
	require.NoError(t, err)
	assert.Equal(t, "glory_run", q.ID, "file name sets the id")
	require.Len(t, q.Recommended, 1)
	assert.NotEmpty(t, q.Recommended[0].Items, "collection should be bound from the catalog")

	_, err = rs.GetQuest(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrQuestNotFound)

	for _, id := range []string{"dragon_slayer", "../secrets", "a/b", ""} {
		_, err = rs.GetQuest(ctx, id)
		assert.ErrorIs(t, err, storage.ErrQuestNotFound, id)
	}
}

func TestNewRedisStorage_Defaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	rs, err := NewRedisStorage("localhost:6379", "", 0, nil, logger)
	require.NoError(t, err)
	defer rs.Close()

	assert.Equal(t, "./data", rs.dataDir)
	assert.Equal(t, DefaultSessionTTL, rs.sessionTTL)
	assert.Contains(t, rs.builtin, tribaltotem.ID)

	_, err = NewRedisStorage("redis://localhost:6379/notanumber", "", 0, nil, logger)
	assert.Error(t, err)
}
