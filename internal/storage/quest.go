package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/storage"
)

// Quest operations (built-in first, then filesystem)

func (r *RedisStorage) questsDir() string {
	return filepath.Join(r.dataDir, "quests")
}

// ListQuests maps quest names to ids. Only top-level JSON files in the
// quests directory are read, matching how GetQuest resolves ids. When two
// quests share a name the first one wins: built-ins, then files by name.
func (r *RedisStorage) ListQuests(ctx context.Context) (map[string]string, error) {
	quests := make(map[string]string, len(r.builtin))
	for id, q := range r.builtin {
		quests[q.Name] = id
	}

	entries, err := os.ReadDir(r.questsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return quests, nil
		}
		r.logger.Error("Failed to read quests directory", "error", err)
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(r.questsDir(), e.Name())

		q, err := r.readQuestFile(path)
		if err != nil {
			r.logger.Warn("Skipping quest file", "path", path, "error", err)
			continue
		}
		if _, shadowed := r.builtin[q.ID]; shadowed {
			r.logger.Warn("Quest file shadows a built-in quest and is ignored", "path", path, "quest_id", q.ID)
			continue
		}
		if other, taken := quests[q.Name]; taken {
			r.logger.Warn("Quest name already listed, file ignored", "path", path, "name", q.Name, "listed_id", other)
			continue
		}

		quests[q.Name] = q.ID
	}

	return quests, nil
}

func (r *RedisStorage) GetQuest(ctx context.Context, questID string) (*quest.Quest, error) {
	if q, ok := r.builtin[questID]; ok {
		return q, nil
	}

	if questID == "" || strings.Contains(questID, "..") || strings.ContainsAny(questID, `/\`) {
		return nil, fmt.Errorf("%w: %s", storage.ErrQuestNotFound, questID)
	}

	path := filepath.Join(r.questsDir(), questID+".json")
	r.logger.Debug("Loading quest", "quest_id", questID, "full_path", path)

	q, err := r.readQuestFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrQuestNotFound, questID)
		}
		return nil, err
	}
	return q, nil
}

// readQuestFile decodes, binds and validates a quest definition. The file
// name wins over any id in the JSON.
func (r *RedisStorage) readQuestFile(path string) (*quest.Quest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read quest file: %w", err)
	}

	var q quest.Quest
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quest: %w", err)
	}
	q.ID = strings.TrimSuffix(filepath.Base(path), ".json")

	if err := q.Bind(r.catalog); err != nil {
		return nil, fmt.Errorf("quest %s: %w", q.ID, err)
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("quest %s is invalid: %w", q.ID, err)
	}
	return &q, nil
}
