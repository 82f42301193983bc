package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

var ErrInvalidStage = errors.New("invalid stage")

// Session is one player's progress through one quest, plus the last player
// state the host reported. The host decides when the stage advances.
type Session struct {
	ID        uuid.UUID        `json:"id"`                  // Unique ID per session
	QuestID   string           `json:"quest_id"`            // Quest being followed
	Stage     int              `json:"stage"`               // Current stage, reported by the host
	Inventory map[items.ID]int `json:"inventory,omitempty"` // Item id → quantity held
	Location  *world.Point     `json:"location,omitempty"`  // Last reported tile, nil if never reported
	Dialog    string           `json:"dialog,omitempty"`    // Text of the open dialog, if any
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Ensure Session can be evaluated by requirements and conditionals
var _ conditionals.PlayerView = (*Session)(nil)

// NewSession starts a session at stage 0.
func NewSession(questID string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		QuestID:   questID,
		Inventory: make(map[items.ID]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) ItemQuantity(id items.ID) int {
	return s.Inventory[id]
}

func (s *Session) Position() (world.Point, bool) {
	if s.Location == nil {
		return world.Point{}, false
	}
	return *s.Location, true
}

func (s *Session) DialogText() string {
	return s.Dialog
}

// SetStage records the stage the host reports. The stage must exist in q.
func (s *Session) SetStage(q *quest.Quest, stage int) error {
	if q.ID != s.QuestID {
		return fmt.Errorf("session %s follows quest %s, not %s", s.ID, s.QuestID, q.ID)
	}
	if _, ok := q.Stage(stage); !ok {
		return fmt.Errorf("%w: quest %s has no stage %d", ErrInvalidStage, q.ID, stage)
	}
	s.Stage = stage
	return nil
}

// CurrentStep resolves the step for the session's stage against its own
// player state.
func (s *Session) CurrentStep(q *quest.Quest) (*quest.Step, error) {
	return q.ResolveStage(s.Stage, s)
}
