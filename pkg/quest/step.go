package quest

import (
	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/dialog"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

// StepKind tells the host what the player interacts with.
type StepKind string

const (
	StepNPC      StepKind = "npc"      // Talk to or interact with an NPC
	StepObject   StepKind = "object"   // Interact with a scenery object
	StepDetailed StepKind = "detailed" // Free-form instruction with no target
)

func (k StepKind) Valid() bool {
	switch k {
	case StepNPC, StepObject, StepDetailed:
		return true
	}
	return false
}

// Step is a single instruction shown to the player. Nil TargetID or
// Location means the value is not known, not that it is zero.
type Step struct {
	Key          string                     `json:"key"`                    // Also the key in Quest.Steps
	Kind         StepKind                   `json:"kind"`                   // enum "npc" | "object" | "detailed"
	Text         string                     `json:"text"`                   // Instruction shown to the player
	TargetID     *int                       `json:"target_id,omitempty"`    // NPC or object id to highlight
	Location     *world.Point               `json:"location,omitempty"`     // Where the target stands
	Dialog       []string                   `json:"dialog,omitempty"`       // Options to pick, in order, as dialogs open
	Icon         *items.ID                  `json:"icon,omitempty"`         // Inventory icon overlaid on the target
	Requirements []conditionals.Requirement `json:"requirements,omitempty"` // Items the step needs in hand
}

// ID wraps an entity id for Step.TargetID.
func ID(id int) *int {
	return &id
}

// NewNPCStep creates a talk-to step.
func NewNPCStep(key string, npcID *int, loc *world.Point, text string, reqs ...conditionals.Requirement) *Step {
	return &Step{Key: key, Kind: StepNPC, TargetID: npcID, Location: loc, Text: text, Requirements: reqs}
}

// NewObjectStep creates an interact-with-object step.
func NewObjectStep(key string, objectID *int, loc *world.Point, text string, reqs ...conditionals.Requirement) *Step {
	return &Step{Key: key, Kind: StepObject, TargetID: objectID, Location: loc, Text: text, Requirements: reqs}
}

// NewDetailedStep creates a step with instruction text only.
func NewDetailedStep(key string, loc *world.Point, text string, reqs ...conditionals.Requirement) *Step {
	return &Step{Key: key, Kind: StepDetailed, Location: loc, Text: text, Requirements: reqs}
}

// AddDialog appends prompts to the step's dialog script. Setup only.
func (s *Step) AddDialog(prompts ...string) *Step {
	s.Dialog = append(s.Dialog, prompts...)
	return s
}

// AddIcon sets the inventory icon hint. Setup only.
func (s *Step) AddIcon(id items.ID) *Step {
	s.Icon = &id
	return s
}

// DialogSequence returns a fresh cursor over the step's dialog prompts.
func (s Step) DialogSequence() *dialog.Sequence {
	return dialog.NewSequence(s.Dialog)
}

// HasTarget reports whether the target entity is known.
func (s Step) HasTarget() bool { return s.TargetID != nil }

// HasLocation reports whether the target location is known.
func (s Step) HasLocation() bool { return s.Location != nil }
