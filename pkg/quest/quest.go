package quest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

var (
	ErrStageNotFound = errors.New("stage not found")
	ErrStepNotFound  = errors.New("step not found")
)

// Quest is the full walkthrough for one quest. It is built once when the
// quest is loaded and is read-only afterwards.
type Quest struct {
	ID          string                     `json:"id"`                    // lowercase snake_case, also the file name
	Name        string                     `json:"name"`                  // Display name
	Steps       map[string]Step            `json:"steps"`                 // Step key → step
	Stages      map[int]Entry              `json:"stages"`                // Stage index → entry, contiguous from 0
	Recommended []conditionals.Requirement `json:"recommended,omitempty"` // Helpful but not needed
	Required    []conditionals.Requirement `json:"required,omitempty"`    // Needed to start
	Panels      []Panel                    `json:"panels,omitempty"`      // Sidebar grouping of steps
	Zones       map[string]world.Zone      `json:"zones,omitempty"`       // Named regions, referenced by When.InZone
}

// New creates an empty quest.
func New(id, name string) *Quest {
	return &Quest{
		ID:     id,
		Name:   name,
		Steps:  make(map[string]Step),
		Stages: make(map[int]Entry),
		Zones:  make(map[string]world.Zone),
	}
}

// AddSteps registers steps under their keys.
func (q *Quest) AddSteps(steps ...*Step) {
	for _, s := range steps {
		q.Steps[s.Key] = *s
	}
}

// SetStage maps a stage index to an entry.
func (q *Quest) SetStage(stage int, e Entry) {
	q.Stages[stage] = e
}

// Stage returns the entry for a stage.
func (q *Quest) Stage(stage int) (Entry, bool) {
	e, ok := q.Stages[stage]
	return e, ok
}

// StageIndexes returns the defined stage indexes in ascending order.
func (q *Quest) StageIndexes() []int {
	idx := make([]int, 0, len(q.Stages))
	for n := range q.Stages {
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx
}

// Step looks up a step by key.
func (q *Quest) Step(key string) (*Step, error) {
	s, ok := q.Steps[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, key)
	}
	return &s, nil
}

// ResolveStage returns the step the player should be guided to at stage,
// evaluating conditional entries against view.
func (q *Quest) ResolveStage(stage int, view conditionals.PlayerView) (*Step, error) {
	e, ok := q.Stages[stage]
	if !ok {
		return nil, fmt.Errorf("%w: %d in quest %s", ErrStageNotFound, stage, q.ID)
	}
	return Resolve(q, e, view)
}

// Resolve picks the entry's step for view and looks it up in q.
func Resolve(q *Quest, e Entry, view conditionals.PlayerView) (*Step, error) {
	return q.Step(ResolveKey(e, view))
}

// RecommendedItems returns the recommended requirements in declaration order.
func (q *Quest) RecommendedItems() []conditionals.Requirement {
	return append([]conditionals.Requirement{}, q.Recommended...)
}

// RequiredItems returns the required requirements in declaration order.
// The result is never nil.
func (q *Quest) RequiredItems() []conditionals.Requirement {
	return append([]conditionals.Requirement{}, q.Required...)
}

// WalkRequirements calls fn with every requirement in the quest and a short
// description of where it sits. fn may modify the requirement in place.
func (q *Quest) WalkRequirements(fn func(where string, r *conditionals.Requirement)) {
	walk := func(where string, reqs []conditionals.Requirement) {
		for i := range reqs {
			fn(fmt.Sprintf("%s[%d]", where, i), &reqs[i])
		}
	}

	walk("recommended", q.Recommended)
	walk("required", q.Required)
	for i := range q.Panels {
		walk(fmt.Sprintf("panel %q recommended", q.Panels[i].Title), q.Panels[i].Recommended)
	}
	keys := make([]string, 0, len(q.Steps))
	for key := range q.Steps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		walk(fmt.Sprintf("step %s requirements", key), q.Steps[key].Requirements)
	}
	for _, n := range q.StageIndexes() {
		c := q.Stages[n].Conditional
		if c == nil {
			continue
		}
		for i := range c.Alternates {
			w := &c.Alternates[i].When
			walk(fmt.Sprintf("stage %d alternate %d items", n, i), w.Items)
			walk(fmt.Sprintf("stage %d alternate %d missing", n, i), w.Missing)
		}
	}
}

// InZone returns a condition that holds while the player stands in the named
// zone. The zone must already be declared.
func (q *Quest) InZone(name string) conditionals.When {
	w := conditionals.When{InZone: name}
	if z, ok := q.Zones[name]; ok {
		w.Zone = &z
	}
	return w
}

// Bind fills in item ids for requirements that hand-written definition files
// give only by collection or by item name, and resolves named zones.
func (q *Quest) Bind(catalog *items.Catalog) error {
	var errs []error
	for _, n := range q.StageIndexes() {
		c := q.Stages[n].Conditional
		if c == nil {
			continue
		}
		for i := range c.Alternates {
			w := &c.Alternates[i].When
			if w.InZone == "" || w.Zone != nil {
				continue
			}
			z, ok := q.Zones[w.InZone]
			if !ok {
				errs = append(errs, fmt.Errorf("stage %d alternate %d: unknown zone %q", n, i, w.InZone))
				continue
			}
			w.Zone = &z
		}
	}
	q.WalkRequirements(func(where string, r *conditionals.Requirement) {
		if len(r.Items) > 0 {
			return
		}
		if r.Collection != "" {
			ids, err := catalog.Collection(r.Collection)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s %q: %w", where, r.Name, err))
				return
			}
			r.Items = ids
			return
		}
		id, ok := catalog.Lookup(r.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: unknown item %q", where, r.Name))
			return
		}
		r.Items = []items.ID{id}
	})
	return errors.Join(errs...)
}

// Validate reports every structural problem in the quest: gaps in the stage
// table, dangling step keys, empty conditions and bad panel references.
func (q *Quest) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if q.ID == "" {
		add("quest id is required")
	}
	if len(q.Stages) == 0 {
		add("quest %s has no stages", q.ID)
	}

	for key, s := range q.Steps {
		if s.Key != key {
			add("step %s is stored under key %s", s.Key, key)
		}
		if s.Text == "" {
			add("step %s has no text", key)
		}
		if !s.Kind.Valid() {
			add("step %s has invalid kind %q", key, s.Kind)
		}
	}

	for i, n := range q.StageIndexes() {
		if n != i {
			add("stage table must be contiguous from 0: expected stage %d, found %d", i, n)
			break
		}
	}

	for _, n := range q.StageIndexes() {
		e := q.Stages[n]
		if (e.Step == "") == (e.Conditional == nil) {
			add("stage %d must have exactly one of step or conditional", n)
			continue
		}
		if e.Conditional != nil {
			if e.Conditional.Default == "" {
				add("stage %d conditional has no default step", n)
			}
			for i, alt := range e.Conditional.Alternates {
				if alt.When.IsEmpty() {
					add("stage %d alternate %d has an empty when clause", n, i)
				}
				if alt.When.InZone != "" {
					if _, ok := q.Zones[alt.When.InZone]; !ok {
						add("stage %d alternate %d references unknown zone %s", n, i, alt.When.InZone)
					}
				}
			}
		}
		for _, key := range e.StepKeys() {
			if key == "" {
				continue
			}
			if _, ok := q.Steps[key]; !ok {
				add("stage %d references unknown step %s", n, key)
			}
		}
	}

	for _, p := range q.Panels {
		for _, key := range p.Steps {
			if _, ok := q.Steps[key]; !ok {
				add("panel %q references unknown step %s", p.Title, key)
			}
		}
	}

	return errors.Join(errs...)
}
