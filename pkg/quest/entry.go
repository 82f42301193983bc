package quest

import "github.com/jwebster45206/quest-helper/pkg/conditionals"

// Entry is one row of the stage table: either a plain step key or a
// conditional. Exactly one field is set.
type Entry struct {
	Step        string       `json:"step,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty"`
}

// Alternate is a step chosen when its condition holds.
type Alternate struct {
	When conditionals.When `json:"when"`
	Step string            `json:"step"`
}

// Conditional picks the first alternate whose condition holds, or Default.
// Alternates are evaluated in declaration order.
type Conditional struct {
	Default    string      `json:"default"`
	Alternates []Alternate `json:"alternates,omitempty"`
}

// Plain wraps a step key as a stage entry.
func Plain(stepKey string) Entry {
	return Entry{Step: stepKey}
}

// NewConditional starts a conditional with the given default step key.
func NewConditional(defaultKey string) *Conditional {
	return &Conditional{Default: defaultKey}
}

// AddStep registers an alternate. Registration order is significant.
func (c *Conditional) AddStep(when conditionals.When, stepKey string) *Conditional {
	c.Alternates = append(c.Alternates, Alternate{When: when, Step: stepKey})
	return c
}

// Entry wraps the conditional as a stage entry.
func (c *Conditional) Entry() Entry {
	return Entry{Conditional: c}
}

// IsConditional reports whether the entry branches.
func (e Entry) IsConditional() bool {
	return e.Conditional != nil
}

// StepKeys lists every step key the entry can resolve to, default first.
func (e Entry) StepKeys() []string {
	if e.Conditional == nil {
		return []string{e.Step}
	}
	keys := []string{e.Conditional.Default}
	for _, alt := range e.Conditional.Alternates {
		keys = append(keys, alt.Step)
	}
	return keys
}

// ResolveKey returns the step key the entry selects for the given player
// state. It has no side effects and gives the same answer for the same state.
func ResolveKey(e Entry, view conditionals.PlayerView) string {
	if e.Conditional == nil {
		return e.Step
	}
	for _, alt := range e.Conditional.Alternates {
		if conditionals.EvaluateWhen(alt.When, view) {
			return alt.Step
		}
	}
	return e.Conditional.Default
}
