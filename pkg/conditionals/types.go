package conditionals

import (
	"strings"

	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

// PlayerView is the read-only slice of live player state that requirements
// and conditions are evaluated against. The host's session state implements it.
type PlayerView interface {
	ItemQuantity(id items.ID) int
	Position() (world.Point, bool) // false when the host has not reported one
	DialogText() string
}

// Requirement is a named inventory threshold, used both to gate steps and
// to list recommended items in panels.
type Requirement struct {
	Name       string     `json:"name"`
	Items      []items.ID `json:"items,omitempty"`      // Any of these ids count toward Quantity
	Collection string     `json:"collection,omitempty"` // Catalog collection the ids were drawn from
	Quantity   int        `json:"quantity,omitempty"`   // Minimum total; zero means 1
	Highlight  bool       `json:"highlight,omitempty"`  // UI emphasis only
}

// NewItemRequirement requires quantity of a single item. A quantity below 1 means 1.
func NewItemRequirement(name string, id items.ID, quantity int) Requirement {
	return Requirement{Name: name, Items: []items.ID{id}, Quantity: quantity}
}

// NewCollectionRequirement requires one item from a named catalog collection.
// It panics when the collection does not exist.
func NewCollectionRequirement(name string, catalog *items.Catalog, collection string) Requirement {
	return Requirement{
		Name:       name,
		Items:      catalog.MustCollection(collection),
		Collection: collection,
	}
}

// WithHighlight returns a copy of r with the highlight flag set.
func (r Requirement) WithHighlight(on bool) Requirement {
	r.Items = append([]items.ID(nil), r.Items...)
	r.Highlight = on
	return r
}

// Threshold is the effective minimum quantity.
func (r Requirement) Threshold() int {
	if r.Quantity < 1 {
		return 1
	}
	return r.Quantity
}

// IsSatisfied sums the player's holdings of every matching id and compares
// the total against the threshold. Highlight has no effect.
func (r Requirement) IsSatisfied(view PlayerView) bool {
	if view == nil || len(r.Items) == 0 {
		return false
	}
	total := 0
	for _, id := range r.Items {
		total += view.ItemQuantity(id)
	}
	return total >= r.Threshold()
}

// When is a conjunction of conditions over player state.
type When struct {
	Items   []Requirement `json:"items,omitempty"`   // All must be satisfied
	Missing []Requirement `json:"missing,omitempty"` // None may be satisfied
	Zone    *world.Zone   `json:"zone,omitempty"`    // Player must stand inside
	InZone  string        `json:"in_zone,omitempty"` // Named quest zone, bound into Zone on load
	Dialog  string        `json:"dialog,omitempty"`  // Open dialog must contain this text
}

// IsEmpty reports whether no condition is specified.
func (w When) IsEmpty() bool {
	return len(w.Items) == 0 && len(w.Missing) == 0 && w.Zone == nil && w.InZone == "" && w.Dialog == ""
}

// HasItem is the common single-requirement condition.
func HasItem(r Requirement) When {
	return When{Items: []Requirement{r}}
}

// EvaluateWhen checks if all conditions in a When clause are met
func EvaluateWhen(when When, view PlayerView) bool {
	// If no conditions specified, return false (the alternate should not be chosen)
	if when.IsEmpty() || view == nil {
		return false
	}

	for _, r := range when.Items {
		if !r.IsSatisfied(view) {
			return false
		}
	}

	for _, r := range when.Missing {
		if r.IsSatisfied(view) {
			return false
		}
	}

	if when.InZone != "" && when.Zone == nil {
		return false
	}
	if when.Zone != nil {
		pos, ok := view.Position()
		if !ok || !when.Zone.Contains(pos) {
			return false
		}
	}

	if when.Dialog != "" {
		if !strings.Contains(view.DialogText(), when.Dialog) {
			return false
		}
	}

	return true
}
