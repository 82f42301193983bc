package state

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

// PlayerDelta is a change to reported player state. The host sends either a
// full inventory snapshot or incremental adds and removes.
type PlayerDelta struct {
	Inventory     map[items.ID]int `json:"inventory,omitempty"`      // Replaces the whole inventory when set
	Add           map[items.ID]int `json:"add,omitempty"`            // Applied after Inventory
	Remove        map[items.ID]int `json:"remove,omitempty"`         // Applied after Add, floors at zero
	Location      *world.Point     `json:"location,omitempty"`       // New player tile
	ClearLocation bool             `json:"clear_location,omitempty"` // Forget the tile, e.g. on logout
	Dialog        *string          `json:"dialog,omitempty"`         // Open dialog text; "" when closed
}

// ErrNegativeQuantity is returned by Check for a negative item count.
var ErrNegativeQuantity = errors.New("item quantities must not be negative")

// Check rejects deltas the host could not have observed.
func (d *PlayerDelta) Check() error {
	if d == nil {
		return nil
	}
	for field, m := range map[string]map[items.ID]int{"inventory": d.Inventory, "add": d.Add, "remove": d.Remove} {
		for id, n := range m {
			if n < 0 {
				return fmt.Errorf("%w: %s[%d] = %d", ErrNegativeQuantity, field, id, n)
			}
		}
	}
	return nil
}

// IsEmpty checks if the PlayerDelta changes nothing
func (d *PlayerDelta) IsEmpty() bool {
	return d == nil || (d.Inventory == nil &&
		len(d.Add) == 0 &&
		len(d.Remove) == 0 &&
		d.Location == nil &&
		!d.ClearLocation &&
		d.Dialog == nil)
}

// Apply merges the delta into the session. Non-positive counts are ignored.
func (s *Session) Apply(d *PlayerDelta) {
	if d.IsEmpty() {
		return
	}

	if d.Inventory != nil {
		s.Inventory = make(map[items.ID]int, len(d.Inventory))
		for id, n := range d.Inventory {
			if n > 0 {
				s.Inventory[id] = n
			}
		}
	}
	if s.Inventory == nil {
		s.Inventory = make(map[items.ID]int)
	}
	for id, n := range d.Add {
		if n > 0 {
			s.Inventory[id] += n
		}
	}
	for id, n := range d.Remove {
		if n <= 0 {
			continue
		}
		left := s.Inventory[id] - n
		if left > 0 {
			s.Inventory[id] = left
		} else {
			delete(s.Inventory, id)
		}
	}

	if d.ClearLocation {
		s.Location = nil
	}
	if d.Location != nil {
		loc := *d.Location
		s.Location = &loc
	}
	if d.Dialog != nil {
		s.Dialog = *d.Dialog
	}
}
