// Package quests registers the quests compiled into the binary.
package quests

import (
	"sort"

	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/quests/tribaltotem"
)

var builders = []func(*items.Catalog) *quest.Quest{
	tribaltotem.New,
}

// Builtin builds every bundled quest, keyed by quest id.
func Builtin(catalog *items.Catalog) map[string]*quest.Quest {
	out := make(map[string]*quest.Quest, len(builders))
	for _, build := range builders {
		q := build(catalog)
		out[q.ID] = q
	}
	return out
}

// IDs returns the bundled quest ids, sorted.
func IDs(catalog *items.Catalog) []string {
	all := Builtin(catalog)
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
