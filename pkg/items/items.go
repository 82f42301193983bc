package items

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ID identifies an item type in the game's item registry.
type ID int

// Item ids referenced directly by quest definitions.
const (
	Coins            ID = 995
	ArdougneTeleport ID = 8011
	AddressLabel     ID = 1858
)

// Named collections.
const (
	AmuletOfGlory = "amulet_of_glory"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Item is a single catalog entry.
type Item struct {
	ID   ID     `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type catalogFile struct {
	Items       []Item          `yaml:"items"`
	Collections map[string][]ID `yaml:"collections"`
}

// Catalog resolves item ids to display names and named collections to ids.
// It is read-only after Load.
type Catalog struct {
	byID        map[ID]Item
	byName      map[string]ID
	collections map[string][]ID
}

// Load parses a YAML catalog. Every collection member must be a known item.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog: %w", err)
	}

	c := &Catalog{
		byID:        make(map[ID]Item, len(f.Items)),
		byName:      make(map[string]ID, len(f.Items)),
		collections: make(map[string][]ID, len(f.Collections)),
	}
	for _, it := range f.Items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", it.ID)
		}
		c.byID[it.ID] = it
		c.byName[strings.ToLower(it.Name)] = it.ID
	}
	for name, ids := range f.Collections {
		for _, id := range ids {
			if _, ok := c.byID[id]; !ok {
				return nil, fmt.Errorf("collection %s references unknown item %d", name, id)
			}
		}
		c.collections[name] = ids
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(embeddedCatalog)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Name returns the display name for id, or "item <id>" when unknown.
func (c *Catalog) Name(id ID) string {
	if it, ok := c.byID[id]; ok {
		return it.Name
	}
	return fmt.Sprintf("item %d", id)
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup finds an item id by display name, ignoring case.
func (c *Catalog) Lookup(name string) (ID, bool) {
	id, ok := c.byName[strings.ToLower(name)]
	return id, ok
}

// Names returns every item display name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byID))
	for _, it := range c.byID {
		names = append(names, it.Name)
	}
	sort.Strings(names)
	return names
}

// Collection returns the ids in a named collection, in catalog order.
func (c *Catalog) Collection(name string) ([]ID, error) {
	ids, ok := c.collections[name]
	if !ok {
		return nil, fmt.Errorf("item collection not found: %s", name)
	}
	out := make([]ID, len(ids))
	copy(out, ids)
	return out, nil
}

// MustCollection is Collection for quest construction, where an unknown
// collection is a programming error.
func (c *Catalog) MustCollection(name string) []ID {
	ids, err := c.Collection(name)
	if err != nil {
		panic(err)
	}
	return ids
}

// CollectionNames returns the names of all collections, sorted.
func (c *Catalog) CollectionNames() []string {
	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
