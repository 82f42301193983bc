package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed quest.schema.json
var questSchema string

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <quest.json> [more.json...]\n", os.Args[0])
		os.Exit(1)
	}

	validator, err := NewQuestValidator(items.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load quest schema: %v\n", err)
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type QuestValidator struct {
	catalog *items.Catalog
	schema  *jsonschema.Schema
	errors  []string
}

func NewQuestValidator(catalog *items.Catalog) (*QuestValidator, error) {
	schema, err := jsonschema.CompileString("quest.schema.json", questSchema)
	if err != nil {
		return nil, err
	}
	return &QuestValidator{catalog: catalog, schema: schema}, nil
}

func (v *QuestValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("quest file must have .json extension: %s", baseName)
	}

	questID := strings.TrimSuffix(baseName, ".json")
	if !isValidID(questID) {
		return fmt.Errorf("quest filename '%s' must be lowercase snake_case (e.g., tribal_totem.json, not tribal-totem.json or TribalTotem.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	if err := v.validateData(questID, data); err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

// validateData runs every check on one definition. Hard failures (bad JSON,
// schema or decode errors) are returned; content problems are collected.
func (v *QuestValidator) validateData(questID string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var q quest.Quest
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&q); err != nil {
		return fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}

	if q.ID != "" && q.ID != questID {
		v.addError(fmt.Sprintf("quest id '%s' does not match file name '%s'", q.ID, questID))
	}
	q.ID = questID

	v.validateQuest(&q)
	return nil
}

func (v *QuestValidator) validateQuest(q *quest.Quest) {
	for key, s := range q.Steps {
		v.validateIDFormat("step key", key)
		if s.Icon != nil && !v.catalog.Has(*s.Icon) {
			v.addError(fmt.Sprintf("step %s has unknown icon item %d", key, *s.Icon))
		}
	}
	for name := range q.Zones {
		v.validateIDFormat("zone name", name)
	}

	before := len(v.errors)
	q.WalkRequirements(v.validateRequirement)
	if len(v.errors) > before {
		// Binding would only repeat the item errors above
		return
	}

	if err := q.Bind(v.catalog); err != nil {
		v.addJoined(err)
		return
	}
	if err := q.Validate(); err != nil {
		v.addJoined(err)
	}
}

func (v *QuestValidator) validateRequirement(where string, r *conditionals.Requirement) {
	for _, id := range r.Items {
		if !v.catalog.Has(id) {
			v.addError(fmt.Sprintf("%s '%s' references unknown item id %d", where, r.Name, id))
		}
	}

	switch {
	case r.Collection != "":
		if _, err := v.catalog.Collection(r.Collection); err != nil {
			v.addError(fmt.Sprintf("%s '%s' references unknown collection '%s'%s",
				where, r.Name, r.Collection, suggestion(r.Collection, v.catalog.CollectionNames())))
		}
	case len(r.Items) == 0:
		if _, ok := v.catalog.Lookup(r.Name); !ok {
			v.addError(fmt.Sprintf("%s names unknown item '%s'%s",
				where, r.Name, suggestion(r.Name, v.catalog.Names())))
		}
	}
}

func (v *QuestValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *QuestValidator) addJoined(err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		v.addError(line)
	}
}

func (v *QuestValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

// suggestion returns a "did you mean" hint for the closest candidate, or ""
// when nothing is close enough to be a likely typo.
func suggestion(name string, candidates []string) string {
	target := strings.ToLower(name)
	best, bestDist := "", -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(cand))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	limit := len(target) / 3
	if limit < 2 {
		limit = 2
	}
	if best == "" || bestDist > limit {
		return ""
	}
	return fmt.Sprintf(" (did you mean '%s'?)", best)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}
