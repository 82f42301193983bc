package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/state"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

// TestSuite defines a complete integration test walkthrough
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Quest string     `json:"quest,omitempty"` // Used for regular tests
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep reports host state to the API and checks the resolved step.
// Stage is applied before Player when both are set.
type TestStep struct {
	Name         string             `json:"name,omitempty"`
	Stage        *int               `json:"stage,omitempty"`
	Player       *state.PlayerDelta `json:"player,omitempty"`
	Expectations Expectations       `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Status       *int         `json:"status,omitempty"`        // HTTP status of the report; 200 when unset
	StepKey      *string      `json:"step,omitempty"`          // Resolved step key
	Stage        *int         `json:"stage,omitempty"`         // Stage stored on the session
	Conditional  *bool        `json:"conditional,omitempty"`   // Stage branches on player state
	TargetID     *int         `json:"target_id,omitempty"`     // NPC or object to highlight
	NoTarget     bool         `json:"no_target,omitempty"`     // Target must be unknown
	Location     *world.Point `json:"location,omitempty"`      // Target tile
	NoLocation   bool         `json:"no_location,omitempty"`   // Location must be unknown
	IconName     *string      `json:"icon_name,omitempty"`     // "" asserts no icon
	DialogCount  *int         `json:"dialog_count,omitempty"`  // Number of dialog options
	TextContains []string     `json:"text_contains,omitempty"` // Substrings of the instruction text
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Session  uuid.UUID
	Duration time.Duration
	Error    error
}
