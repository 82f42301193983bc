package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running quest-helper API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	QuestOverride     string // If set, overrides the quest for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite against a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	questID := suite.Quest
	if r.QuestOverride != "" {
		questID = r.QuestOverride
	}

	sessionID, err := r.createSession(ctx, questID)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = sessionID
	defer func() {
		_, _ = r.do(ctx, http.MethodDelete, "/v1/sessions/"+sessionID.String(), nil, nil)
	}()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, sessionID, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// StepResponse matches the API's resolved step payload
type StepResponse struct {
	Stage       int        `json:"stage"`
	Conditional bool       `json:"conditional"`
	Step        quest.Step `json:"step"`
	IconName    string     `json:"icon_name,omitempty"`
}

func (r *Runner) runStep(ctx context.Context, sessionID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	base := "/v1/sessions/" + sessionID.String()
	wantStatus := http.StatusOK
	if step.Expectations.Status != nil {
		wantStatus = *step.Expectations.Status
	}

	status := http.StatusOK
	var err error
	if step.Stage != nil {
		status, err = r.do(ctx, http.MethodPut, base+"/stage", map[string]int{"stage": *step.Stage}, nil)
	}
	if err == nil && status == http.StatusOK && step.Player != nil {
		status, err = r.do(ctx, http.MethodPut, base+"/player", step.Player, nil)
	}
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	if status != wantStatus {
		result.Error = fmt.Errorf("expected status %d, got %d", wantStatus, status)
		result.Duration = time.Since(start)
		return result
	}

	var resp StepResponse
	status, err = r.do(ctx, http.MethodGet, base+"/step", nil, &resp)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("step lookup returned status %d", status)
	}
	if err == nil {
		err = Check(step.Expectations, resp)
	}

	result.Error = err
	result.Success = err == nil
	result.Duration = time.Since(start)
	return result
}

// Check compares a resolved step with the expectations. All mismatches are
// reported together.
func Check(exp Expectations, resp StepResponse) error {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	s := resp.Step
	if exp.StepKey != nil && s.Key != *exp.StepKey {
		fail("step: expected %s, got %s", *exp.StepKey, s.Key)
	}
	if exp.Stage != nil && resp.Stage != *exp.Stage {
		fail("stage: expected %d, got %d", *exp.Stage, resp.Stage)
	}
	if exp.Conditional != nil && resp.Conditional != *exp.Conditional {
		fail("conditional: expected %t, got %t", *exp.Conditional, resp.Conditional)
	}
	if exp.TargetID != nil && (s.TargetID == nil || *s.TargetID != *exp.TargetID) {
		fail("target_id: expected %d, got %s", *exp.TargetID, describeInt(s.TargetID))
	}
	if exp.NoTarget && s.TargetID != nil {
		fail("target_id: expected none, got %d", *s.TargetID)
	}
	if exp.Location != nil && (s.Location == nil || *s.Location != *exp.Location) {
		got := "none"
		if s.Location != nil {
			got = s.Location.String()
		}
		fail("location: expected %s, got %s", exp.Location, got)
	}
	if exp.NoLocation && s.Location != nil {
		fail("location: expected none, got %s", s.Location)
	}
	if exp.IconName != nil && resp.IconName != *exp.IconName {
		fail("icon_name: expected %q, got %q", *exp.IconName, resp.IconName)
	}
	if exp.DialogCount != nil && len(s.Dialog) != *exp.DialogCount {
		fail("dialog: expected %d options, got %d", *exp.DialogCount, len(s.Dialog))
	}
	for _, want := range exp.TextContains {
		if !strings.Contains(s.Text, want) {
			fail("text: %q does not contain %q", s.Text, want)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func describeInt(v *int) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprint(*v)
}

func (r *Runner) createSession(ctx context.Context, questID string) (uuid.UUID, error) {
	var s state.Session
	status, err := r.do(ctx, http.MethodPost, "/v1/sessions", map[string]string{"quest_id": questID}, &s)
	if err != nil {
		return uuid.Nil, err
	}
	if status != http.StatusCreated {
		return uuid.Nil, fmt.Errorf("expected status 201, got %d", status)
	}
	return s.ID, nil
}

// do sends a JSON request and decodes a 2xx response into out when set.
func (r *Runner) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
