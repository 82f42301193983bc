package runner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/quest-helper/internal/handlers"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/quests/tribaltotem"
	"github.com/jwebster45206/quest-helper/pkg/storage"
	"github.com/jwebster45206/quest-helper/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ms := storage.NewMockStorage()
	ms.AddQuest(tribaltotem.New(items.Default()))

	mux := http.NewServeMux()
	sessions := handlers.NewSessionHandler(logger, ms, items.Default(), nil)
	mux.Handle("/v1/sessions", sessions)
	mux.Handle("/v1/sessions/", sessions)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunSuite_WalkthroughCase(t *testing.T) {
	server := newTestAPI(t)

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join("..", "cases", "all.json"), filepath.Join("..", "cases"))
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	r := NewRunner(server.URL)
	result, err := r.RunSuite(context.Background(), jobs[0].Suite)
	require.NoError(t, err)
	require.Len(t, result.Results, len(jobs[0].Suite.Steps))
	for _, step := range result.Results {
		assert.True(t, step.Success, step.StepName)
	}
}

func TestRunSuite_ReportsMismatch(t *testing.T) {
	server := newTestAPI(t)

	wrong := "use_label"
	stage := 1
	suite := TestSuite{
		Name:  "wrong expectation",
		Quest: tribaltotem.ID,
		Steps: []TestStep{
			{Name: "no label yet", Stage: &stage, Expectations: Expectations{StepKey: &wrong}},
			{Name: "still runs", Expectations: Expectations{Stage: &stage}},
		},
	}

	r := NewRunner(server.URL)
	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step: expected use_label, got investigate_crate")
	require.Len(t, result.Results, 2)
	assert.False(t, result.Results[0].Success)
	assert.True(t, result.Results[1].Success)

	r.ErrorHandlingMode = ErrorHandlingExit
	result, err = r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Len(t, result.Results, 1)
}

func TestRunSuite_UnknownQuest(t *testing.T) {
	server := newTestAPI(t)

	_, err := NewRunner(server.URL).RunSuite(context.Background(), TestSuite{Name: "missing", Quest: "dragon_slayer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create session")
}

func TestCheck(t *testing.T) {
	target := 2708
	resp := StepResponse{
		Stage: 1,
		Step: quest.Step{
			Key:      "use_label",
			TargetID: &target,
			Location: world.At(2650, 3271, 0),
		},
		IconName: "Address label",
	}

	key := "use_label"
	icon := "Address label"
	assert.NoError(t, Check(Expectations{StepKey: &key, TargetID: &target, Location: world.At(2650, 3271, 0), IconName: &icon}, resp))

	none := ""
	err := Check(Expectations{NoTarget: true, NoLocation: true, IconName: &none}, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_id: expected none, got 2708")
	assert.Contains(t, err.Error(), "location: expected none, got (2650,3271,0)")
	assert.Contains(t, err.Error(), `icon_name: expected "", got "Address label"`)
}
