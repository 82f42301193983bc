package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/quests/tribaltotem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestHandler_List(t *testing.T) {
	h := NewQuestHandler(testLogger(), newTestStorage())

	w := doJSON(t, h, http.MethodGet, "/v1/quests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listing))
	assert.Equal(t, map[string]string{tribaltotem.Name: tribaltotem.ID}, listing)
}

func TestQuestHandler_Get(t *testing.T) {
	h := NewQuestHandler(testLogger(), newTestStorage())

	w := doJSON(t, h, http.MethodGet, "/v1/quests/tribal_totem", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var q quest.Quest
	require.NoError(t, json.NewDecoder(w.Body).Decode(&q))
	assert.Equal(t, tribaltotem.ID, q.ID)
	assert.Len(t, q.Stages, 9)
	assert.True(t, q.Stages[1].IsConditional())
	assert.NoError(t, q.Validate())
}

func TestQuestHandler_Panels(t *testing.T) {
	h := NewQuestHandler(testLogger(), newTestStorage())

	w := doJSON(t, h, http.MethodGet, "/v1/quests/tribal_totem/panels", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var panels []quest.PanelView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&panels))
	require.Len(t, panels, 1)
	assert.Equal(t, "Retrieving the totem", panels[0].Title)
	require.Len(t, panels[0].Steps, 10)
	assert.Equal(t, tribaltotem.StepTalkToKangaiMau, panels[0].Steps[0].Key)
	assert.Equal(t, tribaltotem.StepTalkToKangaiMauAgain, panels[0].Steps[9].Key)
}

func TestQuestHandler_Requirements(t *testing.T) {
	h := NewQuestHandler(testLogger(), newTestStorage())

	w := doJSON(t, h, http.MethodGet, "/v1/quests/tribal_totem/requirements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RequirementsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Recommended, 3)
	assert.Equal(t, []items.ID{items.Coins}, resp.Recommended[0].Items)
	assert.Equal(t, 90, resp.Recommended[0].Quantity)
	assert.Equal(t, items.AmuletOfGlory, resp.Recommended[1].Collection)
	assert.Equal(t, []items.ID{items.ArdougneTeleport}, resp.Recommended[2].Items)
	assert.NotNil(t, resp.Required)
	assert.Empty(t, resp.Required)
}

func TestQuestHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"unknown quest", http.MethodGet, "/v1/quests/dragon_slayer", http.StatusNotFound},
		{"unknown quest panels", http.MethodGet, "/v1/quests/dragon_slayer/panels", http.StatusNotFound},
		{"unknown sub route", http.MethodGet, "/v1/quests/tribal_totem/rewards", http.StatusNotFound},
		{"too deep", http.MethodGet, "/v1/quests/tribal_totem/panels/0", http.StatusNotFound},
		{"post not allowed", http.MethodPost, "/v1/quests", http.StatusMethodNotAllowed},
		{"delete not allowed", http.MethodDelete, "/v1/quests/tribal_totem", http.StatusMethodNotAllowed},
	}

	h := NewQuestHandler(testLogger(), newTestStorage())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, tt.method, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}
