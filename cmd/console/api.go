package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
)

// StepResponse matches the API's resolved step payload
type StepResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	QuestID     string     `json:"quest_id"`
	Stage       int        `json:"stage"`
	Conditional bool       `json:"conditional"`
	Step        quest.Step `json:"step"`
	IconName    string     `json:"icon_name,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends an optional JSON body and decodes the response into out when
// the status matches want.
func doJSON(client *http.Client, method, url string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func listQuests(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	var questMap map[string]string
	if err := doJSON(client, http.MethodGet, baseURL+"/v1/quests", nil, http.StatusOK, &questMap); err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range questMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, questMap, nil
}

func getPanels(client *http.Client, baseURL string, questID string) ([]quest.PanelView, error) {
	var panels []quest.PanelView
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/quests/%s/panels", baseURL, questID), nil, http.StatusOK, &panels); err != nil {
		return nil, fmt.Errorf("failed to get panels: %w", err)
	}
	return panels, nil
}

func createSession(client *http.Client, baseURL string, questID string) (*state.Session, error) {
	var s state.Session
	req := map[string]string{"quest_id": questID}
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/sessions", req, http.StatusCreated, &s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*state.Session, error) {
	var s state.Session
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID), nil, http.StatusOK, &s); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func getStep(client *http.Client, baseURL string, sessionID uuid.UUID) (*StepResponse, error) {
	var step StepResponse
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/sessions/%s/step", baseURL, sessionID), nil, http.StatusOK, &step); err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &step, nil
}

func setStage(client *http.Client, baseURL string, sessionID uuid.UUID, stage int) (*StepResponse, error) {
	var step StepResponse
	req := map[string]int{"stage": stage}
	if err := doJSON(client, http.MethodPut, fmt.Sprintf("%s/v1/sessions/%s/stage", baseURL, sessionID), req, http.StatusOK, &step); err != nil {
		return nil, fmt.Errorf("failed to set stage: %w", err)
	}
	return &step, nil
}

func updatePlayer(client *http.Client, baseURL string, sessionID uuid.UUID, delta state.PlayerDelta) (*StepResponse, error) {
	var step StepResponse
	if err := doJSON(client, http.MethodPut, fmt.Sprintf("%s/v1/sessions/%s/player", baseURL, sessionID), delta, http.StatusOK, &step); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return &step, nil
}

func endSession(client *http.Client, baseURL string, sessionID uuid.UUID) error {
	return doJSON(client, http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID), nil, http.StatusNoContent, nil)
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// listenToSSE connects to the SSE endpoint and streams events to a channel
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/events/sessions/%s", baseURL, sessionID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			// Empty line signals end of event
			if currentEvent.Type != "" {
				select {
				case eventChan <- currentEvent:
				case <-ctx.Done():
					return ctx.Err()
				}
				currentEvent = SSEEvent{}
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			var data map[string]any
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}

	return nil
}

func getQuest(client *http.Client, baseURL string, questID string) (*quest.Quest, error) {
	var q quest.Quest
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/quests/%s", baseURL, questID), nil, http.StatusOK, &q); err != nil {
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return &q, nil
}
