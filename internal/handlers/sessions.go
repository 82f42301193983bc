package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/internal/services/events"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
	"github.com/jwebster45206/quest-helper/pkg/storage"
)

// CreateSessionRequest defines the request body for starting a session
type CreateSessionRequest struct {
	QuestID string `json:"quest_id"`
}

// SetStageRequest defines the request body for reporting the current stage
type SetStageRequest struct {
	Stage *int `json:"stage"`
}

// StepResponse is the step the player should currently be guided to
type StepResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	QuestID     string     `json:"quest_id"`
	Stage       int        `json:"stage"`
	Conditional bool       `json:"conditional"`         // Stage branches on player state
	Step        quest.Step `json:"step"`                // Resolved step
	IconName    string     `json:"icon_name,omitempty"` // Display name of Step.Icon
}

type SessionHandler struct {
	logger    *slog.Logger
	storage   storage.Storage
	catalog   *items.Catalog
	publisher events.Publisher // may be nil
}

func NewSessionHandler(logger *slog.Logger, storage storage.Storage, catalog *items.Catalog, publisher events.Publisher) *SessionHandler {
	return &SessionHandler{
		logger:    logger,
		storage:   storage,
		catalog:   catalog,
		publisher: publisher,
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/sessions              - Start a session at stage 0
// GET /v1/sessions/{id}          - Read session
// DELETE /v1/sessions/{id}       - End session
// PUT /v1/sessions/{id}/stage    - Host reports the current stage
// PUT /v1/sessions/{id}/player   - Host reports a player state delta
// GET /v1/sessions/{id}/step     - Resolved step for the current stage
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		writeError(w, h.logger, http.StatusNotFound, "Unknown session route")
		return
	}

	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	case action == "stage" && r.Method == http.MethodPut:
		h.handleSetStage(w, r, sessionID)
	case action == "player" && r.Method == http.MethodPut:
		h.handlePlayer(w, r, sessionID)
	case action == "step" && r.Method == http.MethodGet:
		h.handleStep(w, r, sessionID)
	case action == "" || action == "stage" || action == "player" || action == "step":
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method, "action", action)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown session route")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.QuestID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "quest_id is required")
		return
	}

	ctx := r.Context()
	q, ok := h.loadQuest(ctx, w, req.QuestID)
	if !ok {
		return
	}

	s := state.NewSession(q.ID)
	if err := h.storage.SaveSession(ctx, s); err != nil {
		logFor(ctx, h.logger, err).Error("Failed to save session")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	logFor(ctx, h.logger, nil).Info("Session started", "session_id", s.ID.String(), "quest_id", q.ID)
	if step, err := s.CurrentStep(q); err == nil {
		h.publish(ctx, s.ID, events.SessionCreated(s.ID, q.ID, step.Key))
	}

	writeJSON(w, h.logger, http.StatusCreated, s)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, ok := h.loadSession(r.Context(), w, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	if err := h.storage.DeleteSession(ctx, id); err != nil {
		logFor(ctx, h.logger, err).Error("Failed to delete session", "session_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.publish(ctx, id, events.SessionEnded(id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleSetStage(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req SetStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stage == nil {
		writeError(w, h.logger, http.StatusBadRequest, "Request body must be {\"stage\": <int>}")
		return
	}

	ctx := r.Context()
	s, ok := h.loadSession(ctx, w, id)
	if !ok {
		return
	}
	q, ok := h.loadQuest(ctx, w, s.QuestID)
	if !ok {
		return
	}

	from := s.Stage
	if err := s.SetStage(q, *req.Stage); err != nil {
		if errors.Is(err, state.ErrInvalidStage) {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		logFor(ctx, h.logger, err).Error("Failed to set stage", "session_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to set stage")
		return
	}

	if err := h.storage.SaveSession(ctx, s); err != nil {
		logFor(ctx, h.logger, err).Error("Failed to save session", "session_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	resp, ok := h.stepResponse(ctx, w, s, q)
	if !ok {
		return
	}
	h.logger.Debug("Stage changed", "session_id", id.String(), "from", from, "to", s.Stage, "step", resp.Step.Key)
	h.publish(ctx, id, events.StageChanged(id, from, s.Stage, resp.Step.Key))
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionHandler) handlePlayer(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var delta state.PlayerDelta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if err := delta.Check(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	s, ok := h.loadSession(ctx, w, id)
	if !ok {
		return
	}
	q, ok := h.loadQuest(ctx, w, s.QuestID)
	if !ok {
		return
	}

	var before string
	if e, found := q.Stage(s.Stage); found {
		before = quest.ResolveKey(e, s)
	}

	s.Apply(&delta)
	if err := h.storage.SaveSession(ctx, s); err != nil {
		logFor(ctx, h.logger, err).Error("Failed to save session", "session_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	resp, ok := h.stepResponse(ctx, w, s, q)
	if !ok {
		return
	}
	h.publish(ctx, id, events.PlayerUpdated(id, resp.Step.Key, resp.Step.Key != before))
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionHandler) handleStep(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	s, ok := h.loadSession(ctx, w, id)
	if !ok {
		return
	}
	q, ok := h.loadQuest(ctx, w, s.QuestID)
	if !ok {
		return
	}

	resp, ok := h.stepResponse(ctx, w, s, q)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionHandler) stepResponse(ctx context.Context, w http.ResponseWriter, s *state.Session, q *quest.Quest) (StepResponse, bool) {
	step, err := s.CurrentStep(q)
	if err != nil {
		logFor(ctx, h.logger, err).Error("Failed to resolve step", "session_id", s.ID.String(), "stage", s.Stage)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to resolve step")
		return StepResponse{}, false
	}

	entry, _ := q.Stage(s.Stage)
	resp := StepResponse{
		SessionID:   s.ID,
		QuestID:     q.ID,
		Stage:       s.Stage,
		Conditional: entry.IsConditional(),
		Step:        *step,
	}
	if step.Icon != nil && h.catalog != nil {
		resp.IconName = h.catalog.Name(*step.Icon)
	}
	return resp, true
}

func (h *SessionHandler) loadSession(ctx context.Context, w http.ResponseWriter, id uuid.UUID) (*state.Session, bool) {
	s, err := h.storage.LoadSession(ctx, id)
	if err != nil {
		logFor(ctx, h.logger, err).Error("Failed to load session", "session_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) loadQuest(ctx context.Context, w http.ResponseWriter, questID string) (*quest.Quest, bool) {
	q, err := h.storage.GetQuest(ctx, questID)
	if err != nil {
		if errors.Is(err, storage.ErrQuestNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Quest not found")
			return nil, false
		}
		logFor(ctx, h.logger, err).Error("Failed to get quest", "quest_id", questID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve quest")
		return nil, false
	}
	return q, true
}

// publish logs and drops publisher errors
func (h *SessionHandler) publish(ctx context.Context, id uuid.UUID, event events.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, id, event); err != nil {
		logFor(ctx, h.logger, err).Warn("Failed to publish session event", "session_id", id.String(), "event_type", event.Type)
	}
}
