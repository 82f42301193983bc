package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/storage"
)

// RequirementsResponse lists a quest's item requirements.
type RequirementsResponse struct {
	Recommended []conditionals.Requirement `json:"recommended"`
	Required    []conditionals.Requirement `json:"required"`
}

type QuestHandler struct {
	logger  *slog.Logger
	storage storage.Storage
}

func NewQuestHandler(logger *slog.Logger, storage storage.Storage) *QuestHandler {
	return &QuestHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP handles read-only quest routes
// Routes:
// GET /v1/quests                      - Quest name → id listing
// GET /v1/quests/{id}                 - Full quest definition
// GET /v1/quests/{id}/panels          - Panels with resolved steps
// GET /v1/quests/{id}/requirements    - Recommended and required items
func (h *QuestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for quest endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/quests"), "/")
	if path == "" {
		h.handleList(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		writeError(w, h.logger, http.StatusNotFound, "Unknown quest route")
		return
	}

	ctx := r.Context()
	q, err := h.storage.GetQuest(ctx, parts[0])
	if err != nil {
		if errors.Is(err, storage.ErrQuestNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Quest not found")
			return
		}
		logFor(ctx, h.logger, err).Error("Failed to get quest", "quest_id", parts[0])
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve quest")
		return
	}

	if len(parts) == 1 {
		writeJSON(w, h.logger, http.StatusOK, q)
		return
	}

	switch parts[1] {
	case "panels":
		writeJSON(w, h.logger, http.StatusOK, q.PanelListing())
	case "requirements":
		writeJSON(w, h.logger, http.StatusOK, RequirementsResponse{
			Recommended: q.RecommendedItems(),
			Required:    q.RequiredItems(),
		})
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown quest route")
	}
}

func (h *QuestHandler) handleList(w http.ResponseWriter, r *http.Request) {
	quests, err := h.storage.ListQuests(r.Context())
	if err != nil {
		logFor(r.Context(), h.logger, err).Error("Failed to list quests")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list quests")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, quests)
}
