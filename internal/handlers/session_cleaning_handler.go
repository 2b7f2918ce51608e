package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SessionCleaner deletes sessions created before a cutoff time.
type SessionCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// SessionCleaningHandler handles session cleanup requests
type SessionCleaningHandler struct {
	BaseHandler
	sessions SessionCleaner
	maxAge   time.Duration
}

// NewSessionCleaningHandler creates a new session cleaning handler
func NewSessionCleaningHandler(
	sessions SessionCleaner,
	logger *zap.Logger,
	maxAge time.Duration,
) *SessionCleaningHandler {
	return &SessionCleaningHandler{
		BaseHandler: BaseHandler{Logger: logger},
		sessions:    sessions,
		maxAge:      maxAge,
	}
}

// RegisterRoutes registers session cleaning handler routes
func (h *SessionCleaningHandler) RegisterRoutes(r chi.Router) {
	r.Delete("/sessions/expired", h.CleanSessions)
}

// CleanSessions handles DELETE /sessions/expired
// @Summary Clean stale sessions
// @Description Removes all sessions with created_at older than the configured session max age
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string "Session cleaning completed successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sessions/expired [delete]
func (h *SessionCleaningHandler) CleanSessions(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().Add(-h.maxAge)

	// 0 deleted rows is not an error
	deletedCount, err := h.sessions.DeleteOlderThan(r.Context(), cutoff)
	if err != nil {
		h.Logger.Error("failed to delete stale sessions", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Logger.Info("session cleaning completed successfully", zap.Int("deletedCount", deletedCount))
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "session cleaning completed successfully"})
}
