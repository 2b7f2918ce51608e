package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockSessionCleaner is a hand-written mock for SessionCleaner
type mockSessionCleaner struct {
	deleted   int
	err       error
	gotCutoff time.Time
}

func (m *mockSessionCleaner) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	m.gotCutoff = cutoff
	if m.err != nil {
		return 0, m.err
	}
	return m.deleted, nil
}

func TestSessionCleaningHandler_CleanSessions(t *testing.T) {
	t.Run("deletes sessions older than max age", func(t *testing.T) {
		cleaner := &mockSessionCleaner{deleted: 3}
		handler := NewSessionCleaningHandler(cleaner, zap.NewNop(), 24*time.Hour)
		r := chi.NewRouter()
		handler.RegisterRoutes(r)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/expired", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cleaner.gotCutoff, time.Minute)
	})

	t.Run("repository failure", func(t *testing.T) {
		cleaner := &mockSessionCleaner{err: errors.New("db down")}
		handler := NewSessionCleaningHandler(cleaner, zap.NewNop(), 24*time.Hour)
		r := chi.NewRouter()
		handler.RegisterRoutes(r)

		req := httptest.NewRequest(http.MethodDelete, "/sessions/expired", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
