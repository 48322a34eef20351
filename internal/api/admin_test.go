package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/jobportal/internal/api"
	"github.com/shaharia-lab/jobportal/internal/database"
	"github.com/shaharia-lab/jobportal/internal/logger"
	"github.com/shaharia-lab/jobportal/internal/service"
	svcmocks "github.com/shaharia-lab/jobportal/internal/service/mocks"
	"github.com/shaharia-lab/jobportal/internal/storage"
)

func newAdminRouter(svc service.NotificationService) chi.Router {
	c := api.NewAdminRoutes(svc, logger.Nop()).Collaborator()
	r := chi.NewRouter()
	r.Route(c.Prefix, c.Mount)
	return r
}

func getPath(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandleListNotifications(t *testing.T) {
	svc := new(svcmocks.MockNotificationService)
	svc.On("ListLog", mock.Anything, 5).Return([]storage.NotificationLogEntry{{
		ID:        "n1",
		Kind:      "acceptance",
		Recipient: "cand@example.com",
		Status:    storage.NotificationStatusSent,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}, nil)

	w := getPath(newAdminRouter(svc), "/api/admin/notifications?limit=5")

	require.Equal(t, http.StatusOK, w.Code)
	var got []storage.NotificationLogEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "cand@example.com", got[0].Recipient)
	svc.AssertExpectations(t)
}

func TestHandleListNotifications_InvalidLimit(t *testing.T) {
	for _, q := range []string{"", "?limit=abc", "?limit=-1"} {
		svc := new(svcmocks.MockNotificationService)
		svc.On("ListLog", mock.Anything, 0).Return([]storage.NotificationLogEntry{}, nil).Once()

		w := getPath(newAdminRouter(svc), "/api/admin/notifications"+q)

		assert.Equal(t, http.StatusOK, w.Code, q)
		assert.JSONEq(t, `[]`, w.Body.String(), q)
		svc.AssertExpectations(t)
	}
}

func TestHandleListNotifications_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "database pending",
			err:        fmt.Errorf("listing notification log: %w", database.ErrNotConnected),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "database not connected",
		},
		{
			name:       "query failure",
			err:        errors.New("finding notification logs: boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  api.InternalErrorMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(svcmocks.MockNotificationService)
			svc.On("ListLog", mock.Anything, 0).Return(nil, tt.err)

			w := getPath(newAdminRouter(svc), "/api/admin/notifications")

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}

type limitRecordingStore struct {
	limit int
}

func (s *limitRecordingStore) LogNotification(context.Context, storage.NotificationLogEntry) error {
	return nil
}

func (s *limitRecordingStore) ListNotifications(_ context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	s.limit = limit
	return nil, nil
}

func TestHandleListNotifications_HugeLimitIsCapped(t *testing.T) {
	store := &limitRecordingStore{}
	r := newAdminRouter(service.NewNotificationService(store))

	w := getPath(r, "/api/admin/notifications?limit=2000000000")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, 200, store.limit)
}
