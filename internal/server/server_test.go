package server_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/jobportal/internal/api"
	"github.com/shaharia-lab/jobportal/internal/database"
	"github.com/shaharia-lab/jobportal/internal/logger"
	"github.com/shaharia-lab/jobportal/internal/server"
)

type fixedState database.State

func (f fixedState) State() database.State { return database.State(f) }

var origins = []string{"http://localhost:3000", "http://localhost:5173", "https://jobs.example.com"}

func faultyCollaborator() api.Collaborator {
	return api.Collaborator{
		Prefix: "/api/job",
		Mount: func(r chi.Router) {
			r.Get("/panic", func(http.ResponseWriter, *http.Request) {
				panic("nil map write in job listing")
			})
			r.Get("/fail", api.Handle(logger.Nop(), func(http.ResponseWriter, *http.Request) error {
				return errors.New("cursor timed out")
			}))
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
				api.WriteJSON(w, http.StatusOK, []string{"backend engineer"})
			})
		},
	}
}

func newServer(t *testing.T, state database.State, logs *bytes.Buffer) *server.Server {
	t.Helper()
	log := logger.Nop()
	if logs != nil {
		log = logger.NewWriter(logs, logger.Options{})
	}
	return server.New(server.Config{
		Addr:           "127.0.0.1:0",
		AllowedOrigins: origins,
		Collaborators:  []api.Collaborator{faultyCollaborator()},
		Database:       fixedState(state),
		Logger:         log,
	})
}

func do(s *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth_IndependentOfDatabase(t *testing.T) {
	for _, state := range []database.State{database.StatePending, database.StateRetryScheduled, database.StateConnected} {
		s := newServer(t, state, nil)
		w := do(s, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, w.Code, state)
		assert.JSONEq(t, `{"message":"Server is running smoothly!"}`, w.Body.String())
	}
}

func TestRoot(t *testing.T) {
	w := do(newServer(t, database.StatePending, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Job Portal Backend API"}`, w.Body.String())
}

func TestDatabaseHealth(t *testing.T) {
	tests := []struct {
		state      database.State
		wantStatus int
	}{
		{database.StatePending, http.StatusServiceUnavailable},
		{database.StateRetryScheduled, http.StatusServiceUnavailable},
		{database.StateConnected, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			w := do(newServer(t, tt.state, nil), httptest.NewRequest(http.MethodGet, "/api/health/database", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, `{"state":"`+string(tt.state)+`"}`, w.Body.String())
		})
	}
}

func TestCollaboratorMounted(t *testing.T) {
	w := do(newServer(t, database.StatePending, nil), httptest.NewRequest(http.MethodGet, "/api/job/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["backend engineer"]`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	w := do(newServer(t, database.StatePending, nil), httptest.NewRequest(http.MethodGet, "/api/pdfs/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestGlobalErrorHandler(t *testing.T) {
	for _, path := range []string{"/api/job/panic", "/api/job/fail"} {
		t.Run(path, func(t *testing.T) {
			var logs bytes.Buffer
			s := newServer(t, database.StatePending, &logs)

			w := do(s, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Something went wrong on the server!"}`, w.Body.String())
			assert.NotContains(t, w.Body.String(), "nil map")
			assert.NotContains(t, w.Body.String(), "cursor")
		})
	}
}

func TestRecoverer_LogsStack(t *testing.T) {
	var logs bytes.Buffer
	s := newServer(t, database.StatePending, &logs)

	_ = do(s, httptest.NewRequest(http.MethodGet, "/api/job/panic", nil))

	out := logs.String()
	assert.Contains(t, out, "unhandled error")
	assert.Contains(t, out, "nil map write in job listing")
	assert.Contains(t, out, `"stack"`)
	assert.Contains(t, out, `"status":500`)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{"react dev server", "http://localhost:3000", "http://localhost:3000"},
		{"vite dev server", "http://localhost:5173", "http://localhost:5173"},
		{"client url", "https://jobs.example.com", "https://jobs.example.com"},
		{"other origin", "https://evil.example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, database.StatePending, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := do(s, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllow != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	s := newServer(t, database.StatePending, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/hr/applications/1/decision", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := do(s, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, database.StatePending, nil)
	_ = do(s, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	w := do(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jobportal_http_requests_total")
}

func TestRun_BindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	s := server.New(server.Config{Addr: taken.Addr().String(), Logger: logger.Nop()})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = s.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on "+taken.Addr().String())
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newServer(t, database.StatePending, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/api/health")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
