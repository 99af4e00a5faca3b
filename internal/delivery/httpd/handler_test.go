package httpd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type testServer struct {
	t        *testing.T
	server   *httptest.Server
	sessions *session.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zerolog.Nop()
	store, err := repository.NewCSVStore(repository.CSVStoreConfig{
		DataDir:      t.TempDir(),
		UsersFile:    "users.csv",
		SubjectsFile: "subjects.csv",
		LogsFile:     "logs.csv",
	}, log)
	require.NoError(t, err)

	sessions := session.NewManager(session.ManagerConfig{TTL: time.Hour, TickInterval: time.Hour}, log)
	publisher := integration.NewNoopPublisher()

	handler := NewHandler(
		service.NewAuthService(store.Users, sessions, publisher, service.AuthConfig{
			AdminUsername:       "admin",
			AdminPasswordBypass: true,
			BcryptCost:          bcrypt.MinCost,
		}, log),
		service.NewSubjectService(store.Subjects, publisher, log),
		service.NewTimerService(store.Logs, publisher, log),
		service.NewNoteService(store.Logs, publisher, log),
		service.NewDashboardService(store.Subjects, store.Logs),
		service.NewAdminService(store, nil, "snapshots", log),
		sessions,
		CookieConfig{},
		log,
	)

	router := chi.NewRouter()
	router.Use(AccessLog(log))
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		sessions.Close()
	})

	return &testServer{t: t, server: srv, sessions: sessions}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (ts *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (ts *testServer) login(username, password string) string {
	ts.t.Helper()

	status, env := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(ts.t, http.StatusOK, status, env.Message)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(ts.t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(ts.t, resp.Token)
	return resp.Token
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.server.Client().Get(ts.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "ana", "password": "pw"})
	assert.Equal(t, http.StatusCreated, status)

	status, env := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "ana", "password": "other"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, service.ErrDuplicateUser.Error(), env.Message)

	status, _ = ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ana", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = ts.do(http.MethodGet, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := ts.login("ana", "pw")

	status, env = ts.do(http.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, http.StatusOK, status)
	var state session.State
	decodeData(t, env, &state)
	assert.True(t, state.LoggedIn)
	assert.Equal(t, "ana", state.Username)

	status, _ = ts.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.do(http.MethodGet, "/api/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUnknownFieldsRejected(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "ana", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSubjectsAndCredits(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login("admin", "")

	status, env := ts.do(http.MethodPost, "/api/v1/subjects/", token, map[string]interface{}{
		"name":       "Calculus",
		"units":      4,
		"difficulty": "Hard",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var created struct {
		ID        string `json:"id"`
		Indicator string `json:"indicator"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, "red", created.Indicator)

	status, env = ts.do(http.MethodPost, "/api/v1/subjects/", token, map[string]interface{}{
		"name":       "Art",
		"units":      0,
		"difficulty": "Easy",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "units")

	status, env = ts.do(http.MethodGet, "/api/v1/subjects/credits", token, nil)
	require.Equal(t, http.StatusOK, status)
	var credits struct {
		TotalCredits int `json:"total_credits"`
	}
	decodeData(t, env, &credits)
	assert.Equal(t, 4, credits.TotalCredits)

	status, _ = ts.do(http.MethodPut, "/api/v1/subjects/"+created.ID, token, map[string]interface{}{
		"name":       "Calculus",
		"scores":     []float64{20, 25, 30},
		"difficulty": "Medium",
	})
	assert.Equal(t, http.StatusOK, status)

	status, env = ts.do(http.MethodGet, "/api/v1/subjects/grades", token, nil)
	require.Equal(t, http.StatusOK, status)
	var archive struct {
		Grades []struct {
			Total      float64 `json:"total"`
			Percentage float64 `json:"percentage"`
		} `json:"grades"`
	}
	decodeData(t, env, &archive)
	require.Len(t, archive.Grades, 1)
	assert.Equal(t, 75.0, archive.Grades[0].Total)
	assert.Equal(t, 75.0, archive.Grades[0].Percentage)

	status, _ = ts.do(http.MethodDelete, "/api/v1/subjects/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(http.MethodDelete, "/api/v1/subjects/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = ts.do(http.MethodGet, "/api/v1/subjects/", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &list)
	assert.Zero(t, list.Total)
}

func TestTimerAndUpdates(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login("admin", "")

	status, _ := ts.do(http.MethodPost, "/api/v1/timer/pause", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = ts.do(http.MethodPost, "/api/v1/timer/start", token, nil)
	require.Equal(t, http.StatusOK, status)

	sess, ok := ts.sessions.Get(token)
	require.True(t, ok)
	for i := 0; i < 30; i++ {
		sess.Timer.Tick()
	}

	status, env := ts.do(http.MethodGet, "/api/v1/timer/", token, nil)
	require.Equal(t, http.StatusOK, status)
	var snap session.TimerSnapshot
	decodeData(t, env, &snap)
	assert.True(t, snap.Running)
	assert.Equal(t, "0:00:30", snap.Display)

	status, env = ts.do(http.MethodPost, "/api/v1/timer/save", token, nil)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var saved struct {
		Entry struct {
			Subject         string  `json:"subject"`
			DurationMinutes float64 `json:"duration_minutes"`
		} `json:"entry"`
		Timer session.TimerSnapshot `json:"timer"`
	}
	decodeData(t, env, &saved)
	assert.Equal(t, "None", saved.Entry.Subject)
	assert.Equal(t, 0.5, saved.Entry.DurationMinutes)
	assert.Equal(t, session.TimerIdle, saved.Timer.State)

	status, _ = ts.do(http.MethodPost, "/api/v1/updates/", token, map[string]string{"subject": "Calculus", "text": "Week 1 done"})
	assert.Equal(t, http.StatusCreated, status)

	status, env = ts.do(http.MethodGet, "/api/v1/updates/", token, nil)
	require.Equal(t, http.StatusOK, status)
	var updates struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &updates)
	assert.Equal(t, 1, updates.Total)

	status, env = ts.do(http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status)
	var dash service.Dashboard
	decodeData(t, env, &dash)
	assert.Equal(t, []string{"None"}, dash.FocusOptions)
	assert.Len(t, dash.Updates, 1)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)

	ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "ana", "password": "pw"})
	userToken := ts.login("ana", "pw")
	adminToken := ts.login("admin", "whatever")

	status, _ := ts.do(http.MethodGet, "/api/v1/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := ts.do(http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var users struct {
		Usernames []string `json:"usernames"`
	}
	decodeData(t, env, &users)
	assert.Equal(t, []string{"ana"}, users.Usernames)

	status, _ = ts.do(http.MethodPost, "/api/v1/admin/backup", adminToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
