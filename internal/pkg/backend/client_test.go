package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:            srv.URL + "/",
		Timeout:            2 * time.Second,
		BreakerMaxRequests: 1,
		BreakerInterval:    time.Minute,
		BreakerTimeout:     time.Minute,
	})
}

func TestClient_LoginAndSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(LoginResult{Token: "tok-123", Username: body["username"], IsAdmin: true})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"username":"anna","isHourly":false,"scheduleCycle":1,"weeklySchedule":[{"monday":"7.5"}]}]`))
	})
	client := newTestClient(t, mux)

	session := NewSession(client)
	err := session.Login(context.Background(), "anna", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad credentials", apiErr.Message)
	assert.Empty(t, session.CurrentToken())

	require.NoError(t, session.Login(context.Background(), "anna", "secret"))
	assert.Equal(t, "tok-123", session.CurrentToken())
	assert.True(t, session.User().IsAdmin)

	users, err := client.ListUsers(WithSession(context.Background(), session))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "anna", users[0].Username)
	assert.Equal(t, 7.5, users[0].WeeklySchedule[0][timecalc.Monday])

	session.Logout()
	assert.Empty(t, session.CurrentToken())
	assert.Nil(t, session.User())
}

func TestClient_ListTimeTracking(t *testing.T) {
	from := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timetracking", r.URL.Path)
		assert.Equal(t, from.Format(time.RFC3339), r.URL.Query().Get("from"))
		assert.Equal(t, to.Format(time.RFC3339), r.URL.Query().Get("to"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`[
			{"username":"anna","startTime":"2024-01-08T08:00:00+01:00","punchOrder":1,"color":"green"},
			{"username":"anna","startTime":"2024-01-08T17:00:00+01:00","endTime":"2024-01-08T17:05:00+01:00","punchOrder":4}
		]`))
	}))

	punches, err := client.ListTimeTracking(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, 1, punches[0].PunchOrder)
	assert.Equal(t, "green", punches[0].Color)
	assert.Nil(t, punches[0].EndTime)
	require.NotNil(t, punches[1].EndTime)
}

func TestClient_EditDayAndDecisions(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/timetracking/edit-day" {
			var p EditDayPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Equal(t, "anna", p.TargetUsername)
			assert.Equal(t, "08:00", p.WorkStart)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := context.Background()
	require.NoError(t, client.EditDay(ctx, EditDayPayload{TargetUsername: "anna", Date: "2024-01-08", WorkStart: "08:00", BreakStart: "12:00", BreakEnd: "12:30", WorkEnd: "17:00"}))
	require.NoError(t, client.DecideVacationRequest(ctx, "v1", true))
	require.NoError(t, client.DecideCorrectionRequest(ctx, "c 2", false))

	assert.Equal(t, []string{
		"/timetracking/edit-day",
		"/vacation-requests/v1/approve",
		"/correction-requests/c 2/deny",
	}, paths)
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such request", http.StatusNotFound)
	}))

	_, err := client.GetVacationRequest(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := client.ListUsers(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
	}

	_, err := client.ListUsers(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(10), calls.Load(), "open breaker must not reach the backend")
}

func TestClient_ClientErrorsKeepBreakerClosed(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	for i := 0; i < 12; i++ {
		_, err := client.ListUsers(context.Background())
		assert.True(t, errors.Is(err, ErrUnauthorized))
	}
	assert.Equal(t, int32(12), calls.Load())
}

func TestSessionFromContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	s := RestoreSession("abc")
	got, ok := SessionFromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Equal(t, "abc", got.CurrentToken())

	assert.ErrorIs(t, s.Login(context.Background(), "a", "b"), ErrNoAuthenticator)
}
