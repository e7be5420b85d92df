package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

var (
	ErrUnauthorized    = errors.New("upstream rejected credentials")
	ErrNotFound        = errors.New("upstream resource not found")
	ErrUnavailable     = errors.New("upstream backend unavailable")
	ErrNoAuthenticator = errors.New("session has no authenticator")
)

// APIError is a non-2xx answer from the upstream backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error [%d]: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrUnavailable
	}
	return nil
}

// Config for the upstream REST backend.
type Config struct {
	BaseURL string
	Timeout time.Duration

	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
}

// Client talks to the upstream REST backend. Calls go through a circuit
// breaker so that a failing backend is not hammered by every dashboard load.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewClient creates a new upstream client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "upstream-backend",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// trip when at least half of 10+ requests failed
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		IsSuccessful: func(err error) bool {
			// client errors say nothing about backend health
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

// Login exchanges credentials for an upstream token. It needs no session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	if res.Username == "" {
		res.Username = username
	}
	return &res, nil
}

// ListUsers returns all users with their schedule configuration.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var users []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateSchedule replaces the schedule configuration of one user.
func (c *Client) UpdateSchedule(ctx context.Context, username string, cfg timecalc.ScheduleConfig) error {
	return c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(username)+"/schedule", nil, cfg, nil)
}

// ListTimeTracking returns the punches stamped in [from, to).
func (c *Client) ListTimeTracking(ctx context.Context, from, to time.Time) ([]PunchRecord, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	var punches []PunchRecord
	if err := c.do(ctx, http.MethodGet, "/timetracking", q, nil, &punches); err != nil {
		return nil, err
	}
	return punches, nil
}

// EditDay submits an admin correction replacing one user-day.
func (c *Client) EditDay(ctx context.Context, payload EditDayPayload) error {
	return c.do(ctx, http.MethodPost, "/timetracking/edit-day", nil, payload, nil)
}

func (c *Client) ListVacationRequests(ctx context.Context) ([]VacationRecord, error) {
	var out []VacationRecord
	if err := c.do(ctx, http.MethodGet, "/vacation-requests", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetVacationRequest(ctx context.Context, id string) (*VacationRecord, error) {
	var out VacationRecord
	if err := c.do(ctx, http.MethodGet, "/vacation-requests/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideVacationRequest approves (true) or denies (false) a vacation request.
func (c *Client) DecideVacationRequest(ctx context.Context, id string, approve bool) error {
	return c.do(ctx, http.MethodPost, "/vacation-requests/"+url.PathEscape(id)+"/"+decision(approve), nil, nil, nil)
}

func (c *Client) ListCorrectionRequests(ctx context.Context) ([]CorrectionRecord, error) {
	var out []CorrectionRecord
	if err := c.do(ctx, http.MethodGet, "/correction-requests", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCorrectionRequest(ctx context.Context, id string) (*CorrectionRecord, error) {
	var out CorrectionRecord
	if err := c.do(ctx, http.MethodGet, "/correction-requests/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideCorrectionRequest approves (true) or denies (false) a correction request.
func (c *Client) DecideCorrectionRequest(ctx context.Context, id string, approve bool) error {
	return c.do(ctx, http.MethodPost, "/correction-requests/"+url.PathEscape(id)+"/"+decision(approve), nil, nil, nil)
}

func decision(approve bool) string {
	if approve {
		return "approve"
	}
	return "deny"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal upstream payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	if s, ok := SessionFromContext(ctx); ok {
		if token := s.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode upstream response for %s %s: %w", method, path, err)
	}
	return nil
}

// readMessage extracts {"message": "..."} from an error body, or the raw text.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
