package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/events/internal/container"
	"github.com/joshua-takyi/events/internal/helpers"
	"github.com/joshua-takyi/events/internal/models"
	"github.com/joshua-takyi/events/internal/routes"
	"github.com/joshua-takyi/events/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-test-secret"

type apiResponse struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Data       json.RawMessage         `json:"data"`
	Error      string                  `json:"error"`
	Violations []models.FieldViolation `json:"violations"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	validator, err := helpers.NewTokenValidator(context.Background(), secret, "")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := container.NewContainer(logger, validator, nil, nil,
		services.NewEventService(models.NewMemoryRepo()),
	)
	return &testServer{t: t, router: routes.SetupRoutes(c)}
}

func (s *testServer) token(userID int64) string {
	tok, err := helpers.SignToken(secret, userID, time.Hour)
	require.NoError(s.t, err)
	return tok
}

// do sends body (marshalled when not nil) and returns the recorder. A zero
// userID sends no credentials.
func (s *testServer) do(method, path string, userID int64, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var res apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func decodeEvent(t *testing.T, w *httptest.ResponseRecorder) models.Event {
	t.Helper()
	var ev models.Event
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &ev))
	return ev
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/health", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEventsLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/events", 1, map[string]any{
		"title":       "Launch",
		"description": "Q1 launch",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeEvent(t, w)
	assert.Positive(t, created.EventID)
	assert.Equal(t, int64(1), created.UserID)
	assert.Zero(t, created.GoingCount)
	assert.Zero(t, created.LikesCount)
	assert.Zero(t, created.CommentsCount)

	eventPath := fmt.Sprintf("/api/v1/events/%d", created.EventID)

	w = s.do(http.MethodGet, "/api/v1/events", 1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Event
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.EventID, list[0].EventID)

	// reading a single event needs no credentials
	w = s.do(http.MethodGet, eventPath, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Launch", decodeEvent(t, w).Title)

	w = s.do(http.MethodPut, eventPath, 1, map[string]any{"title": "Launch v2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeEvent(t, w)
	assert.Equal(t, "Launch v2", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Q1 launch", *updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	w = s.do(http.MethodDelete, eventPath, 1, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = s.do(http.MethodGet, eventPath, 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "event not found", decode(t, w).Error)

	w = s.do(http.MethodDelete, eventPath, 1, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOnlyReturnsCallersEvents(t *testing.T) {
	s := newTestServer(t)

	for _, owner := range []int64{1, 2, 1} {
		w := s.do(http.MethodPost, "/api/v1/events", owner, map[string]any{"title": "t"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/api/v1/events", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Event
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].UserID)

	w = s.do(http.MethodGet, "/api/v1/events", 3, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestCreateIgnoresClientOwnershipAndCounters(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/events", 4, map[string]any{
		"title":       "Mine",
		"user_id":     99,
		"likes_count": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	ev := decodeEvent(t, w)
	assert.Equal(t, int64(4), ev.UserID)
	assert.Zero(t, ev.LikesCount)
}

func TestRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/events"},
		{http.MethodPost, "/api/v1/events"},
		{http.MethodPut, "/api/v1/events/1"},
		{http.MethodDelete, "/api/v1/events/1"},
	} {
		t.Run(tc.method, func(t *testing.T) {
			w := s.do(tc.method, tc.path, 0, map[string]any{"title": "x"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/events", 1, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request payload", decode(t, w).Error)

	w = s.do(http.MethodPost, "/api/v1/events", 1, map[string]any{"title": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	res := decode(t, w)
	require.NotEmpty(t, res.Violations)
	assert.Equal(t, "title", res.Violations[0].Field)

	for _, id := range []string{"abc", "0", "-3"} {
		w = s.do(http.MethodGet, "/api/v1/events/"+id, 0, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
	}

	w = s.do(http.MethodPut, "/api/v1/events/7", 1, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMissingEvent(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/api/v1/events/77", 1, map[string]any{"title": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
