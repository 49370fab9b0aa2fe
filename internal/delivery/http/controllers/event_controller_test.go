package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"iamin/internal/delivery/http/helpers"
	"iamin/internal/domain"
	"iamin/internal/repository/memory"
	"iamin/internal/repository/mongodb"
	"iamin/internal/services"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// nopNotifier satisfies domain.Notifier without delivering anything.
type nopNotifier struct{}

func (nopNotifier) Notify(ctx context.Context, recipient domain.Identity, subject, body string) error {
	return nil
}

func newTestMux(t *testing.T, repo domain.EventRepository) *http.ServeMux {
	t.Helper()
	eventService := services.NewEventService(repo, time.Second)
	registrationService := services.NewRegistrationService(repo, nopNotifier{}, testLogger, time.Second)
	controller := NewEventController(testLogger, eventService, registrationService)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", controller.CreateEvent)
	mux.HandleFunc("GET /events", controller.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", controller.GetEventByID)
	mux.HandleFunc("POST /events/{eventID}/register", controller.Register)
	mux.HandleFunc("POST /events/{eventID}/join", controller.Join)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type eventEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Event *domain.Event `json:"event"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type listEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Events  []*domain.Event `json:"events"`
		HasMore bool            `json:"hasMore"`
	} `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decodeEvent(t *testing.T, rec *httptest.ResponseRecorder) eventEnvelope {
	t.Helper()
	var env eventEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

const (
	aliceJSON = `{"fid":1,"username":"alice","displayName":"Alice","pfpUrl":"https://example.com/a.png"}`
	bobJSON   = `{"fid":2,"username":"bob","displayName":"Bob","pfpUrl":"https://example.com/b.png"}`
)

func TestCreateRegisterReRegisterFlow(t *testing.T) {
	mux := newTestMux(t, memory.NewEventRepository())

	// Create.
	rec := doJSON(t, mux, http.MethodPost, "/events",
		`{"title":"Meetup","description":"Monthly sync","creator":`+aliceJSON+`}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEvent(t, rec)
	require.True(t, created.Success)
	require.Empty(t, created.Data.Event.Participants)
	eventID := created.Data.Event.ID.Hex()

	// Register bob (wrapped identity form).
	rec = doJSON(t, mux, http.MethodPost, "/events/"+eventID+"/register",
		`{"participant":`+bobJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	registered := decodeEvent(t, rec)
	require.True(t, registered.Success)
	require.Len(t, registered.Data.Event.Participants, 1)
	require.Equal(t, int64(2), registered.Data.Event.Participants[0].FID)
	require.True(t, registered.Data.Event.UpdatedAt.After(created.Data.Event.UpdatedAt))

	// Re-register bob: idempotent 200, participants and updatedAt unchanged.
	rec = doJSON(t, mux, http.MethodPost, "/events/"+eventID+"/register",
		`{"participant":`+bobJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	again := decodeEvent(t, rec)
	require.Len(t, again.Data.Event.Participants, 1)
	require.True(t, again.Data.Event.UpdatedAt.Equal(registered.Data.Event.UpdatedAt))
}

func TestRegisterBareIdentityBody(t *testing.T) {
	repo := memory.NewEventRepository()
	mux := newTestMux(t, repo)

	rec := doJSON(t, mux, http.MethodPost, "/events",
		`{"title":"Meetup","description":"d","creator":`+aliceJSON+`}`)
	eventID := decodeEvent(t, rec).Data.Event.ID.Hex()

	// Identity fields at the top level, no "participant" wrapper.
	rec = doJSON(t, mux, http.MethodPost, "/events/"+eventID+"/register", bobJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEvent(t, rec)
	require.Len(t, env.Data.Event.Participants, 1)
	require.Equal(t, "bob", env.Data.Event.Participants[0].Username)
}

func TestRegisterErrors(t *testing.T) {
	mux := newTestMux(t, memory.NewEventRepository())

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "event not found",
			path:     "/events/ffffffffffffffffffffffff/register",
			body:     `{"participant":` + bobJSON + `}`,
			wantCode: http.StatusNotFound,
			wantErr:  helpers.ErrCodeNotFound,
		},
		{
			name:     "malformed event id",
			path:     "/events/not-an-id/register",
			body:     `{"participant":` + bobJSON + `}`,
			wantCode: http.StatusNotFound,
			wantErr:  helpers.ErrCodeNotFound,
		},
		{
			name:     "invalid JSON",
			path:     "/events/ffffffffffffffffffffffff/register",
			body:     `{not json`,
			wantCode: http.StatusBadRequest,
			wantErr:  helpers.ErrCodeBadRequest,
		},
		{
			name:     "invalid identity",
			path:     "/events/ffffffffffffffffffffffff/register",
			body:     `{"participant":{"fid":0,"username":"","displayName":"","pfpUrl":""}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantCode, rec.Code)
			env := decodeEvent(t, rec)
			require.False(t, env.Success)
			require.NotNil(t, env.Error)
			require.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestJoinByFIDRoute(t *testing.T) {
	repo := memory.NewEventRepository()
	mux := newTestMux(t, repo)

	rec := doJSON(t, mux, http.MethodPost, "/events",
		`{"title":"Meetup","description":"d","creator":`+aliceJSON+`}`)
	eventID := decodeEvent(t, rec).Data.Event.ID.Hex()

	rec = doJSON(t, mux, http.MethodPost, "/events/"+eventID+"/join", `{"fid":42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEvent(t, rec)
	require.Len(t, env.Data.Event.Participants, 1)
	require.Equal(t, int64(42), env.Data.Event.Participants[0].FID)

	rec = doJSON(t, mux, http.MethodPost, "/events/"+eventID+"/join", `{"fid":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEventsRoute(t *testing.T) {
	repo := memory.NewEventRepository()
	mux := newTestMux(t, repo)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, mux, http.MethodPost, "/events",
			fmt.Sprintf(`{"title":"Event %d","description":"d","creator":`+aliceJSON+`}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, mux, http.MethodGet, "/events?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	require.Len(t, env.Data.Events, 2)
	require.True(t, env.Data.HasMore)

	rec = doJSON(t, mux, http.MethodGet, "/events?limit=2&page=2", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Events, 1)
	require.False(t, env.Data.HasMore)

	// Filter by a creator nobody has.
	rec = doJSON(t, mux, http.MethodGet, "/events?creatorFid=99", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Empty(t, env.Data.Events)
}

func TestGetEventRoute(t *testing.T) {
	repo := memory.NewEventRepository()
	mux := newTestMux(t, repo)

	rec := doJSON(t, mux, http.MethodPost, "/events",
		`{"title":"Meetup","description":"d","creator":`+aliceJSON+`}`)
	eventID := decodeEvent(t, rec).Data.Event.ID.Hex()

	rec = doJSON(t, mux, http.MethodGet, "/events/"+eventID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEvent(t, rec)
	require.Equal(t, "Meetup", env.Data.Event.Title)

	rec = doJSON(t, mux, http.MethodGet, "/events/ffffffffffffffffffffffff", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEventValidationErrors(t *testing.T) {
	mux := newTestMux(t, memory.NewEventRepository())

	rec := doJSON(t, mux, http.MethodPost, "/events", `{"title":"","description":"d","creator":`+aliceJSON+`}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEvent(t, rec)
	require.True(t, strings.Contains(env.Error.Message, "title is required"))

	rec = doJSON(t, mux, http.MethodPost, "/events", `{"title":"Meetup","description":"d","creator":{"fid":0}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreNotConfiguredResponses(t *testing.T) {
	mux := newTestMux(t, mongodb.NewUnconfiguredRepository())

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/events", `{"title":"Meetup","description":"d","creator":` + aliceJSON + `}`},
		{http.MethodGet, "/events", ""},
		{http.MethodGet, "/events/ffffffffffffffffffffffff", ""},
		{http.MethodPost, "/events/ffffffffffffffffffffffff/register", `{"participant":` + bobJSON + `}`},
		{http.MethodPost, "/events/ffffffffffffffffffffffff/join", `{"fid":1}`},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := doJSON(t, mux, p.method, p.path, p.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var env eventEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.False(t, env.Success)
			require.Equal(t, helpers.ErrCodeStoreNotConfigured, env.Error.Code)
			require.Equal(t, "MongoDB is not configured", env.Error.Message)
		})
	}
}
