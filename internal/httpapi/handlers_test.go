package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchday/internal/engine"
	"matchday/internal/hub"
	"matchday/internal/session"
)

type stubEngine struct {
	startBody string
	startErr  error
}

func (e *stubEngine) StartMatch(ctx context.Context, req engine.StartRequest) (io.ReadCloser, error) {
	if e.startErr != nil {
		return nil, e.startErr
	}
	return io.NopCloser(strings.NewReader(e.startBody)), nil
}

func (e *stubEngine) ContinueMatch(ctx context.Context, req engine.ContinuationRequest) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type nopPlayer struct{}

func (nopPlayer) Play(ctx context.Context, url string) error { return nil }

func newTestServer(t *testing.T, eng engine.Streamer) *httptest.Server {
	t.Helper()
	log := zap.NewNop()
	h := hub.NewHub(context.Background(), func(ctx context.Context, p session.Params) *session.Session {
		return session.New(ctx, p, session.Deps{
			Engine:     eng,
			Player:     nopPlayer{},
			AudioBase:  "http://cdn.local",
			EventDelay: time.Millisecond,
			Logger:     log,
		})
	})
	srv := httptest.NewServer(SetupRoutes(h, log))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

const startBody = `{"match_id":"m-1","home_team":{"name":"Ajax","tactic":"tiki-taka","formation":"4-3-3"},"away_team":{"name":"PSV","tactic":"gegenpressing","formation":"4-4-2"}}`

func TestStartMatch_Created(t *testing.T) {
	srv := newTestServer(t, &stubEngine{startBody: ""})

	resp := postJSON(t, srv.URL+"/matches", startBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"phase":"live"`)
}

func TestStartMatch_TransportFailureIs502(t *testing.T) {
	srv := newTestServer(t, &stubEngine{startErr: errors.New("engine down")})

	resp := postJSON(t, srv.URL+"/matches", startBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// The failed session was dropped, so the same id can be retried.
	resp2, err := http.Get(srv.URL + "/matches/m-1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestStartMatch_MissingTeamsRejected(t *testing.T) {
	srv := newTestServer(t, &stubEngine{})

	resp := postJSON(t, srv.URL+"/matches", `{"match_id":"m-1"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContinue_OutsideHalfTimeIs409(t *testing.T) {
	srv := newTestServer(t, &stubEngine{startBody: ""})

	resp := postJSON(t, srv.URL+"/matches", startBody)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/matches/m-1/continue", `{"tactic":"counter-attack"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestForfeit_ReturnsForfeitedSnapshot(t *testing.T) {
	srv := newTestServer(t, &stubEngine{startBody: ""})

	resp := postJSON(t, srv.URL+"/matches", startBody)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/matches/m-1/forfeit", `{}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"phase":"forfeited"`)
	require.Contains(t, string(payload), `"winner":"away"`)
}

func TestGetMatch_UnknownIs404(t *testing.T) {
	srv := newTestServer(t, &stubEngine{})

	resp, err := http.Get(srv.URL + "/matches/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubEngine{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
