package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchday/internal/wire"
)

func testTeam(name string) TeamSummary {
	return TeamSummary{
		Name:       name,
		Attributes: map[string]int{"passing": 80, "shooting": 75},
		Tactic:     "tiki-taka",
		Formation:  "4-3-3",
	}
}

func TestClient_StartMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/simulate_match", r.URL.Path)

		var req StartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "m-1", req.MatchID)
		require.Equal(t, "Ajax", req.UserTeamSummary.Name)
		require.Equal(t, "PSV", req.OpponentTeamSummary.Name)

		w.Write([]byte("{\"type\":\"minute_update\",\"minute\":1}\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	rc, err := c.StartMatch(context.Background(), StartRequest{
		MatchID:             "m-1",
		UserTeamSummary:     testTeam("Ajax"),
		OpponentTeamSummary: testTeam("PSV"),
	})
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Contains(t, string(body), "minute_update")
}

func TestClient_ContinueMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/continue_match", r.URL.Path)

		var req ContinuationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gegenpressing", req.HomeTactic)
		require.Equal(t, "4-4-2", req.Formation)
		require.Equal(t, wire.Score{Home: 1, Away: 0}, req.CurrentScore)

		w.Write([]byte("{\"type\":\"minute_update\",\"minute\":46}\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	rc, err := c.ContinueMatch(context.Background(), ContinuationRequest{
		MatchID:      "m-1",
		HomeTeamName: "Ajax",
		AwayTeamName: "PSV",
		HomeTactic:   "gegenpressing",
		AwayTactic:   "tiki-taka",
		Formation:    "4-4-2",
		CurrentScore: wire.Score{Home: 1, Away: 0},
	})
	require.NoError(t, err)
	rc.Close()
}

func TestClient_NonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	_, err := c.StartMatch(context.Background(), StartRequest{MatchID: "m-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestClient_TransportFailureSurfaces(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
	_, err := c.StartMatch(context.Background(), StartRequest{MatchID: "m-1"})
	require.Error(t, err)
}
