package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"matchday/internal/engine"
	"matchday/internal/hub"
	"matchday/internal/session"
)

type startMatchRequest struct {
	MatchID      string             `json:"match_id"`
	HomeTeam     engine.TeamSummary `json:"home_team"`
	AwayTeam     engine.TeamSummary `json:"away_team"`
	AudioEnabled bool               `json:"audio_enabled"`
}

type continueRequest struct {
	Tactic    string `json:"tactic"`
	Formation string `json:"formation"`
}

type setAudioRequest struct {
	Enabled bool `json:"enabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func StartMatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		if req.HomeTeam.Name == "" || req.AwayTeam.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "both team names are required"})
			return
		}
		if req.MatchID == "" {
			req.MatchID = uuid.NewString()
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{
			Params: session.Params{
				MatchID:      req.MatchID,
				Home:         req.HomeTeam,
				Away:         req.AwayTeam,
				AudioEnabled: req.AudioEnabled,
			},
			Reply: reply,
		}
		sess := <-reply

		errReply := make(chan error, 1)
		sess.Inbox() <- session.Start{Reply: errReply}
		if err := <-errReply; err != nil {
			if errors.Is(err, session.ErrAlreadyStarted) {
				writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
				return
			}
			// Transport failure: drop the warmup session so the id can be
			// retried.
			h.Inbox() <- hub.RemoveSession{MatchID: req.MatchID}
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusCreated, getSnapshot(sess))
	}
}

func GetMatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := lookup(h, r)
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "match not found"})
			return
		}
		writeJSON(w, http.StatusOK, getSnapshot(sess))
	}
}

func ContinueMatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := lookup(h, r)
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "match not found"})
			return
		}

		var req continueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}

		reply := make(chan error, 1)
		sess.Inbox() <- session.Continue{Tactic: req.Tactic, Formation: req.Formation, Reply: reply}
		if err := <-reply; err != nil {
			if errors.Is(err, session.ErrNotHalfTime) {
				writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, getSnapshot(sess))
	}
}

func ForfeitMatch(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := lookup(h, r)
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "match not found"})
			return
		}
		sess.Inbox() <- session.Forfeit{}
		writeJSON(w, http.StatusOK, getSnapshot(sess))
	}
}

func SetAudio(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := lookup(h, r)
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "match not found"})
			return
		}

		var req setAudioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
			return
		}
		sess.Inbox() <- session.SetAudio{Enabled: req.Enabled}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookup(h *hub.Hub, r *http.Request) *session.Session {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{MatchID: chi.URLParam(r, "id"), Reply: reply}
	return <-reply
}

func getSnapshot(sess *session.Session) session.Snapshot {
	reply := make(chan session.Snapshot, 1)
	sess.Inbox() <- session.GetState{Reply: reply}
	return <-reply
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
