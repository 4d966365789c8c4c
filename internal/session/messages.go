package session

import (
	"matchday/internal/playback"
	"matchday/internal/wire"
)

type Msg interface{ isSessionMsg() }

// Start acquires the first-half stream. On failure the session stays in
// Warmup and the error goes back on Reply.
type Start struct {
	Reply chan error
}

// Continue resumes after half-time. Empty Tactic/Formation fall back to the
// team's standing values.
type Continue struct {
	Tactic    string
	Formation string
	Reply     chan error
}

// Forfeit abandons the match; the opposing side is awarded the win.
type Forfeit struct{}

type SetAudio struct {
	Enabled bool
}

// Join registers a subscriber. The outbox immediately receives a snapshot
// frame, then one frame per display event or phase change.
type Join struct {
	ClientID string
	Outbox   chan Frame
}

type Leave struct {
	ClientID string
}

type GetState struct {
	Reply chan Snapshot
}

type Shutdown struct{}

// internal messages from the pump and gate goroutines; gen ties them to a
// pipeline generation so stale ones are dropped after a reattach.
type envelopeMsg struct {
	gen int
	env wire.Envelope
}

type streamClosedMsg struct {
	gen int
}

type playbackDoneMsg struct {
	gen int
}

func (Start) isSessionMsg()           {}
func (Continue) isSessionMsg()        {}
func (Forfeit) isSessionMsg()         {}
func (SetAudio) isSessionMsg()        {}
func (Join) isSessionMsg()            {}
func (Leave) isSessionMsg()           {}
func (GetState) isSessionMsg()        {}
func (Shutdown) isSessionMsg()        {}
func (envelopeMsg) isSessionMsg()     {}
func (streamClosedMsg) isSessionMsg() {}
func (playbackDoneMsg) isSessionMsg() {}

// Phase is the session's coarse lifecycle state.
type Phase string

const (
	PhaseWarmup    Phase = "warmup"
	PhaseLive      Phase = "live"
	PhaseHalfTime  Phase = "half_time"
	PhaseFullTime  Phase = "full_time"
	PhaseForfeited Phase = "forfeited"
)

func (p Phase) Terminal() bool {
	return p == PhaseFullTime || p == PhaseForfeited
}

// Frame is one message on a subscriber's outbox.
type Frame struct {
	Type     string                 `json:"type"` // "snapshot" | "event" | "phase"
	Snapshot *Snapshot              `json:"snapshot,omitempty"`
	Event    *playback.DisplayEvent `json:"event,omitempty"`
	Phase    Phase                  `json:"phase,omitempty"`
}

// Snapshot is the session's full observable state at one point in time.
type Snapshot struct {
	MatchID      string                  `json:"match_id"`
	Phase        Phase                   `json:"phase"`
	Minute       int                     `json:"minute"`
	Score        wire.Score              `json:"score"`
	Stats        wire.Stats              `json:"stats"`
	Winner       string                  `json:"winner,omitempty"`
	AudioEnabled bool                    `json:"audio_enabled"`
	Events       []playback.DisplayEvent `json:"events"`
}
