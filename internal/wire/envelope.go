package wire

// Side identifies which team an event or stat line belongs to. The engine
// also emits "info" for neutral markers like half-time.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideInfo Side = "info"
)

// Kind is the event discriminant as it appears on the wire.
type Kind string

const (
	KindGoal         Kind = "goal"
	KindYellowCard   Kind = "yellow_card"
	KindRedCard      Kind = "red_card"
	KindSubstitution Kind = "substitution"
	KindShot         Kind = "shot"
	KindHalfTime     Kind = "half-time"
	KindFullTime     Kind = "full-time"
	KindInfo         Kind = "info"
	// KindForfeit never comes off the wire; the session synthesizes it.
	KindForfeit Kind = "forfeit"
)

// Displayable reports whether an event of this kind is surfaced to the UI.
// Shots only move the stat counters, they have no narrative value.
func (k Kind) Displayable() bool {
	return k != KindShot
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// SideStats is one team's running stat snapshot. Field set follows the
// engine's stat block; cards ride along so a snapshot is self-contained.
type SideStats struct {
	Possession    float64 `json:"possession"`
	Shots         int     `json:"shots"`
	ShotsOnTarget int     `json:"shotsOnTarget"`
	Fouls         int     `json:"fouls"`
	Corners       int     `json:"corners"`
	YellowCards   int     `json:"yellowCards"`
	RedCards      int     `json:"redCards"`
}

type Stats struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
}

// Event is the displayable payload of an event envelope.
type Event struct {
	Kind        Kind
	Team        Side
	Description string
	AudioURL    string
}

// Envelope is one decoded protocol message. Minute updates carry no Event;
// everything else carries exactly one. Score and Stats are pointers because
// older engine builds omit them on minute updates.
type Envelope struct {
	Minute int
	Score  *Score
	Stats  *Stats
	Event  *Event
}

// IsMinuteUpdate reports whether this envelope is a silent state advance.
func (e Envelope) IsMinuteUpdate() bool {
	return e.Event == nil
}
