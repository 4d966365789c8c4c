package playback

import (
	"context"

	"github.com/google/uuid"

	"matchday/internal/wire"
)

// Player renders one audio clip and returns when playback completes or
// fails. Implementations must respect ctx cancellation.
type Player interface {
	Play(ctx context.Context, url string) error
}

// DisplayEvent is the UI-facing projection of a displayable envelope.
type DisplayEvent struct {
	ID          string    `json:"id"`
	Kind        wire.Kind `json:"kind"`
	Team        wire.Side `json:"team"`
	Description string    `json:"description"`
	Minute      int       `json:"minute"`
	AudioURL    string    `json:"audio_url,omitempty"`
}

// Hooks connect a Synchronizer to its owning session. All hooks are invoked
// from whatever goroutine calls the Synchronizer's methods; the owner is
// expected to serialize those calls (the session actor loop does).
//
// StartPlayback and StartDelay begin an asynchronous gate; the owner must
// eventually call PlaybackFinished once the gate completes, or the drain
// stalls.
type Hooks struct {
	// Apply flushes buffered minute/score/stats into the visible session
	// state. Score/stats may be nil when the buffered frames omitted them.
	Apply func(minute int, score *wire.Score, stats *wire.Stats)

	// Emit surfaces one display-ready event.
	Emit func(ev DisplayEvent)

	// StartPlayback begins audio for the just-emitted event.
	StartPlayback func(url string)

	// StartDelay begins the minimum pacing delay for events with no audio.
	StartDelay func()

	// FullTime is invoked exactly once when a full-time event is emitted.
	FullTime func()
}

// pendingState buffers the latest minute/score/stats seen in silent frames.
// Applying those deltas immediately would make the scoreboard lead the
// narrative events still waiting in the queue, so they are held back and
// flushed exactly when the next displayable event is shown.
type pendingState struct {
	minute int
	score  *wire.Score
	stats  *wire.Stats
}

// Synchronizer drains the queue one envelope at a time, gating advancement
// on audio completion (or a pacing delay) so events surface at a human pace
// no matter how fast the network delivers them.
//
// Not goroutine-safe. The owning session drives it from a single loop.
type Synchronizer struct {
	queue     Queue
	hooks     Hooks
	pending   *pendingState
	playing   bool
	paused    bool
	suspended bool
	cancelled bool
	fullTimed bool
	audio     bool
}

func NewSynchronizer(hooks Hooks, audioEnabled bool) *Synchronizer {
	return &Synchronizer{hooks: hooks, audio: audioEnabled}
}

func (s *Synchronizer) SetAudioEnabled(on bool) {
	s.audio = on
}

// Paused reports whether visible-state application is in progress. Upstream
// producers may consult it; network reading itself is never blocked on it.
func (s *Synchronizer) Paused() bool {
	return s.paused
}

// Enqueue buffers one envelope and kicks the drain if nothing is in flight.
func (s *Synchronizer) Enqueue(env wire.Envelope) {
	if s.cancelled {
		return
	}
	s.queue.Enqueue(env)
	s.ProcessNext()
}

// ProcessNext advances the drain by at most one displayable event. No-op
// while an earlier event is still gating, while draining is suspended at
// half-time, or when the queue is empty.
func (s *Synchronizer) ProcessNext() {
	for {
		if s.cancelled || s.suspended || s.playing || s.queue.Len() == 0 {
			return
		}

		s.playing = true
		s.paused = true

		env, err := s.queue.Dequeue()
		if err != nil {
			s.playing = false
			s.paused = false
			return
		}

		// Silent frames: minute updates and stat-only kinds merge into the
		// pending buffer and never gate on audio. Loop straight to the next
		// queued envelope.
		if env.IsMinuteUpdate() || !env.Event.Kind.Displayable() {
			s.merge(env)
			s.playing = false
			s.paused = false
			continue
		}

		// Displayable: flush everything buffered plus this envelope's own
		// state in one atomic Apply, then surface the event.
		s.merge(env)
		s.flushPending()

		ev := DisplayEvent{
			ID:          uuid.NewString(),
			Kind:        env.Event.Kind,
			Team:        env.Event.Team,
			Description: env.Event.Description,
			Minute:      env.Minute,
			AudioURL:    env.Event.AudioURL,
		}
		s.hooks.Emit(ev)

		if env.Event.Kind == wire.KindFullTime && !s.fullTimed {
			s.fullTimed = true
			s.hooks.FullTime()
		}

		if s.audio && ev.AudioURL != "" {
			s.hooks.StartPlayback(ev.AudioURL)
		} else {
			s.hooks.StartDelay()
		}
		return
	}
}

// PlaybackFinished releases the single-flight guard once the gating audio
// clip or pacing delay completes, then resumes draining. Playback errors
// route here too; a failed clip must never stall the pipeline.
func (s *Synchronizer) PlaybackFinished() {
	if s.cancelled {
		return
	}
	s.playing = false
	s.paused = false
	s.ProcessNext()
}

// Suspend halts automatic draining. Used at half-time: the first-half stream
// is expected to end shortly after, and the second half gets a fresh
// pipeline.
func (s *Synchronizer) Suspend() {
	s.suspended = true
}

// Cancel makes the synchronizer inert: the queue and pending buffer are
// dropped and every later call becomes a no-op. Nothing is emitted after
// cancellation.
func (s *Synchronizer) Cancel() {
	s.cancelled = true
	s.queue.Clear()
	s.pending = nil
}

func (s *Synchronizer) merge(env wire.Envelope) {
	if s.pending == nil {
		s.pending = &pendingState{}
	}
	if env.Minute > 0 {
		s.pending.minute = env.Minute
	}
	if env.Score != nil {
		s.pending.score = env.Score
	}
	if env.Stats != nil {
		s.pending.stats = env.Stats
	}
}

func (s *Synchronizer) flushPending() {
	if s.pending == nil {
		return
	}
	s.hooks.Apply(s.pending.minute, s.pending.score, s.pending.stats)
	s.pending = nil
}
