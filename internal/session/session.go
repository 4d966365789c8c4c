// Package session owns one live match: the phase state machine, the visible
// score/stat state, and the stream pipeline feeding it. Everything runs on a
// single actor loop; collaborators talk to it through the inbox.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchday/internal/engine"
	"matchday/internal/playback"
	"matchday/internal/wire"
)

var ErrNotHalfTime = errors.New("match is not at half-time")
var ErrAlreadyStarted = errors.New("match already started")

// Params is the per-match identity a session is created with.
type Params struct {
	MatchID      string
	Home         engine.TeamSummary
	Away         engine.TeamSummary
	AudioEnabled bool
}

// Deps are the collaborators shared across sessions.
type Deps struct {
	Engine     engine.Streamer
	Player     playback.Player
	AudioBase  string
	EventDelay time.Duration
	Logger     *zap.Logger
}

type Session struct {
	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger

	eng    engine.Streamer
	player playback.Player
	parser *wire.Parser
	delay  time.Duration

	matchID string
	home    engine.TeamSummary
	away    engine.TeamSummary

	phase        Phase
	minute       int
	score        wire.Score
	stats        wire.Stats
	winner       string
	audioEnabled bool
	events       []playback.DisplayEvent
	clients      map[string]chan Frame

	// pipeline state. gen counts reattachments; messages stamped with an
	// older gen come from a retired stream or gate and are dropped.
	sync       *playback.Synchronizer
	gen        int
	stream     io.ReadCloser
	playCancel context.CancelFunc
}

func New(parent context.Context, p Params, d Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	log := d.Logger.With(zap.String("match_id", p.MatchID))

	s := &Session{
		inbox:        make(chan Msg, 64),
		ctx:          ctx,
		cancel:       cancel,
		log:          log,
		eng:          d.Engine,
		player:       d.Player,
		parser:       wire.NewParser(d.AudioBase, log.Named("parser")),
		delay:        d.EventDelay,
		matchID:      p.MatchID,
		home:         p.Home,
		away:         p.Away,
		phase:        PhaseWarmup,
		audioEnabled: p.AudioEnabled,
		clients:      make(map[string]chan Frame),
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) MatchID() string { return s.matchID }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Start:
				msg.Reply <- s.handleStart()

			case Continue:
				msg.Reply <- s.handleContinue(msg)

			case Forfeit:
				s.handleForfeit()

			case SetAudio:
				s.audioEnabled = msg.Enabled
				if s.sync != nil {
					s.sync.SetAudioEnabled(msg.Enabled)
				}

			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				snap := s.snapshot()
				msg.Outbox <- Frame{Type: "snapshot", Snapshot: &snap}

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
				}

			case GetState:
				msg.Reply <- s.snapshot()

			case envelopeMsg:
				if msg.gen == s.gen && s.sync != nil {
					s.sync.Enqueue(msg.env)
				}

			case playbackDoneMsg:
				if msg.gen == s.gen && s.sync != nil {
					s.sync.PlaybackFinished()
				}

			case streamClosedMsg:
				if msg.gen == s.gen {
					s.log.Info("engine stream ended", zap.Int("gen", msg.gen))
					s.closeStream()
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleStart() error {
	if s.phase != PhaseWarmup {
		return fmt.Errorf("%w: phase %s", ErrAlreadyStarted, s.phase)
	}

	rc, err := s.eng.StartMatch(s.ctx, engine.StartRequest{
		MatchID:             s.matchID,
		UserTeamSummary:     s.home,
		OpponentTeamSummary: s.away,
	})
	if err != nil {
		// Stay in Warmup; the caller decides what to show.
		return fmt.Errorf("start match: %w", err)
	}

	s.setPhase(PhaseLive)
	s.attach(rc)
	return nil
}

func (s *Session) handleContinue(msg Continue) error {
	if s.phase != PhaseHalfTime {
		return ErrNotHalfTime
	}

	// Overrides fall back to the standing tactic/formation.
	home := s.home
	if msg.Tactic != "" {
		home.Tactic = msg.Tactic
	}
	if msg.Formation != "" {
		home.Formation = msg.Formation
	}

	rc, err := s.eng.ContinueMatch(s.ctx, engine.ContinuationRequest{
		MatchID:      s.matchID,
		HomeTeamName: home.Name,
		AwayTeamName: s.away.Name,
		HomeAttrs:    home.Attributes,
		AwayAttrs:    s.away.Attributes,
		HomeTactic:   home.Tactic,
		AwayTactic:   s.away.Tactic,
		Formation:    home.Formation,
		CurrentScore: s.score,
		CurrentStats: s.stats,
	})
	if err != nil {
		// Remain at half-time; the override is not applied.
		return fmt.Errorf("continue match: %w", err)
	}

	s.home = home
	s.retirePipeline()
	s.closeStream()
	s.setPhase(PhaseLive)
	s.attach(rc)
	return nil
}

func (s *Session) handleForfeit() {
	if s.phase.Terminal() {
		return
	}

	s.retirePipeline()
	s.closeStream()

	s.winner = string(wire.SideAway)
	ev := playback.DisplayEvent{
		ID:          uuid.NewString(),
		Kind:        wire.KindForfeit,
		Team:        wire.SideInfo,
		Description: fmt.Sprintf("%s forfeit the match. %s are awarded the win.", s.home.Name, s.away.Name),
		Minute:      s.minute,
	}
	s.events = append(s.events, ev)
	s.broadcast(Frame{Type: "event", Event: &ev})
	s.setPhase(PhaseForfeited)
}

// attach wires a fresh decoder/parser/queue/synchronizer pipeline onto a
// newly opened stream.
func (s *Session) attach(rc io.ReadCloser) {
	s.gen++
	gen := s.gen
	s.stream = rc

	s.sync = playback.NewSynchronizer(playback.Hooks{
		Apply:         s.applyState,
		Emit:          s.emitEvent,
		StartPlayback: func(url string) { s.startPlayback(gen, url) },
		StartDelay:    func() { s.startDelay(gen) },
		FullTime:      s.onFullTime,
	}, s.audioEnabled)

	go s.pump(gen, rc)
}

// pump reads raw chunks off the stream and feeds decoded envelopes into the
// inbox. It never waits on audio; the queue absorbs the difference between
// arrival rate and display rate.
func (s *Session) pump(gen int, rc io.ReadCloser) {
	var dec wire.Decoder
	buf := make([]byte, 4096)

	for {
		n, err := rc.Read(buf)
		if n > 0 {
			for _, line := range dec.Feed(buf[:n]) {
				for _, env := range s.parser.ParseLine(line) {
					if !s.send(envelopeMsg{gen: gen, env: env}) {
						return
					}
				}
			}
		}
		if err != nil {
			if tail, dropped := dec.Flush(); dropped {
				s.log.Warn("discarding unterminated trailing frame", zap.String("tail", tail))
			}
			if !errors.Is(err, io.EOF) {
				s.log.Warn("stream read ended", zap.Error(err))
			}
			s.send(streamClosedMsg{gen: gen})
			return
		}
	}
}

func (s *Session) send(m Msg) bool {
	select {
	case s.inbox <- m:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session) applyState(minute int, score *wire.Score, stats *wire.Stats) {
	if minute > 0 {
		s.minute = minute
	}
	if score != nil {
		s.score = *score
	}
	if stats != nil {
		s.stats = *stats
	}
}

func (s *Session) emitEvent(ev playback.DisplayEvent) {
	s.events = append(s.events, ev)
	s.broadcast(Frame{Type: "event", Event: &ev})

	if ev.Kind == wire.KindHalfTime && s.phase == PhaseLive {
		// First-half stream ends shortly after the whistle; hold the drain
		// until the caller continues with their tactic choice.
		s.sync.Suspend()
		s.setPhase(PhaseHalfTime)
	}
}

func (s *Session) onFullTime() {
	if s.phase != PhaseLive {
		return
	}
	s.winner = winnerFromScore(s.score)
	s.setPhase(PhaseFullTime)
	s.closeStream()
}

func (s *Session) startPlayback(gen int, url string) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.playCancel = cancel
	go func() {
		defer cancel()
		if err := s.player.Play(ctx, url); err != nil {
			// Treated as immediate completion; pacing must never stall on a
			// bad clip.
			s.log.Warn("audio playback failed", zap.String("url", url), zap.Error(err))
		}
		s.send(playbackDoneMsg{gen: gen})
	}()
}

func (s *Session) startDelay(gen int) {
	d := s.delay
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
		}
		s.send(playbackDoneMsg{gen: gen})
	}()
}

func (s *Session) setPhase(ph Phase) {
	s.phase = ph
	s.log.Info("phase transition", zap.String("phase", string(ph)))
	s.broadcast(Frame{Type: "phase", Phase: ph})
}

// retirePipeline makes the current synchronizer inert and stops any
// in-flight audio. Stale pump/gate messages are fenced off by gen.
func (s *Session) retirePipeline() {
	if s.sync != nil {
		s.sync.Cancel()
	}
	if s.playCancel != nil {
		s.playCancel()
		s.playCancel = nil
	}
}

func (s *Session) closeStream() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
}

func (s *Session) shutdown() {
	s.retirePipeline()
	s.closeStream()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) broadcast(f Frame) {
	for id, ch := range s.clients {
		select {
		case ch <- f:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) snapshot() Snapshot {
	events := make([]playback.DisplayEvent, len(s.events))
	copy(events, s.events)
	return Snapshot{
		MatchID:      s.matchID,
		Phase:        s.phase,
		Minute:       s.minute,
		Score:        s.score,
		Stats:        s.stats,
		Winner:       s.winner,
		AudioEnabled: s.audioEnabled,
		Events:       events,
	}
}

func winnerFromScore(sc wire.Score) string {
	switch {
	case sc.Home > sc.Away:
		return string(wire.SideHome)
	case sc.Away > sc.Home:
		return string(wire.SideAway)
	default:
		return "draw"
	}
}
