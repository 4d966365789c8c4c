package hub

import (
	"context"

	"matchday/internal/session"
)

type HubMsg interface{ isHubMsg() }

// EnsureSession creates the session for this match id if it does not exist
// yet and replies with it either way.
type EnsureSession struct {
	Params session.Params
	Reply  chan *session.Session
}

type GetSession struct {
	MatchID string
	Reply   chan *session.Session
}

type RemoveSession struct {
	MatchID string
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Factory builds a session; the hub stays ignorant of engine/player wiring.
type Factory func(ctx context.Context, p session.Params) *session.Session

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	factory  Factory
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, factory Factory) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		factory:  factory,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if s := h.sessions[msg.Params.MatchID]; s != nil {
					msg.Reply <- s
					break
				}
				s := h.factory(h.ctx, msg.Params)
				h.sessions[msg.Params.MatchID] = s
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.MatchID] // May be nil

			case RemoveSession:
				if s := h.sessions[msg.MatchID]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.MatchID)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
		delete(h.sessions, id)
	}
	h.cancel()
}
