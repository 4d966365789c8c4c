package playback

import (
	"errors"

	"matchday/internal/wire"
)

var ErrEmpty = errors.New("queue empty")

// Queue is an unbounded FIFO of decoded envelopes awaiting display. It
// decouples arrival rate from display rate; the server's own pacing (about
// one frame per simulated minute) is the only bound it needs. Envelopes are
// trusted to arrive in causal order, so there is no reordering or dedup.
type Queue struct {
	items []wire.Envelope
}

func (q *Queue) Enqueue(env wire.Envelope) {
	q.items = append(q.items, env)
}

func (q *Queue) Dequeue() (wire.Envelope, error) {
	if len(q.items) == 0 {
		return wire.Envelope{}, ErrEmpty
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, nil
}

func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) Clear() {
	q.items = nil
}
