package playback

import (
	"errors"
	"testing"

	"matchday/internal/wire"
)

func TestQueue_FIFO(t *testing.T) {
	var q Queue

	for m := 1; m <= 3; m++ {
		q.Enqueue(wire.Envelope{Minute: m})
	}
	if q.Len() != 3 {
		t.Fatalf("want len 3, got %d", q.Len())
	}

	for m := 1; m <= 3; m++ {
		env, err := q.Dequeue()
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if env.Minute != m {
			t.Fatalf("want minute %d, got %d", m, env.Minute)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}

func TestQueue_ClearDropsEverything(t *testing.T) {
	var q Queue
	q.Enqueue(wire.Envelope{Minute: 1})
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("want empty queue after clear, got %d", q.Len())
	}
}
