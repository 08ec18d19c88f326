package hub

import (
	"encoding/json"

	"github.com/banterhq/banter/pkg/log"
)

// Publisher fans an event out to every live connection in a room. It bridges
// the synchronous request/response path that just persisted a message into
// the asynchronous connection world: Publish snapshots the member set, hands
// each member its frame without blocking, and returns. Delivery is
// best-effort relative to the already-durable message; per-member failures
// are logged and swallowed, never retried and never surfaced to the caller.
type Publisher struct {
	hub *Hub
}

// NewPublisher creates a Publisher over the given hub.
func NewPublisher(h *Hub) *Publisher {
	return &Publisher{hub: h}
}

// Publish delivers event to every current member of room. Exactly one
// delivery attempt is made per member, independent of failures on the
// others. A room with no members is a no-op.
func (p *Publisher) Publish(room string, event interface{}) {
	l := log.L()

	frame, err := json.Marshal(event)
	if err != nil {
		l.Error().Err(err).Str(log.FieldRoom, room).Msg("failed to marshal room event")
		return
	}

	members := p.hub.Members(room)
	delivered := 0
	for _, c := range members {
		if err := c.Enqueue(frame); err != nil {
			l.Debug().Err(err).
				Str(log.FieldRoom, room).
				Str(log.FieldClientID, c.ID).
				Msg("dropped delivery")
			continue
		}
		delivered++
	}

	l.Debug().
		Str(log.FieldRoom, room).
		Int("members", len(members)).
		Int("delivered", delivered).
		Msg("published room event")
}
