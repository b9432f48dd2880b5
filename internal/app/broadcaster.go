package app

import (
	"errors"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// MemberSource yields a snapshot of the connections joined to a room.
type MemberSource interface {
	Members(pid domain.ProjectID) []core.Connection
}

// Broadcaster fans an event out to every connection joined to a project room.
// Delivery is best effort and at most once per connection per call.
type Broadcaster struct {
	rooms  MemberSource
	policy Policy
}

func NewBroadcaster(rooms MemberSource, policy Policy) *Broadcaster {
	if policy == nil {
		policy = DropPolicy{}
	}
	return &Broadcaster{rooms: rooms, policy: policy}
}

// Broadcast delivers payload to the room of pid, skipping connections owned by
// exclude when it is non-empty. Failed sends never abort the fan-out.
func (b *Broadcaster) Broadcast(pid domain.ProjectID, t core.EventType, payload any, exclude domain.UserID) core.PublishResult {
	res := core.PublishResult{}
	frame, err := core.Encode(t, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("type", string(t)).Msg("encode event")
		return res
	}

	for _, conn := range b.rooms.Members(pid) {
		if exclude != "" && conn.Identity().ID == exclude {
			res.Skipped++
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, conn)
			if errors.Is(err, core.ErrBackpressure) {
				b.onBackPressure(pid, conn)
			}
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.broadcast").Str("project", string(pid)).Str("type", string(t)).
		Int("sent_to", res.SendTo).Int("skipped", res.Skipped).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (b *Broadcaster) onBackPressure(pid domain.ProjectID, conn core.Connection) {
	switch b.policy.OnBackPressure(pid, conn) {
	case KickMember:
		log.Warn().Str("module", "app.broadcast").Str("conn", string(conn.ID())).Msg("kicking slow connection")
		// Closing makes the read loop exit and run the normal disconnect cleanup.
		conn.Close()
	case DropFrame, NoAction:
	}
}
