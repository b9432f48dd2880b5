package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/dkeye/projectchat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceFixture struct {
	presence *Presence
	typist   *domain.Identity
	self     *testutil.FakeConn
	peer     *testutil.FakeConn
}

func newPresenceFixture(t *testing.T, timeout time.Duration) *presenceFixture {
	t.Helper()
	rooms := NewRoomManager()
	p := NewPresence(NewBroadcaster(rooms, nil), timeout)
	t.Cleanup(p.Close)

	typist := testutil.User("typist")
	f := &presenceFixture{
		presence: p,
		typist:   typist,
		self:     testutil.NewFakeConn("self", typist),
		peer:     testutil.NewFakeConn("peer", testutil.User("peer")),
	}
	rooms.Join(f.self, "P")
	rooms.Join(f.peer, "P")
	return f
}

func TestPresence_TypingBroadcastsOnceToPeers(t *testing.T) {
	f := newPresenceFixture(t, time.Minute)

	assert.True(t, f.presence.Typing(f.typist, "P"))
	assert.False(t, f.presence.Typing(f.typist, "P"), "refresh does not re-broadcast")
	assert.False(t, f.presence.Typing(f.typist, "P"))

	assert.Equal(t, 1, f.peer.Count(core.EventUserTyping))
	assert.Empty(t, f.self.Events(), "typist does not see its own indicator")

	events := f.peer.Events()
	require.Len(t, events, 1)
	var payload core.TypingPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, f.typist.ID, payload.UserID)
	assert.Equal(t, f.typist.Username, payload.UserName)
	assert.Equal(t, domain.ProjectID("P"), payload.ProjectID)
}

func TestPresence_AutoExpiryExactlyOnce(t *testing.T) {
	const timeout = 50 * time.Millisecond
	f := newPresenceFixture(t, timeout)

	f.presence.Typing(f.typist, "P")

	assert.Eventually(t, func() bool {
		return f.peer.Count(core.EventUserStopTyping) == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, f.presence.IsTyping(f.typist.ID, "P"))

	time.Sleep(3 * timeout)
	assert.Equal(t, 1, f.peer.Count(core.EventUserStopTyping))
}

func TestPresence_RefreshPostponesExpiry(t *testing.T) {
	const timeout = 200 * time.Millisecond
	f := newPresenceFixture(t, timeout)

	f.presence.Typing(f.typist, "P")
	time.Sleep(120 * time.Millisecond)
	f.presence.Typing(f.typist, "P")
	time.Sleep(120 * time.Millisecond)

	assert.True(t, f.presence.IsTyping(f.typist.ID, "P"))
	assert.Zero(t, f.peer.Count(core.EventUserStopTyping))

	assert.Eventually(t, func() bool {
		return f.peer.Count(core.EventUserStopTyping) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPresence_ExplicitStopCancelsTimer(t *testing.T) {
	const timeout = 50 * time.Millisecond
	f := newPresenceFixture(t, timeout)

	f.presence.Typing(f.typist, "P")
	assert.True(t, f.presence.StopTyping(f.typist.ID, "P"))
	assert.False(t, f.presence.StopTyping(f.typist.ID, "P"), "already idle")

	time.Sleep(3 * timeout)
	assert.Equal(t, 1, f.peer.Count(core.EventUserStopTyping))
}

func TestPresence_StopWhenIdleIsSilent(t *testing.T) {
	f := newPresenceFixture(t, time.Minute)
	assert.False(t, f.presence.StopTyping(f.typist.ID, "P"))
	assert.Empty(t, f.peer.Events())
}

func TestPresence_ClearUser(t *testing.T) {
	f := newPresenceFixture(t, time.Minute)
	f.presence.Typing(f.typist, "P")
	f.presence.Typing(f.typist, "Q")
	other := testutil.User("other")
	f.presence.Typing(other, "P")

	cleared := f.presence.ClearUser(f.typist.ID, func(pid domain.ProjectID) bool { return pid == "Q" })
	assert.Equal(t, []domain.ProjectID{"Q"}, cleared)
	assert.True(t, f.presence.IsTyping(f.typist.ID, "P"))

	cleared = f.presence.ClearUser(f.typist.ID, nil)
	assert.Equal(t, []domain.ProjectID{"P"}, cleared)
	assert.False(t, f.presence.IsTyping(f.typist.ID, "P"))
	assert.True(t, f.presence.IsTyping(other.ID, "P"))
	assert.Equal(t, 1, f.peer.Count(core.EventUserStopTyping), "only P has peers")
}
