package network

import (
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch chan api.ServerMessage) []api.ServerMessage {
	var out []api.ServerMessage
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestBroadcaster_PublishToSessionMembers(t *testing.T) {
	b := NewBroadcaster()
	alice := b.Register("alice")
	bob := b.Register("bob")
	carol := b.Register("carol")

	b.JoinSession("s1", "alice")
	b.JoinSession("s1", "bob")
	b.JoinSession("s2", "carol")

	b.Publish("s1", domain.NewEvent(domain.EventMoved, domain.MovedPayload{EntityID: "e1"}))

	for name, ch := range map[string]chan api.ServerMessage{"alice": alice, "bob": bob} {
		msgs := drain(ch)
		require.Len(t, msgs, 1, name)
		assert.Equal(t, string(domain.EventMoved), msgs[0].Type)
	}
	assert.Empty(t, drain(carol))
}

func TestBroadcaster_NotifyUser(t *testing.T) {
	b := NewBroadcaster()
	alice := b.Register("alice")
	bob := b.Register("bob")

	b.NotifyUser("alice", domain.NewEvent(domain.EventTeamInvite, domain.TeamInvitePayload{TeamID: "t"}))
	b.NotifyUser("nobody", domain.NewEvent(domain.EventTeamInvite, nil))

	require.Len(t, drain(alice), 1)
	assert.Empty(t, drain(bob))
}

func TestBroadcaster_ReconnectKeepsNewChannel(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("alice")
	b.JoinSession("s1", "alice")

	fresh := b.Register("alice")
	_, open := <-old
	assert.False(t, open, "old channel must be closed")

	// Позднее закрытие старого соединения не должно снять новую подписку
	b.Unregister("alice", old)
	assert.True(t, b.HasSubscriber("alice"))

	b.Publish("s1", domain.NewEvent(domain.EventMoved, nil))
	assert.Len(t, drain(fresh), 1)

	b.Unregister("alice", fresh)
	assert.False(t, b.HasSubscriber("alice"))
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBroadcaster_SlowClientDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("alice")
	b.JoinSession("s1", "alice")

	for i := 0; i < SendBufferSize+10; i++ {
		b.Publish("s1", domain.NewEvent(domain.EventMoved, i))
	}
	assert.Len(t, drain(ch), SendBufferSize)
}

func TestBroadcaster_LeaveSession(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("alice")
	b.JoinSession("s1", "alice")
	b.LeaveSession("s1", "alice")

	b.Publish("s1", domain.NewEvent(domain.EventMoved, nil))
	assert.Empty(t, drain(ch))
}
