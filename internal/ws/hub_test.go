package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func testClient(h *Hub, identityID int64) *Client {
	return &Client{
		hub:        h,
		identityID: identityID,
		send:       make(chan Event, sendBuffer),
		logger:     h.logger,
	}
}

func TestNotifyReachesOnlyTheOwningIdentity(t *testing.T) {
	hub := NewHub(zap.NewNop())

	mine := testClient(hub, 1)
	theirs := testClient(hub, 2)
	hub.register(mine)
	hub.register(theirs)

	hub.Notify(1, "quotation_status", map[string]string{"status": "accepted"})

	select {
	case event := <-mine.send:
		assert.Equal(t, "quotation_status", event.Type)
		assert.False(t, event.SentAt.IsZero())
	default:
		t.Fatal("expected an event for identity 1")
	}

	select {
	case <-theirs.send:
		t.Fatal("identity 2 must not receive identity 1's events")
	default:
	}
}

func TestNotifyUnconnectedIdentityIsSilent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Notify(42, "quotation_status", nil)
	assert.Zero(t, hub.ConnectedCount(42))
}

func TestConnectedCountTracksRegistration(t *testing.T) {
	hub := NewHub(zap.NewNop())

	first := testClient(hub, 1)
	second := testClient(hub, 1)
	hub.register(first)
	hub.register(second)
	require.Equal(t, 2, hub.ConnectedCount(1))

	hub.unregister(first)
	assert.Equal(t, 1, hub.ConnectedCount(1))

	hub.unregister(second)
	assert.Zero(t, hub.ConnectedCount(1))

	// unregistering twice is harmless
	hub.unregister(second)
	assert.Zero(t, hub.ConnectedCount(1))
}
