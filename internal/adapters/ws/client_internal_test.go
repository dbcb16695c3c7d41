package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
)

type acceptAll struct{}

func (acceptAll) Dispatch(context.Context, engine.Action) engine.Result { return engine.Result{} }

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(acceptAll{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub, cancel
}

func TestClient_RepliesAfterSlowConsumerDropDoNotPanic(t *testing.T) {
	// Arrange
	hub, _ := runHub(t)
	client := newClient(hub, nil, "slow")
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// nothing drains send, so the hub drops the client once the buffer is full
	for i := 0; i <= cap(client.send); i++ {
		hub.broadcast <- []byte(`{"type":"state"}`)
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// Act / Assert
	assert.NotPanics(t, func() { client.handle(context.Background(), []byte("not json")) })
	select {
	case <-client.stopped:
	default:
		t.Fatal("dropped client was not stopped")
	}
}

func TestClient_RepliesAfterHubShutdownDoNotPanic(t *testing.T) {
	// Arrange
	hub, cancel := runHub(t)
	client := newClient(hub, nil, "late")
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// Act
	cancel()
	<-hub.done

	// Assert
	assert.NotPanics(t, func() {
		client.handle(context.Background(), []byte("not json"))
		client.handle(context.Background(), []byte(`{"type":"TICK","payload":{}}`))
	})
	assert.Zero(t, hub.ClientCount())
}

func TestClient_StopIsIdempotent(t *testing.T) {
	hub, _ := runHub(t)
	client := newClient(hub, nil, "twice")

	client.stop()

	assert.NotPanics(t, client.stop)
}
