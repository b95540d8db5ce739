package main

import (
	"sync"
	"testing"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/stretchr/testify/require"
)

func event(id string) *v1.MessageEvent {
	return &v1.MessageEvent{Message: &v1.Message{Id: id}}
}

// drain returns the ids queued on q without blocking.
func drain(q <-chan *v1.MessageEvent) []string {
	var ids []string
	for {
		select {
		case ev, ok := <-q:
			if !ok {
				return ids
			}
			ids = append(ids, ev.Message.Id)
		default:
			return ids
		}
	}
}

func TestConnectionHub_RegisterAndSend(t *testing.T) {
	req := require.New(t)
	hub := NewConnectionHub()

	idA, qA := hub.Register("alice")
	_, qB := hub.Register("alice") // second connection
	req.Equal(2, hub.Connected("alice"))

	req.NoError(hub.SendToUser("alice", event("m1")))
	req.Equal([]string{"m1"}, drain(qA))
	req.Equal([]string{"m1"}, drain(qB))

	hub.Unregister("alice", idA)
	_, open := <-qA
	req.False(open, "queue closed on unregister")

	req.NoError(hub.SendToUser("alice", event("m2")))
	req.Equal([]string{"m2"}, drain(qB))

	hub.Unregister("alice", idA) // unknown id is ignored
	req.Equal(1, hub.Connected("alice"))
}

func TestConnectionHub_SendToOffline(t *testing.T) {
	hub := NewConnectionHub()
	require.Error(t, hub.SendToUser("nobody", event("x")))
}

func TestConnectionHub_SlowConsumerDoesNotBlock(t *testing.T) {
	req := require.New(t)
	hub := NewConnectionHub(WithQueueSize(2))

	_, slow := hub.Register("dave")
	_, fast := hub.Register("dave")

	req.NoError(hub.SendToUser("dave", event("a")))
	req.NoError(hub.SendToUser("dave", event("b")))
	req.Equal([]string{"a", "b"}, drain(fast))

	// slow never reads: its queue is full, the third send drops it
	err := hub.SendToUser("dave", event("c"))
	req.ErrorIs(err, ErrSlowConsumer)
	req.Equal(1, hub.Connected("dave"))

	req.Equal([]string{"a", "b"}, drain(slow), "queued events stay readable until the close")
	_, open := <-slow
	req.False(open)

	req.Equal([]string{"c"}, drain(fast))
	req.NoError(hub.SendToUser("dave", event("d")))
	req.Equal([]string{"d"}, drain(fast))
}

func TestConnectionHub_ConcurrentSendAndUnregister(t *testing.T) {
	hub := NewConnectionHub(WithQueueSize(100))
	id, q := hub.Register("erin")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = hub.SendToUser("erin", event("m"))
		}()
	}
	wg.Wait()
	require.Len(t, drain(q), 50)

	// sends racing an unregister must not panic on the closed queue
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = hub.SendToUser("erin", event("late"))
		}()
	}
	hub.Unregister("erin", id)
	wg.Wait()
	require.Zero(t, hub.Connected("erin"))
}
