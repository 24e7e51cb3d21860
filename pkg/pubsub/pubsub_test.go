package pubsub_test

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/clambin/facility-monitor/pkg/pubsub"
	"github.com/stretchr/testify/assert"
)

func TestPublisher(t *testing.T) {
	p := pubsub.New[int](slog.New(slog.DiscardHandler))
	assert.Zero(t, p.Subscribers())

	const clients = 5
	var wg sync.WaitGroup
	wg.Add(clients)
	for range clients {
		ch := p.Subscribe()
		go func() {
			defer wg.Done()
			defer p.Unsubscribe(ch)
			assert.Equal(t, 42, <-ch)
		}()
	}
	assert.Equal(t, clients, p.Subscribers())

	p.Publish(42)
	wg.Wait()
	assert.Zero(t, p.Subscribers())

	// publishing without subscribers doesn't block
	p.Publish(43)
}
