// Package pubsub implements a minimal publish/subscribe fan-out.
package pubsub

import (
	"log/slog"
	"sync"
)

// Publisher sends each published item to all subscribed clients.
type Publisher[T any] struct {
	logger  *slog.Logger
	clients map[chan T]struct{}
	lock    sync.RWMutex
}

// New returns a new Publisher.
func New[T any](logger *slog.Logger) *Publisher[T] {
	return &Publisher[T]{
		logger:  logger,
		clients: make(map[chan T]struct{}),
	}
}

// Subscribe returns a channel on which the Publisher will send all published items.
func (p *Publisher[T]) Subscribe() chan T {
	p.lock.Lock()
	defer p.lock.Unlock()
	ch := make(chan T)
	p.clients[ch] = struct{}{}
	p.logger.Debug("subscriber added", slog.Int("subscribers", len(p.clients)))
	return ch
}

// Unsubscribe stops sending published items to the channel.
func (p *Publisher[T]) Unsubscribe(ch chan T) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.clients, ch)
	p.logger.Debug("subscriber removed", slog.Int("subscribers", len(p.clients)))
}

// Publish sends item to all subscribed clients. It blocks until all clients have received the item.
func (p *Publisher[T]) Publish(item T) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for ch := range p.clients {
		ch <- item
	}
}

// Subscribers returns the current number of subscribed clients.
func (p *Publisher[T]) Subscribers() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.clients)
}
