// Package health serves the latest facility snapshot as a liveness endpoint.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/clambin/facility-monitor/internal/simulator"
)

type Monitor interface {
	Subscribe() chan simulator.Update
	Unsubscribe(chan simulator.Update)
	Refresh()
}

type Health struct {
	Monitor
	logger  *slog.Logger
	update  simulator.Update
	updated bool
	lock    sync.RWMutex
}

func New(m Monitor, logger *slog.Logger) *Health {
	return &Health{
		Monitor: m,
		logger:  logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Monitor.Subscribe()
	defer h.Monitor.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			h.lock.Lock()
			h.update = update
			h.updated = true
			h.lock.Unlock()
		}
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	if !h.updated {
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		h.Monitor.Refresh()
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(h.update); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
