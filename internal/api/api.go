// Package api is the HTTP surface for rendering & configuration
// collaborators: it serves read-only snapshots and accepts device-toggle and
// settings commands.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/clambin/facility-monitor/internal/rules"
	"github.com/clambin/facility-monitor/internal/simulator"
)

type Monitor interface {
	Subscribe() chan simulator.Update
	Unsubscribe(chan simulator.Update)
	ToggleDevice(roomID int, kind facility.DeviceKind) error
	UpdateSettings(patch rules.SettingsPatch) error
}

type Server struct {
	monitor Monitor
	logger  *slog.Logger
	update  simulator.Update
	updated bool
	lock    sync.RWMutex
}

func New(monitor Monitor, logger *slog.Logger) *Server {
	return &Server{
		monitor: monitor,
		logger:  logger,
	}
}

// Run caches published snapshots until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Debug("started")
	defer s.logger.Debug("stopped")

	ch := s.monitor.Subscribe()
	defer s.monitor.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			s.lock.Lock()
			s.update = update
			s.updated = true
			s.lock.Unlock()
		}
	}
}

// Router returns the Server's routes.
func (s *Server) Router() *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("GET /api/snapshot", s.getSnapshot)
	m.HandleFunc("POST /api/rooms/{room}/devices/{kind}", s.toggleDevice)
	m.HandleFunc("PUT /api/settings", s.updateSettings)
	return m
}

func (s *Server) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if !s.updated {
		http.Error(w, "no update yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.update); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) toggleDevice(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.Atoi(r.PathValue("room"))
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}
	kind, err := facility.ParseDeviceKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err = s.monitor.ToggleDevice(roomID, kind); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, simulator.ErrUnknownRoom) || errors.Is(err, simulator.ErrUnknownDevice) {
			code = http.StatusNotFound
		}
		http.Error(w, err.Error(), code)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch rules.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.monitor.UpdateSettings(patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
