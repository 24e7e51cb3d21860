// Package simulator drives the facility simulation: it advances all consumption
// state on a fixed interval, applies the automation rules, and publishes an
// immutable snapshot of the result after every tick.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/clambin/facility-monitor/internal/rules"
	"github.com/clambin/facility-monitor/pkg/pubsub"
)

var (
	ErrUnknownRoom   = errors.New("unknown room")
	ErrUnknownDevice = errors.New("unknown device")
)

// Simulator owns all mutable facility state. A single goroutine (Run) mutates
// it: ticks, toggle commands and settings updates are all serialized onto that
// goroutine, so a tick always runs to completion before the next event.
type Simulator struct {
	*pubsub.Publisher[Update]
	engine   *rules.Engine
	interval time.Duration
	logger   *slog.Logger
	refresh  chan struct{}
	commands chan command
	random   Source
	now      func() time.Time

	rooms    []*facility.Room
	rates    facility.Rates
	settings rules.Settings
	totals   Totals
	hourly   [24]HourlySlot
	stats    Statistics
	alerts   []Alert
}

type command struct {
	fn    func() error
	reply chan error
}

// New returns a Simulator for the configured facility, seeded with plausible
// start-of-day state.
func New(cfg facility.Config, settings rules.Settings, interval time.Duration, logger *slog.Logger) *Simulator {
	return newSimulator(cfg, settings, interval, randomSource{}, time.Now, logger)
}

func newSimulator(cfg facility.Config, settings rules.Settings, interval time.Duration, random Source, now func() time.Time, logger *slog.Logger) *Simulator {
	s := Simulator{
		Publisher: pubsub.New[Update](logger.With(slog.String("component", "registry"))),
		engine:    rules.New(logger.With(slog.String("component", "rules"))),
		interval:  interval,
		logger:    logger,
		refresh:   make(chan struct{}),
		commands:  make(chan command),
		random:    random,
		now:       now,
		rates:     cfg.Rates,
		settings:  settings,
	}
	catalog := facility.DefaultCatalog()
	for _, definition := range cfg.Rooms {
		room := facility.NewRoom(definition, catalog)
		room.Energy = s.random.Float64In(minSeedEnergy, maxSeedEnergy)
		room.Efficiency = s.random.Float64In(70, 100)
		room.Cost = room.Energy*s.rates.Energy + room.Water*s.rates.Water
		s.rooms = append(s.rooms, room)
	}
	for hour := range s.hourly {
		s.hourly[hour] = HourlySlot{
			Hour:   hour,
			Energy: s.random.Float64In(minSeedHourlyEnergy, maxSeedHourlyEnergy),
			Water:  s.random.Float64In(minSeedHourlyWater, maxSeedHourlyWater),
		}
	}
	return &s
}

// Run advances the simulation until ctx is canceled. Exactly one tick runs at
// a time; a started tick or command always runs to completion.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.Debug("started", slog.Duration("interval", s.interval))
	defer s.logger.Debug("stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Publish(s.tick(s.now()))
		case <-s.refresh:
			s.Publish(s.tick(s.now()))
		case cmd := <-s.commands:
			err := cmd.fn()
			cmd.reply <- err
			if err == nil {
				s.Publish(s.snapshot(s.now()))
			}
		}
	}
}

// Refresh makes the Simulator run a tick without waiting for the interval to expire.
func (s *Simulator) Refresh() {
	s.refresh <- struct{}{}
}

// do runs fn on the Run goroutine and waits for its result.
func (s *Simulator) do(fn func() error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	s.commands <- cmd
	return <-cmd.reply
}

// ToggleDevice flips one device's on/off state and synchronously recomputes
// the affected room and the alert list, so the next snapshot reflects the
// change. It returns ErrUnknownRoom or ErrUnknownDevice for ids that don't
// exist.
func (s *Simulator) ToggleDevice(roomID int, kind facility.DeviceKind) error {
	return s.do(func() error { return s.toggleDevice(roomID, kind) })
}

func (s *Simulator) toggleDevice(roomID int, kind facility.DeviceKind) error {
	room, ok := s.roomByID(roomID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
	}
	device, ok := room.Device(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, kind)
	}
	device.On = !device.On
	room.Recompute()
	room.Classify()
	s.alerts = s.buildAlerts()
	s.stats = s.buildStatistics()
	s.logger.Info("device toggled",
		slog.String("room", room.Name),
		slog.String("device", kind.String()),
		slog.Bool("on", device.On),
	)
	return nil
}

// UpdateSettings validates and applies an automation settings patch.
func (s *Simulator) UpdateSettings(patch rules.SettingsPatch) error {
	return s.do(func() error {
		if err := s.settings.Apply(patch); err != nil {
			return err
		}
		s.logger.Info("automation settings updated",
			slog.String("lightsOff", s.settings.LightsOff.String()),
			slog.Bool("occupancyControl", s.settings.OccupancyControl),
			slog.Int("acTemperature", s.settings.ACTemperature),
			slog.Int("tolerance", s.settings.Tolerance),
		)
		return nil
	})
}

func (s *Simulator) roomByID(roomID int) (*facility.Room, bool) {
	for _, room := range s.rooms {
		if room.ID == roomID {
			return room, true
		}
	}
	return nil, false
}

// snapshot returns a deep copy of the current state.
func (s *Simulator) snapshot(now time.Time) Update {
	update := Update{
		Timestamp:  now,
		Totals:     s.totals,
		Rooms:      make([]facility.Room, len(s.rooms)),
		Alerts:     make([]Alert, len(s.alerts)),
		Hourly:     s.hourly,
		Statistics: s.stats,
		Settings:   s.settings,
	}
	for i, room := range s.rooms {
		update.Rooms[i] = room.Clone()
	}
	copy(update.Alerts, s.alerts)
	return update
}
