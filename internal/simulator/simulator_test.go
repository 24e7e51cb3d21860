package simulator

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/clambin/facility-monitor/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// boundSource always returns the lower (or upper) bound of the requested
// range, making every tick fully deterministic.
type boundSource struct {
	upper bool
}

func (s boundSource) Float64In(minValue, maxValue float64) float64 {
	if s.upper {
		return maxValue
	}
	return minValue
}

func (s boundSource) IntIn(minValue, maxValue int) int {
	if s.upper {
		return maxValue
	}
	return minValue
}

var defaultSettings = rules.Settings{
	LightsOff:        rules.Timestamp{Hour: 22},
	OccupancyControl: true,
	ACTemperature:    24,
}

func afternoon() time.Time {
	return time.Date(2024, time.June, 10, 14, 0, 0, 0, time.Local)
}

func makeSimulator(t *testing.T, cfg facility.Config, source Source) *Simulator {
	t.Helper()
	return newSimulator(cfg, defaultSettings, time.Second, source, afternoon, slog.New(slog.DiscardHandler))
}

func TestSimulator_Tick_Totals(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})

	update := s.tick(afternoon())

	assert.Equal(t, 40.0, update.Totals.Power)
	assert.Equal(t, 5.0, update.Totals.FlowRate)
	assert.Equal(t, 40.0/60, update.Totals.Energy)
	assert.Equal(t, 5.0/60, update.Totals.Water)
	assert.Equal(t, update.Totals.Energy*0.82, update.Totals.CO2)
	assert.Equal(t, update.Totals.Energy*7+update.Totals.Water*0.015, update.Totals.Cost)
}

func TestSimulator_Tick_Monotonic(t *testing.T) {
	for _, source := range []Source{boundSource{}, boundSource{upper: true}} {
		s := makeSimulator(t, facility.DefaultConfig(), source)

		previous := s.snapshot(afternoon())
		for range 10 {
			update := s.tick(afternoon())

			assert.GreaterOrEqual(t, update.Totals.Energy, previous.Totals.Energy)
			assert.GreaterOrEqual(t, update.Totals.Water, previous.Totals.Water)
			for i, room := range update.Rooms {
				assert.GreaterOrEqual(t, room.Energy, previous.Rooms[i].Energy)
				assert.GreaterOrEqual(t, room.Water, previous.Rooms[i].Water)
				assert.GreaterOrEqual(t, room.Occupancy, 0)
				assert.LessOrEqual(t, room.Occupancy, room.Capacity)
			}
			previous = update
		}
	}
}

func TestSimulator_Tick_CostIdentity(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{upper: true})

	for range 5 {
		update := s.tick(afternoon())
		assert.Equal(t, update.Totals.Energy*7+update.Totals.Water*0.015, update.Totals.Cost)
		for _, room := range update.Rooms {
			assert.Equal(t, room.Energy*7+room.Water*0.015, room.Cost)
		}
	}
}

func TestSimulator_Tick_HourlySlot(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})

	update := s.tick(afternoon())

	assert.Equal(t, HourlySlot{Hour: 14, Energy: 40 * 0.6, Water: 5 * 0.6}, update.Hourly[14])
	for hour, slot := range update.Hourly {
		if hour == 14 {
			continue
		}
		// all other slots retain their seed
		assert.Equal(t, HourlySlot{Hour: hour, Energy: 30, Water: 5}, slot)
	}
}

func TestSimulator_Tick_Statistics(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})

	update := s.tick(afternoon())

	assert.Equal(t, 0, update.Statistics.PeakHour)
	assert.Equal(t, 14, update.Statistics.LowHour, "24 kWh estimate is below the 30 kWh seeds")
	assert.Equal(t, 27, update.Statistics.ActiveDevices, "all devices stay on in occupied rooms")
	assert.Equal(t, update.Totals.EnergySaved, update.Statistics.EnergySaved)
}

func singleEmptyRoom() facility.Config {
	return facility.Config{
		Rooms: []facility.RoomDefinition{
			{ID: 1, Name: "Classroom A", Category: "classroom", Capacity: 30, Occupancy: 0,
				Devices: []facility.DeviceKind{facility.Lights, facility.Fan, facility.AC}},
		},
		Rates: facility.Rates{Energy: 7, Water: 0.015},
	}
}

func TestSimulator_Tick_EmptyRoomSavings(t *testing.T) {
	s := makeSimulator(t, singleEmptyRoom(), boundSource{})

	update := s.tick(afternoon())

	assert.InDelta(t, (0.06+0.08+1.2)/60, update.Totals.EnergySaved, 1e-12)
	for _, device := range update.Rooms[0].Devices {
		assert.False(t, device.On)
	}

	// savings are only credited on the off transition
	update = s.tick(afternoon())
	assert.InDelta(t, (0.06+0.08+1.2)/60, update.Totals.EnergySaved, 1e-12)
}

// a failure in one room must not stop the tick for the others
func TestSimulator_Tick_RoomFailureIsolation(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})
	s.rooms[0].Devices[facility.Lights] = nil

	update := s.tick(afternoon())

	require.Len(t, update.Rooms, 8)
	assert.Equal(t, 50.0, update.Rooms[0].Energy, "the failed room's state is left as seeded")
	_, ok := update.Rooms[0].Devices[facility.Lights]
	assert.False(t, ok, "the corrupted entry doesn't reach the snapshot")
	for _, room := range update.Rooms[1:] {
		assert.Greater(t, room.Energy, 50.0, room.Name)
	}
	assert.Equal(t, 40.0/60, update.Totals.Energy, "global totals still accumulate")

	// and the next tick still runs
	update = s.tick(afternoon())
	assert.Equal(t, 2*40.0/60, update.Totals.Energy)
}

func TestSimulator_ToggleDevice(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})

	before := s.rooms[0].Power
	require.NoError(t, s.toggleDevice(1, facility.AC))
	assert.InDelta(t, before-1.2, s.rooms[0].Power, 1e-12)

	require.NoError(t, s.toggleDevice(1, facility.AC))
	assert.Equal(t, before, s.rooms[0].Power)

	assert.ErrorIs(t, s.toggleDevice(42, facility.AC), ErrUnknownRoom)
	assert.ErrorIs(t, s.toggleDevice(1, facility.Motor), ErrUnknownDevice, "classrooms have no motor")
}

func TestSimulator_BuildAlerts(t *testing.T) {
	s := makeSimulator(t, singleEmptyRoom(), boundSource{upper: true})

	update := s.tick(afternoon())

	require.NotEmpty(t, update.Alerts)
	assert.Equal(t, Alert{Severity: SeverityDanger, Icon: "⚠️", Message: "High Power: 120.0 kW"}, update.Alerts[0])
	assert.Equal(t, Alert{Severity: SeverityDanger, Icon: "🚰", Message: "High Water Flow: 18.0 l/min"}, update.Alerts[1])

	// the alert list is a pure function of the current state
	assert.Equal(t, s.buildAlerts(), s.buildAlerts())
}

func TestSimulator_Snapshot_IsImmutable(t *testing.T) {
	s := makeSimulator(t, facility.DefaultConfig(), boundSource{})

	update := s.snapshot(afternoon())
	device := update.Rooms[0].Devices[facility.Lights]
	device.On = false
	update.Rooms[0].Energy = -1

	live, _ := s.rooms[0].Device(facility.Lights)
	assert.True(t, live.On)
	assert.NotEqual(t, -1.0, s.rooms[0].Energy)
}

func TestSimulator_Run(t *testing.T) {
	s := New(facility.DefaultConfig(), defaultSettings, time.Hour, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(t.Context())
	var g errgroup.Group
	g.Go(func() error { return s.Run(ctx) })

	ch := s.Subscribe()
	s.Refresh()
	update := <-ch
	require.Len(t, update.Rooms, 8)

	lightsOn := update.Rooms[0].Devices[facility.Lights].On
	require.NoError(t, s.ToggleDevice(1, facility.Lights))
	update = <-ch
	assert.Equal(t, !lightsOn, update.Rooms[0].Devices[facility.Lights].On)

	assert.ErrorIs(t, s.ToggleDevice(42, facility.Lights), ErrUnknownRoom)

	require.NoError(t, s.UpdateSettings(rules.SettingsPatch{ACTemperature: ptr(26)}))
	update = <-ch
	assert.Equal(t, 26, update.Settings.ACTemperature)

	s.Unsubscribe(ch)
	cancel()
	assert.NoError(t, g.Wait())
}

func ptr[T any](value T) *T { return &value }
