package rules

import (
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
)

// OccupancyRule switches essential devices back on while a room is in use:
// lights (only before the lights-off hour, so LightsOutRule's decision
// stands), the fan unconditionally, and the AC by temperature. The AC has a
// dead band between the target temperature and target+tolerance where its
// state is deliberately left unchanged, so it doesn't flap around the target.
type OccupancyRule struct{}

var _ Evaluator = OccupancyRule{}

func (r OccupancyRule) Evaluate(room *facility.Room, settings Settings, now time.Time) Action {
	if !settings.OccupancyControl || room.Occupancy == 0 {
		return Action{}
	}
	desired := make(map[facility.DeviceKind]bool)
	if lights, ok := room.Device(facility.Lights); ok && !lights.On && now.Hour() < settings.LightsOff.Hour {
		desired[facility.Lights] = true
	}
	if fan, ok := room.Device(facility.Fan); ok && !fan.On {
		desired[facility.Fan] = true
	}
	if _, ok := room.Device(facility.AC); ok {
		switch {
		case room.Temperature > float64(settings.ACTemperature+settings.Tolerance):
			desired[facility.AC] = true
		case room.Temperature < float64(settings.ACTemperature):
			desired[facility.AC] = false
		}
	}
	if len(desired) == 0 {
		return Action{}
	}
	return Action{Desired: desired, Reason: "room is occupied"}
}
