package rules

import (
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
)

// LightsOutRule switches lights off from the configured lights-off time
// onward. It only ever switches lights off.
type LightsOutRule struct{}

var _ Evaluator = LightsOutRule{}

func (r LightsOutRule) Evaluate(room *facility.Room, settings Settings, now time.Time) Action {
	if !settings.LightsOff.Reached(now) {
		return Action{}
	}
	lights, ok := room.Device(facility.Lights)
	if !ok || !lights.On {
		return Action{}
	}
	return Action{
		Desired: map[facility.DeviceKind]bool{facility.Lights: false},
		Reason:  "lights-off time reached",
	}
}
