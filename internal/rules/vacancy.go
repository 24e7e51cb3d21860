package rules

import (
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
)

// vacancyKinds are the devices the vacancy rule controls. Motors are left
// alone: they may be filling a tank regardless of who's in the room.
var vacancyKinds = []facility.DeviceKind{facility.Lights, facility.Fan, facility.AC}

// VacancyRule switches lights, fan and AC off when a room is empty, and
// credits one minute of their combined nominal draw to the automation savings
// counter. It only fires when at least one of them is still on.
type VacancyRule struct{}

var _ Evaluator = VacancyRule{}

func (r VacancyRule) Evaluate(room *facility.Room, settings Settings, _ time.Time) Action {
	if !settings.OccupancyControl || room.Occupancy != 0 {
		return Action{}
	}
	var anyOn bool
	var nominal float64
	desired := make(map[facility.DeviceKind]bool, len(vacancyKinds))
	for _, kind := range vacancyKinds {
		device, ok := room.Device(kind)
		if !ok {
			continue
		}
		desired[kind] = false
		nominal += device.Type.Power
		anyOn = anyOn || device.On
	}
	if !anyOn {
		return Action{}
	}
	return Action{
		Desired: desired,
		Saved:   nominal / 60,
		Reason:  "room is empty",
	}
}
