package simulator

import (
	"fmt"

	"github.com/clambin/facility-monitor/internal/facility"
)

const (
	maxGlobalPower = 100 // kW
	maxGlobalFlow  = 15  // l/min
)

// buildAlerts recomputes the alert list from the current state. Ordering is
// fixed: global power first, then global water, then one alert per room in
// danger. Calling it twice on the same state yields the same list.
func (s *Simulator) buildAlerts() []Alert {
	alerts := make([]Alert, 0, 2+len(s.rooms))
	if s.totals.Power > maxGlobalPower {
		alerts = append(alerts, Alert{
			Severity: SeverityDanger,
			Icon:     "⚠️",
			Message:  fmt.Sprintf("High Power: %.1f kW", s.totals.Power),
		})
	}
	if s.totals.FlowRate > maxGlobalFlow {
		alerts = append(alerts, Alert{
			Severity: SeverityDanger,
			Icon:     "🚰",
			Message:  fmt.Sprintf("High Water Flow: %.1f l/min", s.totals.FlowRate),
		})
	}
	for _, room := range s.rooms {
		if room.Status == facility.StatusDanger {
			alerts = append(alerts, Alert{
				Severity: SeverityDanger,
				Icon:     "🏢",
				Message:  fmt.Sprintf("High usage in %s: %.1f kWh", room.Name, room.Energy),
			})
		}
	}
	return alerts
}
