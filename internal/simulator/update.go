package simulator

import (
	"fmt"
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/clambin/facility-monitor/internal/rules"
)

// Totals are the facility-wide consumption counters. Energy, Water, CO2 and
// Cost accumulate since start-up; Power and FlowRate are the instantaneous
// readings of the current tick.
type Totals struct {
	Energy      float64 `json:"totalEnergy"` // kWh
	Water       float64 `json:"totalWater"`  // l
	Cost        float64 `json:"totalCost"`
	CO2         float64 `json:"totalCO2"`     // kg
	Power       float64 `json:"currentPower"` // kW
	FlowRate    float64 `json:"currentFlow"`  // l/min
	EnergySaved float64 `json:"energySaved"`  // kWh avoided by automation
}

// Severity indicates how urgent an Alert is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityDanger
)

func (s Severity) String() string {
	var result string
	switch s {
	case SeverityInfo:
		result = "info"
	case SeverityWarning:
		result = "warning"
	case SeverityDanger:
		result = "danger"
	}
	return result
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityInfo || s > SeverityDanger {
		return nil, fmt.Errorf("invalid severity: %d", s)
	}
	return []byte(s.String()), nil
}

// An Alert flags a threshold crossing. The alert list is rebuilt from scratch
// on every tick: alerts are never accumulated across ticks.
type Alert struct {
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Message  string   `json:"message"`
}

// An HourlySlot holds the consumption reading for one hour of the day. The
// slot for the current hour is overwritten on every tick; the other slots
// keep their last written (seed or historical) value.
type HourlySlot struct {
	Hour   int     `json:"hour"`
	Energy float64 `json:"energy"` // kWh
	Water  float64 `json:"water"`  // l
}

// Statistics are derived from the hourly series and the room states.
type Statistics struct {
	PeakHour      int     `json:"peakHour"`
	LowHour       int     `json:"lowHour"`
	ActiveDevices int     `json:"activeDevices"`
	EnergySaved   float64 `json:"energySaved"` // kWh
}

// An Update is the immutable snapshot of the facility state after a tick or a
// command, as handed to subscribers. Rooms are deep copies: mutating an
// Update never affects the simulator's state.
type Update struct {
	Timestamp  time.Time       `json:"timestamp"`
	Totals     Totals          `json:"totals"`
	Rooms      []facility.Room `json:"rooms"`
	Alerts     []Alert         `json:"alerts"`
	Hourly     [24]HourlySlot  `json:"hourly"`
	Statistics Statistics      `json:"statistics"`
	Settings   rules.Settings  `json:"settings"`
}
