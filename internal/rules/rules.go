package rules

import (
	"log/slog"
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
)

// An Action is the outcome of evaluating one rule: the device states the rule
// wants, and the consumption it avoided by switching devices off. Devices not
// in Desired are left alone.
type Action struct {
	Desired map[facility.DeviceKind]bool
	Saved   float64 // kWh credited to the automation savings counter
	Reason  string
}

// An Evaluator evaluates one automation rule against a room's current state.
// Rules never mutate the room; the Engine applies their Actions.
type Evaluator interface {
	Evaluate(room *facility.Room, settings Settings, now time.Time) Action
}

// Engine evaluates the automation rules for a room. The evaluation order is a
// contract, not an accident: LightsOut runs first, then Vacancy, then
// Occupancy. Each rule's Action is applied before the next rule is evaluated,
// so a later rule sees (and may override) the effect of an earlier one. The
// Occupancy rule honors the lights-off time itself, which is what keeps
// LightsOut's decision standing in an occupied room.
type Engine struct {
	rules  []Evaluator
	logger *slog.Logger
}

// New returns an Engine with the standard rule set.
func New(logger *slog.Logger) *Engine {
	return &Engine{
		rules:  []Evaluator{LightsOutRule{}, VacancyRule{}, OccupancyRule{}},
		logger: logger,
	}
}

// Apply runs all rules against the room, in order, and flips the device
// states they ask for. It returns the energy (kWh) saved by switching devices
// off in empty rooms. The engine holds no state between invocations.
func (e *Engine) Apply(room *facility.Room, settings Settings, now time.Time) float64 {
	var saved float64
	for _, rule := range e.rules {
		action := rule.Evaluate(room, settings, now)
		if len(action.Desired) == 0 {
			continue
		}
		for kind, on := range action.Desired {
			if device, ok := room.Device(kind); ok {
				device.On = on
			}
		}
		saved += action.Saved
		e.logger.Debug("rule applied",
			slog.String("room", room.Name),
			slog.String("reason", action.Reason),
		)
	}
	room.Recompute()
	return saved
}
