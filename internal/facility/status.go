package facility

import "fmt"

// Status is the severity classification of a room's current consumption.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusDanger
)

func (s Status) String() string {
	var result string
	switch s {
	case StatusNormal:
		result = "normal"
	case StatusWarning:
		result = "warning"
	case StatusDanger:
		result = "danger"
	}
	return result
}

func (s Status) MarshalText() ([]byte, error) {
	if s < StatusNormal || s > StatusDanger {
		return nil, fmt.Errorf("invalid status: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(value []byte) error {
	switch string(value) {
	case "normal":
		*s = StatusNormal
	case "warning":
		*s = StatusWarning
	case "danger":
		*s = StatusDanger
	default:
		return fmt.Errorf("invalid status: %q", string(value))
	}
	return nil
}

// Classify maps a room's cumulative energy per occupant and instantaneous
// draw to a Status. Danger is checked before warning; the first matching tier
// wins.
func Classify(energyPerOccupant, draw float64) Status {
	switch {
	case energyPerOccupant > 5 || draw > 7:
		return StatusDanger
	case energyPerOccupant > 3 || draw > 5:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Classify sets the room's status from its current metrics. The divisor is
// floored at one occupant so an empty room doesn't divide by zero.
func (r *Room) Classify() Status {
	r.Status = Classify(r.Energy/float64(max(1, r.Occupancy)), r.Power)
	return r.Status
}
