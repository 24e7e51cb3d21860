// Package rules implements the automation policy applied to each room on
// every tick.
package rules

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// A Timestamp is a time of day (hour & minute).
type Timestamp struct {
	Hour    int
	Minutes int
}

// ParseTimestamp parses a time of day in "HH:MM" format. Anything else is
// rejected.
func ParseTimestamp(value string) (Timestamp, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return Timestamp{Hour: parsed.Hour(), Minutes: parsed.Minute()}, nil
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minutes)
}

// Reached reports whether now's time of day is at or past the Timestamp.
func (t Timestamp) Reached(now time.Time) bool {
	return now.Hour() > t.Hour || (now.Hour() == t.Hour && now.Minute() >= t.Minutes)
}

func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	timestamp, err := ParseTimestamp(node.Value)
	if err == nil {
		*t = timestamp
	}
	return err
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// Settings holds the process-wide automation policy. It is set at start-up
// and updated only through the validating setters; the rule engine reads it,
// never writes it.
type Settings struct {
	LightsOff        Timestamp `json:"lightsOff"`
	OccupancyControl bool      `json:"occupancyControl"`
	ACTemperature    int       `json:"acTemperature"` // °C
	Tolerance        int       `json:"tolerance"`     // °C above ACTemperature before the AC switches on
}

// A SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	LightsOff        *string `json:"lightsOff"`
	OccupancyControl *bool   `json:"occupancyControl"`
	ACTemperature    *int    `json:"acTemperature"`
	Tolerance        *int    `json:"tolerance"`
}

// Apply validates the patch and applies it to the Settings. On error, the
// Settings are left unchanged.
func (s *Settings) Apply(patch SettingsPatch) error {
	updated := *s
	if patch.LightsOff != nil {
		timestamp, err := ParseTimestamp(*patch.LightsOff)
		if err != nil {
			return err
		}
		updated.LightsOff = timestamp
	}
	if patch.OccupancyControl != nil {
		updated.OccupancyControl = *patch.OccupancyControl
	}
	if patch.ACTemperature != nil {
		if *patch.ACTemperature < 0 || *patch.ACTemperature > 45 {
			return fmt.Errorf("invalid ac temperature: %d", *patch.ACTemperature)
		}
		updated.ACTemperature = *patch.ACTemperature
	}
	if patch.Tolerance != nil {
		if *patch.Tolerance < 0 {
			return fmt.Errorf("invalid tolerance: %d", *patch.Tolerance)
		}
		updated.Tolerance = *patch.Tolerance
	}
	*s = updated
	return nil
}
