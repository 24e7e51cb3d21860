package facility

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// A RoomDefinition describes one room of the facility: identity, capacity and
// the (closed) set of device kinds installed in it.
type RoomDefinition struct {
	ID        int          `yaml:"id"`
	Name      string       `yaml:"name"`
	Category  string       `yaml:"category"`
	Capacity  int          `yaml:"capacity"`
	Occupancy int          `yaml:"occupancy"`
	Devices   []DeviceKind `yaml:"devices"`
}

// Rates are the fixed unit rates used to derive cost from consumption.
type Rates struct {
	Energy float64 `yaml:"energy"` // per kWh
	Water  float64 `yaml:"water"`  // per l
}

// Config is the facility layout: the room registry and the tariff rates.
type Config struct {
	Rooms []RoomDefinition `yaml:"rooms"`
	Rates Rates            `yaml:"rates"`
}

// Load reads a facility configuration and validates it.
func Load(in io.Reader, logger *slog.Logger) (Config, error) {
	var config Config
	if err := yaml.NewDecoder(in).Decode(&config); err != nil {
		return Config{}, err
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	for _, room := range config.Rooms {
		kinds := make([]string, len(room.Devices))
		for i, kind := range room.Devices {
			kinds[i] = kind.String()
		}
		logger.Info("room found",
			slog.String("room", room.Name),
			slog.Int("capacity", room.Capacity),
			slog.String("devices", strings.Join(kinds, ",")),
		)
	}
	return config, nil
}

func (c Config) validate() error {
	if len(c.Rooms) == 0 {
		return fmt.Errorf("no rooms defined")
	}
	ids := make(map[int]struct{}, len(c.Rooms))
	for _, room := range c.Rooms {
		if room.Name == "" {
			return fmt.Errorf("room %d: no name", room.ID)
		}
		if _, ok := ids[room.ID]; ok {
			return fmt.Errorf("duplicate room id: %d", room.ID)
		}
		ids[room.ID] = struct{}{}
		if room.Capacity < 1 {
			return fmt.Errorf("room %q: invalid capacity: %d", room.Name, room.Capacity)
		}
		if room.Occupancy < 0 || room.Occupancy > room.Capacity {
			return fmt.Errorf("room %q: occupancy %d outside [0,%d]", room.Name, room.Occupancy, room.Capacity)
		}
		if len(room.Devices) == 0 {
			return fmt.Errorf("room %q: no devices", room.Name)
		}
		seen := make(map[DeviceKind]struct{}, len(room.Devices))
		for _, kind := range room.Devices {
			if _, ok := seen[kind]; ok {
				return fmt.Errorf("room %q: duplicate device kind: %s", room.Name, kind)
			}
			seen[kind] = struct{}{}
		}
	}
	if c.Rates.Energy < 0 || c.Rates.Water < 0 {
		return fmt.Errorf("invalid rates: energy %f, water %f", c.Rates.Energy, c.Rates.Water)
	}
	return nil
}

// DefaultConfig returns the built-in campus facility layout.
func DefaultConfig() Config {
	standard := []DeviceKind{Lights, Fan, AC}
	withMotor := []DeviceKind{Lights, Fan, AC, Motor}
	return Config{
		Rooms: []RoomDefinition{
			{ID: 1, Name: "Classroom A", Category: "classroom", Capacity: 30, Occupancy: 25, Devices: standard},
			{ID: 2, Name: "Classroom B", Category: "classroom", Capacity: 28, Occupancy: 20, Devices: standard},
			{ID: 3, Name: "Computer Lab", Category: "lab", Capacity: 35, Occupancy: 32, Devices: standard},
			{ID: 4, Name: "Library", Category: "library", Capacity: 25, Occupancy: 12, Devices: standard},
			{ID: 5, Name: "Hostel Block A", Category: "hostel", Capacity: 50, Occupancy: 45, Devices: withMotor},
			{ID: 6, Name: "Hostel Block B", Category: "hostel", Capacity: 45, Occupancy: 40, Devices: withMotor},
			{ID: 7, Name: "Cafeteria", Category: "common", Capacity: 60, Occupancy: 35, Devices: withMotor},
			{ID: 8, Name: "Office Wing", Category: "office", Capacity: 20, Occupancy: 18, Devices: standard},
		},
		Rates: Rates{Energy: 7, Water: 0.015},
	}
}
