// Package facility holds the data model for the monitored facility: the
// device catalog, the room registry and the live per-room state.
package facility

import (
	"fmt"

	"github.com/clambin/go-common/set"
	"gopkg.in/yaml.v3"
)

// DeviceKind identifies one of the controllable device types in a room. The
// set of kinds is closed: unmarshalling an unknown kind fails.
type DeviceKind int

const (
	Lights DeviceKind = iota
	Fan
	AC
	Motor
)

// Kinds contains all valid device kinds.
var Kinds = set.New(Lights, Fan, AC, Motor)

func (k DeviceKind) String() string {
	var result string
	switch k {
	case Lights:
		result = "lights"
	case Fan:
		result = "fan"
	case AC:
		result = "ac"
	case Motor:
		result = "motor"
	default:
		result = fmt.Sprintf("devicekind(%d)", k)
	}
	return result
}

// ParseDeviceKind converts a device kind name to its DeviceKind.
func ParseDeviceKind(value string) (DeviceKind, error) {
	switch value {
	case "lights":
		return Lights, nil
	case "fan":
		return Fan, nil
	case "ac":
		return AC, nil
	case "motor":
		return Motor, nil
	default:
		return 0, fmt.Errorf("invalid device kind: %q", value)
	}
}

func (k DeviceKind) MarshalText() ([]byte, error) {
	if !Kinds.Contains(k) {
		return nil, fmt.Errorf("invalid device kind: %d", k)
	}
	return []byte(k.String()), nil
}

func (k *DeviceKind) UnmarshalText(value []byte) error {
	kind, err := ParseDeviceKind(string(value))
	if err == nil {
		*k = kind
	}
	return err
}

func (k *DeviceKind) UnmarshalYAML(node *yaml.Node) error {
	return k.UnmarshalText([]byte(node.Value))
}

func (k DeviceKind) MarshalYAML() (interface{}, error) {
	if !Kinds.Contains(k) {
		return nil, fmt.Errorf("invalid device kind: %d", k)
	}
	return k.String(), nil
}

// A DeviceType is a catalog entry: display metadata plus the nominal draw of
// one kind of device. Power is the draw in kW while the device is on. Flow is
// the water draw in l/min while the device is on (zero for devices that don't
// use water).
type DeviceType struct {
	Kind  DeviceKind `json:"kind" yaml:"kind"`
	Name  string     `json:"name" yaml:"name"`
	Icon  string     `json:"icon" yaml:"icon"`
	Power float64    `json:"power" yaml:"power"`
	Flow  float64    `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// A Catalog maps each device kind to its DeviceType. It is built once at
// start-up and never mutated.
type Catalog map[DeviceKind]DeviceType

// DefaultCatalog returns the built-in device catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Lights: {Kind: Lights, Name: "Lights", Icon: "💡", Power: 0.06},
		Fan:    {Kind: Fan, Name: "Fan", Icon: "💨", Power: 0.08},
		AC:     {Kind: AC, Name: "AC", Icon: "❄️", Power: 1.2},
		Motor:  {Kind: Motor, Name: "Water Motor", Icon: "🚰", Power: 0.5, Flow: 8},
	}
}

// MustGet returns the DeviceType for the kind. Referencing a kind that is not
// in the catalog is a programming error, so MustGet panics.
func (c Catalog) MustGet(kind DeviceKind) DeviceType {
	deviceType, ok := c[kind]
	if !ok {
		panic("device kind not in catalog: " + kind.String())
	}
	return deviceType
}
