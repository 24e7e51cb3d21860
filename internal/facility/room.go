package facility

// A Device is one controllable device in a room. Power & Flow hold the
// device's current draw: zero while off, the nominal draw while on. There are
// no partial states.
type Device struct {
	Type  DeviceType `json:"type"`
	On    bool       `json:"on"`
	Power float64    `json:"power"`
	Flow  float64    `json:"flow,omitempty"`
}

// A Room is the live state of one physical room. Its device set is fixed at
// creation: automation and toggle commands only flip devices on & off.
type Room struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`

	Occupancy   int     `json:"occupancy"`
	Temperature float64 `json:"temperature"`

	Devices map[DeviceKind]*Device `json:"devices"`

	// instantaneous draw, derived from the device states by Recompute
	Power         float64 `json:"currentPower"`
	FlowRate      float64 `json:"currentFlow"`
	ActiveDevices int     `json:"activeDevices"`

	// running totals since start-up
	Energy float64 `json:"totalEnergy"`
	Water  float64 `json:"totalWater"`
	Cost   float64 `json:"cost"`

	Status     Status  `json:"status"`
	Efficiency float64 `json:"efficiency"`
}

// NewRoom creates a Room from its definition, with one device per listed kind,
// all switched on.
func NewRoom(definition RoomDefinition, catalog Catalog) *Room {
	room := Room{
		ID:          definition.ID,
		Name:        definition.Name,
		Category:    definition.Category,
		Capacity:    definition.Capacity,
		Occupancy:   definition.Occupancy,
		Temperature: 25,
		Devices:     make(map[DeviceKind]*Device, len(definition.Devices)),
	}
	for _, kind := range definition.Devices {
		room.Devices[kind] = &Device{Type: catalog.MustGet(kind), On: true}
	}
	room.Recompute()
	return &room
}

// Recompute derives the room's instantaneous power & water draw from its
// device states. It is a pure function of the device states: it's called after
// every toggle command and once per tick, before the automation rules run, so
// the rules always see the draw implied by the previous toggle decisions.
func (r *Room) Recompute() {
	var power, flow float64
	var active int
	// fixed iteration order, so the summed draw is bit-identical across calls
	for kind := Lights; kind <= Motor; kind++ {
		device, ok := r.Devices[kind]
		if !ok {
			continue
		}
		if device.On {
			device.Power = device.Type.Power
			device.Flow = device.Type.Flow
			power += device.Power
			flow += device.Flow
			active++
		} else {
			device.Power = 0
			device.Flow = 0
		}
	}
	r.Power = power
	r.FlowRate = flow
	r.ActiveDevices = active
}

// Device returns the room's device of the given kind.
func (r *Room) Device(kind DeviceKind) (*Device, bool) {
	device, ok := r.Devices[kind]
	return device, ok
}

// Clone returns a deep copy of the room, safe to hand out in a snapshot.
func (r *Room) Clone() Room {
	clone := *r
	clone.Devices = make(map[DeviceKind]*Device, len(r.Devices))
	for kind, device := range r.Devices {
		// a room that failed mid-tick may hold a corrupted entry; don't let it
		// reach the snapshot
		if device == nil {
			continue
		}
		deviceCopy := *device
		clone.Devices[kind] = &deviceCopy
	}
	return clone
}
