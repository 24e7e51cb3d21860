package simulator

import (
	"log/slog"
	"time"

	"github.com/clambin/facility-monitor/internal/facility"
)

// One tick models one minute of consumption, regardless of the wall-clock
// interval the simulator runs at.
const minutesPerHour = 60

const (
	// bounded sample ranges standing in for sensor input
	minPowerSample     = 40  // kW
	maxPowerSample     = 120 // kW
	minFlowSample      = 5   // l/min
	maxFlowSample      = 18  // l/min
	minRoomTemperature = 24  // °C
	maxRoomTemperature = 28  // °C
	maxOccupancyStep   = 2
	maxRoomWaterStep   = 2 // l

	co2PerKWh = 0.82 // kg

	// start-of-day seeds
	minSeedEnergy       = 50  // kWh
	maxSeedEnergy       = 250 // kWh
	minSeedHourlyEnergy = 30  // kWh
	maxSeedHourlyEnergy = 80  // kWh
	minSeedHourlyWater  = 5   // l
	maxSeedHourlyWater  = 20  // l

	// the hourly series holds a scaled estimate of the instantaneous
	// reading, not a true integral
	hourlyEstimateScale = 0.6
)

// tick advances all simulated state by one interval and returns the resulting
// snapshot.
func (s *Simulator) tick(now time.Time) Update {
	start := time.Now()

	s.totals.Power = s.random.Float64In(minPowerSample, maxPowerSample)
	s.totals.FlowRate = s.random.Float64In(minFlowSample, maxFlowSample)
	s.totals.Energy += s.totals.Power / minutesPerHour
	s.totals.Water += s.totals.FlowRate / minutesPerHour
	s.totals.CO2 = s.totals.Energy * co2PerKWh
	s.totals.Cost = s.totals.Energy*s.rates.Energy + s.totals.Water*s.rates.Water

	for _, room := range s.rooms {
		s.tickRoom(room, now)
	}

	s.alerts = s.buildAlerts()
	s.hourly[now.Hour()] = HourlySlot{
		Hour:   now.Hour(),
		Energy: s.totals.Power * hourlyEstimateScale,
		Water:  s.totals.FlowRate * hourlyEstimateScale,
	}
	s.stats = s.buildStatistics()

	s.logger.Debug("tick completed", slog.Duration("duration", time.Since(start)))
	return s.snapshot(now)
}

// tickRoom advances one room. A failure in one room must not abort the tick
// for the others, so panics are contained here.
func (s *Simulator) tickRoom(room *facility.Room, now time.Time) {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("room update failed", slog.String("room", room.Name), slog.Any("err", err))
		}
	}()

	room.Recompute()
	room.Energy += room.Power / minutesPerHour
	room.Water += s.random.Float64In(0, maxRoomWaterStep)
	room.Cost = room.Energy*s.rates.Energy + room.Water*s.rates.Water
	room.Temperature = s.random.Float64In(minRoomTemperature, maxRoomTemperature)
	room.Occupancy = min(room.Capacity, max(0, room.Occupancy+s.random.IntIn(-maxOccupancyStep, maxOccupancyStep)))
	room.Efficiency = min(100, 50+s.random.Float64In(0, 50))
	room.Classify()
	s.totals.EnergySaved += s.engine.Apply(room, s.settings, now)
}

// buildStatistics derives the peak/low hours and device counts from the
// current state.
func (s *Simulator) buildStatistics() Statistics {
	var peak, low int
	for hour, slot := range s.hourly {
		if slot.Energy > s.hourly[peak].Energy {
			peak = hour
		}
		if slot.Energy < s.hourly[low].Energy {
			low = hour
		}
	}
	var active int
	for _, room := range s.rooms {
		active += room.ActiveDevices
	}
	return Statistics{
		PeakHour:      peak,
		LowHour:       low,
		ActiveDevices: active,
		EnergySaved:   s.totals.EnergySaved,
	}
}
