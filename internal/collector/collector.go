// Package collector exports the facility state as Prometheus metrics.
package collector

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clambin/facility-monitor/internal/simulator"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	facilityTotalEnergy = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "total_energy_kwh"),
		"Cumulative energy consumption since start-up, in kWh",
		nil,
		nil,
	)
	facilityTotalWater = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "total_water_litres"),
		"Cumulative water consumption since start-up, in litres",
		nil,
		nil,
	)
	facilityTotalCost = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "total_cost"),
		"Cumulative consumption cost since start-up, in currency units",
		nil,
		nil,
	)
	facilityTotalCO2 = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "total_co2_kg"),
		"Cumulative CO2 emissions since start-up, in kg",
		nil,
		nil,
	)
	facilityCurrentPower = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "current_power_kw"),
		"Instantaneous facility power draw, in kW",
		nil,
		nil,
	)
	facilityCurrentFlow = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "current_water_flow_lpm"),
		"Instantaneous facility water flow, in litres per minute",
		nil,
		nil,
	)
	facilityEnergySaved = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "energy_saved_kwh"),
		"Cumulative energy saved by automation, in kWh",
		nil,
		nil,
	)
	facilityActiveAlerts = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "", "active_alerts"),
		"Number of currently active alerts",
		nil,
		nil,
	)
	facilityRoomPower = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "power_kw"),
		"Instantaneous power draw of this room, in kW",
		[]string{"room"},
		nil,
	)
	facilityRoomEnergy = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "energy_kwh"),
		"Cumulative energy consumption of this room, in kWh",
		[]string{"room"},
		nil,
	)
	facilityRoomCost = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "cost"),
		"Cumulative consumption cost of this room, in currency units",
		[]string{"room"},
		nil,
	)
	facilityRoomOccupancy = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "occupancy"),
		"Current number of occupants of this room",
		[]string{"room"},
		nil,
	)
	facilityRoomTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "temperature_celsius"),
		"Current temperature of this room in degrees celsius",
		[]string{"room"},
		nil,
	)
	facilityRoomEfficiency = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "efficiency_percentage"),
		"Efficiency score of this room (0-100)",
		[]string{"room"},
		nil,
	)
	facilityRoomStatus = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "status"),
		"Status of this room. Always 1. Label 'status' specifies the severity",
		[]string{"room", "status"},
		nil,
	)
	facilityRoomDeviceOn = prometheus.NewDesc(
		prometheus.BuildFQName("facility", "room", "device_on"),
		"1 if this device is switched on",
		[]string{"room", "device"},
		nil,
	)
)

type Publisher interface {
	Subscribe() chan simulator.Update
	Unsubscribe(chan simulator.Update)
}

// Collector caches the latest snapshot and serves it to Prometheus scrapes.
type Collector struct {
	Publisher  Publisher
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastUpdate *simulator.Update
}

// Run caches snapshots until ctx is canceled.
func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Publisher.Subscribe()
	defer c.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			c.process(update)
		}
	}
}

func (c *Collector) process(update simulator.Update) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastUpdate = &update
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- facilityTotalEnergy
	ch <- facilityTotalWater
	ch <- facilityTotalCost
	ch <- facilityTotalCO2
	ch <- facilityCurrentPower
	ch <- facilityCurrentFlow
	ch <- facilityEnergySaved
	ch <- facilityActiveAlerts
	ch <- facilityRoomPower
	ch <- facilityRoomEnergy
	ch <- facilityRoomCost
	ch <- facilityRoomOccupancy
	ch <- facilityRoomTemperature
	ch <- facilityRoomEfficiency
	ch <- facilityRoomStatus
	ch <- facilityRoomDeviceOn
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastUpdate == nil {
		return
	}

	totals := c.lastUpdate.Totals
	ch <- prometheus.MustNewConstMetric(facilityTotalEnergy, prometheus.CounterValue, totals.Energy)
	ch <- prometheus.MustNewConstMetric(facilityTotalWater, prometheus.CounterValue, totals.Water)
	ch <- prometheus.MustNewConstMetric(facilityTotalCost, prometheus.CounterValue, totals.Cost)
	ch <- prometheus.MustNewConstMetric(facilityTotalCO2, prometheus.CounterValue, totals.CO2)
	ch <- prometheus.MustNewConstMetric(facilityCurrentPower, prometheus.GaugeValue, totals.Power)
	ch <- prometheus.MustNewConstMetric(facilityCurrentFlow, prometheus.GaugeValue, totals.FlowRate)
	ch <- prometheus.MustNewConstMetric(facilityEnergySaved, prometheus.CounterValue, totals.EnergySaved)
	ch <- prometheus.MustNewConstMetric(facilityActiveAlerts, prometheus.GaugeValue, float64(len(c.lastUpdate.Alerts)))

	for _, room := range c.lastUpdate.Rooms {
		ch <- prometheus.MustNewConstMetric(facilityRoomPower, prometheus.GaugeValue, room.Power, room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomEnergy, prometheus.CounterValue, room.Energy, room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomCost, prometheus.CounterValue, room.Cost, room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomOccupancy, prometheus.GaugeValue, float64(room.Occupancy), room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomTemperature, prometheus.GaugeValue, room.Temperature, room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomEfficiency, prometheus.GaugeValue, room.Efficiency, room.Name)
		ch <- prometheus.MustNewConstMetric(facilityRoomStatus, prometheus.GaugeValue, 1, room.Name, room.Status.String())
		for kind, device := range room.Devices {
			var value float64
			if device.On {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(facilityRoomDeviceOn, prometheus.GaugeValue, value, room.Name, kind.String())
		}
	}
}
