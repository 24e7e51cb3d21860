package monitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeViper(t *testing.T) *viper.Viper {
	t.Helper()
	cfg := viper.New()
	cfg.Set("monitor.interval", "5s")
	cfg.Set("exporter.addr", ":9090")
	cfg.Set("health.addr", ":8080")
	cfg.Set("api.addr", ":8081")
	cfg.Set("automation.lightsOff", "22:00")
	cfg.Set("automation.occupancyControl", true)
	cfg.Set("automation.acTemperature", 24)
	cfg.Set("automation.tolerance", 0)
	cfg.Set("rates.energy", 7.0)
	cfg.Set("rates.water", 0.015)
	return cfg
}

func TestNew(t *testing.T) {
	m, err := New(makeViper(t), "dev", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNew_WithSlack(t *testing.T) {
	cfg := makeViper(t)
	cfg.Set("slack.token", "xoxb-token")
	m, err := New(cfg, "dev", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNew_InvalidSettings(t *testing.T) {
	cfg := makeViper(t)
	cfg.Set("automation.lightsOff", "25:00")
	_, err := New(cfg, "dev", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "automation.lightsOff")

	cfg = makeViper(t)
	cfg.Set("automation.acTemperature", 100)
	_, err = New(cfg, "dev", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "invalid ac temperature")
}

func TestMaybeLoadFacility(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	layout, err := maybeLoadFacility(filepath.Join(t.TempDir(), "facility.yaml"), logger)
	require.NoError(t, err)
	assert.Nil(t, layout, "a missing layout file is not an error")

	path := filepath.Join(t.TempDir(), "facility.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rooms:
  - id: 1
    name: Classroom A
    category: classroom
    capacity: 30
    occupancy: 25
    devices: [ lights, fan, ac ]
rates:
  energy: 7
  water: 0.015
`), 0644))
	layout, err = maybeLoadFacility(path, logger)
	require.NoError(t, err)
	require.NotNil(t, layout)
	require.Len(t, layout.Rooms, 1)
	assert.Equal(t, "Classroom A", layout.Rooms[0].Name)
	assert.Equal(t, 7.0, layout.Rates.Energy)

	path = filepath.Join(t.TempDir(), "facility.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rooms: []`), 0644))
	_, err = maybeLoadFacility(path, logger)
	assert.ErrorContains(t, err, "no rooms defined")
}
