package facility_test

import (
	"testing"

	"github.com/clambin/facility-monitor/internal/facility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDeviceKind_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    facility.DeviceKind
		wantErr assert.ErrorAssertionFunc
	}{
		{name: "lights", input: "lights", want: facility.Lights, wantErr: assert.NoError},
		{name: "fan", input: "fan", want: facility.Fan, wantErr: assert.NoError},
		{name: "ac", input: "ac", want: facility.AC, wantErr: assert.NoError},
		{name: "motor", input: "motor", want: facility.Motor, wantErr: assert.NoError},
		{name: "unknown", input: "heater", wantErr: assert.Error},
		{name: "empty", input: `""`, wantErr: assert.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var kind facility.DeviceKind
			tt.wantErr(t, yaml.Unmarshal([]byte(tt.input), &kind))
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestDeviceKind_Marshal(t *testing.T) {
	output, err := yaml.Marshal(facility.Motor)
	require.NoError(t, err)
	assert.Equal(t, "motor\n", string(output))

	_, err = yaml.Marshal(facility.DeviceKind(-1))
	assert.Error(t, err)

	text, err := facility.AC.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ac", string(text))
}

func TestDeviceKind_String(t *testing.T) {
	assert.Equal(t, "lights", facility.Lights.String())
	assert.Equal(t, "devicekind(-1)", facility.DeviceKind(-1).String())
	assert.Equal(t, "devicekind(99)", facility.DeviceKind(99).String())
}

func TestCatalog_MustGet(t *testing.T) {
	catalog := facility.DefaultCatalog()

	lights := catalog.MustGet(facility.Lights)
	assert.Equal(t, 0.06, lights.Power)
	assert.Zero(t, lights.Flow)

	motor := catalog.MustGet(facility.Motor)
	assert.Equal(t, 0.5, motor.Power)
	assert.Equal(t, 8.0, motor.Flow)

	assert.Panics(t, func() {
		facility.Catalog{}.MustGet(facility.Lights)
	})
}
