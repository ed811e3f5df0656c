package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-dashboard/internal/models"
)

func TestHash(t *testing.T) {
	assert.Equal(t, uint32(0x811c9dc5), Hash(""))
	assert.Equal(t, uint32(0xe40c292c), Hash("a"))
	assert.Equal(t, Hash("v1:speed:7:3"), Hash(Key("v1", KindSpeeding, 7, 3)))
	assert.NotEqual(t, Hash(Key("v1", KindSpeeding, 7, 3)), Hash(Key("v1", KindSpeeding, 7, 4)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 120))
	assert.Equal(t, 120, Clamp(500, 0, 120))
	assert.Equal(t, 42, Clamp(42, 0, 120))
	assert.Equal(t, 11.6, ClampFloat(3, 11.6, 14.6))
}

func TestRowsAreDeterministic(t *testing.T) {
	vehicles := models.DemoDataset().Vehicles

	for _, v := range vehicles {
		assert.Equal(t, Telemetry(v), Telemetry(v))
		assert.Equal(t, Trips(v, 7), Trips(v, 7))
		assert.Equal(t, Fuel(v, 7), Fuel(v, 7))
		assert.Equal(t, Idle(v, 15), Idle(v, 15))
		assert.Equal(t, Maintenance(v), Maintenance(v))
		assert.Equal(t, Behavior(v, 30), Behavior(v, 30))
	}

	for idx := 0; idx < 50; idx++ {
		assert.Equal(t, Speeding(vehicles, 7, idx, 80), Speeding(vehicles, 7, idx, 80))
		assert.Equal(t, Geofence(vehicles, 7, idx), Geofence(vehicles, 7, idx))
		assert.Equal(t, Position(vehicles, 7, idx), Position(vehicles, 7, idx))
	}
}

func TestRowsStayInPhysicalRanges(t *testing.T) {
	vehicles := models.DemoDataset().Vehicles

	for _, v := range vehicles {
		row := Telemetry(v)
		assert.GreaterOrEqual(t, row.SpeedKmh, 0)
		assert.LessOrEqual(t, row.SpeedKmh, 120)
		assert.GreaterOrEqual(t, row.FuelPct, 5)
		assert.LessOrEqual(t, row.FuelPct, 100)
		assert.GreaterOrEqual(t, row.RPM, 700)
		assert.LessOrEqual(t, row.RPM, 4200)
		assert.GreaterOrEqual(t, row.BatteryV, 11.6)
		assert.LessOrEqual(t, row.BatteryV, 14.6)
		assert.Contains(t, []string{"2D", "3D"}, row.GPSFix)

		b := Behavior(v, 7)
		assert.GreaterOrEqual(t, b.SafetyScore, 40)
		assert.LessOrEqual(t, b.SafetyScore, 99)

		m := Maintenance(v)
		assert.GreaterOrEqual(t, m.NextServiceKm, -900)
		assert.LessOrEqual(t, m.NextServiceKm, 15000)
	}

	for idx := 0; idx < 500; idx++ {
		s := Speeding(vehicles, 30, idx, 80)
		assert.Equal(t, s.SpeedKmh-80, s.ExcessKmh)
		assert.GreaterOrEqual(t, s.SpeedKmh, 70)
		assert.LessOrEqual(t, s.SpeedKmh, 140)

		p := Position(vehicles, 30, idx)
		assert.GreaterOrEqual(t, p.SpeedKmh, 0)
		assert.LessOrEqual(t, p.SpeedKmh, 120)
		assert.InDelta(t, -23.45, p.Lat, 0.1001)
		assert.InDelta(t, -46.53, p.Lng, 0.1001)
	}
}

func TestMaintenancePriority(t *testing.T) {
	for _, v := range models.DemoDataset().Vehicles {
		m := Maintenance(v)
		switch {
		case m.NextServiceKm < 0:
			assert.Equal(t, models.PriorityOverdue, m.Priority)
		case m.NextServiceKm < 800:
			assert.Equal(t, models.PriorityUrgent, m.Priority)
		case m.NextServiceKm < 2500:
			assert.Equal(t, models.PriorityAttention, m.Priority)
		default:
			assert.Equal(t, models.PriorityOK, m.Priority)
		}
	}
}

func TestWhenLabel(t *testing.T) {
	vehicles := models.DemoDataset().Vehicles
	row := Speeding(vehicles, 7, 9, 80)

	require.Equal(t, vehicles[3].Plate, row.Plate)
	assert.Regexp(t, `^D-3 \d{2}:\d{2}$`, row.When)

	// a zero period must not divide by zero
	assert.NotPanics(t, func() { Geofence(vehicles, 0, 4) })
}

func TestUniverses(t *testing.T) {
	assert.Equal(t, 6*70, SpeedingUniverse(6, 7))
	assert.Equal(t, 6*10, SpeedingUniverse(6, 1))
	assert.Equal(t, 6*56, GeofenceUniverse(6, 7))
	assert.Equal(t, 6*1750, PositionUniverse(6, 7))
	assert.Equal(t, 3000, Capped(PositionUniverse(6, 7), 3000))
	assert.Equal(t, 0, Capped(-1, 3000))
}
