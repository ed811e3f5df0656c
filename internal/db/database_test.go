package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-dashboard/internal/models"
)

func openTest(t *testing.T) *Database {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestSeedIfEmpty(t *testing.T) {
	d := openTest(t)
	demo := models.DemoDataset()

	seeded, err := d.SeedIfEmpty(demo)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = d.SeedIfEmpty(demo)
	require.NoError(t, err)
	assert.False(t, seeded)

	ds, err := d.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, demo, ds)
}

func TestUpsertKeepsOrder(t *testing.T) {
	d := openTest(t)
	require.NoError(t, d.ReplaceDataset(models.DemoDataset()))

	changed := models.DemoDataset().Vehicles[0]
	changed.SpeedKmh = 99
	changed.Status = models.StatusCritical
	n, err := d.UpsertVehicles([]models.Vehicle{changed, {
		ID: "v7", Plate: "NEW-0007", Kind: "Van", Group: "Filial Sul", Fleet: "Filial Sul",
		Driver: "Ana", Status: models.StatusOnline, State: "Em rota",
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	vehicles, err := d.ListVehicles()
	require.NoError(t, err)
	require.Len(t, vehicles, 7)
	assert.Equal(t, "v1", vehicles[0].ID)
	assert.Equal(t, 99, vehicles[0].SpeedKmh)
	assert.Equal(t, models.StatusCritical, vehicles[0].Status)
	assert.Equal(t, "v7", vehicles[6].ID)

	v, err := d.GetVehicle("v7")
	require.NoError(t, err)
	assert.Equal(t, "NEW-0007", v.Plate)

	_, err = d.GetVehicle("missing")
	assert.Error(t, err)
}

func TestListEventsMostRecentFirst(t *testing.T) {
	d := openTest(t)
	require.NoError(t, d.ReplaceDataset(models.DemoDataset()))

	events, err := d.ListEvents(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "e2", events[1].ID)
}

func TestStats(t *testing.T) {
	d := openTest(t)
	require.NoError(t, d.ReplaceDataset(models.DemoDataset()))

	stats, err := d.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats["total_vehicles"])
	assert.Equal(t, int64(3), stats["total_routes"])
	assert.Equal(t, int64(4), stats["total_events"])
	assert.Equal(t, int64(3), stats["total_fleets"])
}

func TestPreferences(t *testing.T) {
	d := openTest(t)

	assert.Equal(t, models.DefaultPreferences(), d.LoadPreferences())

	prefs := models.DefaultPreferences()
	prefs.Theme = "midnight"
	prefs.AutoRefresh = "off"
	require.NoError(t, d.SavePreferences(prefs))

	assert.Equal(t, prefs, d.LoadPreferences())
}

func TestPreferencesFallBackOnStorageError(t *testing.T) {
	d := openTest(t)
	require.NoError(t, d.Close())

	assert.Equal(t, models.DefaultPreferences(), d.LoadPreferences())
	assert.Error(t, d.SavePreferences(models.DefaultPreferences()))
}
