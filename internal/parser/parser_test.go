package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-dashboard/internal/models"
)

var abc = models.Vehicle{
	ID: "v1", Plate: "ABC-1234", Kind: "Caminhão", Group: "Grupo Norte", Fleet: "Operação SP",
	Driver: "Marcos Lima", Status: models.StatusOnline, State: "Em rota",
	SpeedKmh: 62, LastSignalSec: 15, DistanceTodayKm: 182, FuelTodayL: 48, IdleMin: 22,
}

func TestParseCSV(t *testing.T) {
	in := "id,plate,kind,group,fleet,driver,status,state,speed_kmh,last_signal_sec,distance_today_km,fuel_today_l,idle_min\n" +
		"v1,ABC-1234,Caminhão,Grupo Norte,Operação SP,Marcos Lima,ONLINE,Em rota,62,15,182,48,22\n" +
		",NOID-0000,Van,,,,online,,0,0,0,0,0\n"

	got, err := NewParser("csv").Parse(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, []models.Vehicle{abc}, got)
}

func TestParseJSONArrayAndLines(t *testing.T) {
	arr := `[{"id":"v1","plate":"ABC-1234","kind":"Caminhão","group":"Grupo Norte","fleet":"Operação SP","driver":"Marcos Lima","status":"online","state":"Em rota","speed_kmh":62,"last_signal_sec":15,"distance_today_km":182,"fuel_today_l":48,"idle_min":22}]`

	got, err := NewParser("json").Parse(strings.NewReader(arr))
	require.NoError(t, err)
	assert.Equal(t, []models.Vehicle{abc}, got)

	lines := "{\"id\":\"a\",\"plate\":\"A\"}\nnot json\n{\"id\":\"b\",\"plate\":\"B\"}\n"
	got, err = NewParser("json").Parse(strings.NewReader(lines))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestParseLog(t *testing.T) {
	in := "# seed\n" +
		"v1|ABC-1234|Caminhão|Grupo Norte|Operação SP|Marcos Lima|online|Em rota|62|15|182|48|22\n" +
		"short|line\n" +
		"v2|KLM-7788|Van|Filial Sul|Filial Sul|Renata Alves|attention|Parado\n"

	got, err := NewParser("log").Parse(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, abc, got[0])
	assert.Equal(t, models.StatusAttention, got[1].Status)
	assert.Zero(t, got[1].SpeedKmh)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.log")
	require.NoError(t, os.WriteFile(path, []byte("v1|ABC-1234|Caminhão|Grupo Norte|Operação SP|Marcos Lima|online|Em rota|62|15|182|48|22\n"), 0o644))

	got, err := NewParser(DetectFormat(path)).ParseFile(path)

	require.NoError(t, err)
	assert.Equal(t, []models.Vehicle{abc}, got)

	_, err = NewParser("xml").ParseFile(path)
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "json", DetectFormat("a.JSON"))
	assert.Equal(t, "json", DetectFormat("a.ndjson"))
	assert.Equal(t, "log", DetectFormat("a.log"))
	assert.Equal(t, "csv", DetectFormat("a.csv"))
	assert.Equal(t, "csv", DetectFormat("noext"))
}

func TestValidateAndSplit(t *testing.T) {
	bad := models.Vehicle{ID: "x", Status: "broken", SpeedKmh: -1}
	assert.Len(t, ValidateVehicle(&bad), 4)
	assert.Empty(t, ValidateVehicle(&abc))

	valid, invalid := Split([]models.Vehicle{abc, bad, abc, {}})

	assert.Equal(t, []models.Vehicle{abc}, valid)
	assert.Contains(t, invalid, "x")
	assert.Equal(t, []string{"duplicate id"}, invalid["v1"])
	assert.Contains(t, invalid, "#4")
}
