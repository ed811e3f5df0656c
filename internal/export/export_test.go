package export

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleet-dashboard/internal/models"
)

func sampleRows() []models.Record {
	return []models.Record{
		models.Vehicle{Plate: "ABC-1234", Fleet: "Operação SP", Group: "Grupo Norte", Driver: "Lima, Marcos", State: "Em rota", SpeedKmh: 62, LastSignalSec: 15},
		models.Vehicle{Plate: "KLM-7788", Fleet: "Filial Sul", Group: "Filial Sul", Driver: `Renata "Rê" Alves`, State: "Parado", SpeedKmh: 0, LastSignalSec: 180},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	want := "plate,fleet,group,driver,status,speedKmh,lastSignalSec\n" +
		"ABC-1234,Operação SP,Grupo Norte,\"Lima, Marcos\",Em rota,62,15\n" +
		"KLM-7788,Filial Sul,Filial Sul,\"Renata \"\"Rê\"\" Alves\",Parado,0,180\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteCSVFormattedFields(t *testing.T) {
	var buf bytes.Buffer
	rows := []models.Record{models.TripRow{Plate: "ABC-1234", Fleet: "SP", Trips: 3, DistanceKm: 250, DriveMin: 357, IdleMin: 45}}

	require.NoError(t, WriteCSV(&buf, rows))

	assert.Equal(t, "plate,fleet,trips,distanceKm,driveTime,idleTime\nABC-1234,SP,3,250,5h 57m,45 min\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "veiculos", sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"veiculos"}, f.GetSheetList())
	rows, err := f.GetRows("veiculos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"plate", "fleet", "group", "driver", "status", "speedKmh", "lastSignalSec"}, rows[0])
	assert.Equal(t, "Lima, Marcos", rows[1][3])
	assert.Equal(t, "180", rows[2][6])
}

func TestFileNaming(t *testing.T) {
	f := File{Filename: "telemetria_atual.csv"}
	assert.Equal(t, "telemetria_atual.csv", f.Name())
	assert.Equal(t, CSVContentType, f.ContentType())

	f.Format = XLSX
	assert.Equal(t, "telemetria_atual.xlsx", f.Name())
	assert.Equal(t, XLSXContentType, f.ContentType())

	assert.Equal(t, "export.csv", File{}.Name())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": CSV, "csv": CSV, " XLSX ": XLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestServe(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/vehicles/export", nil)

	err := Serve(rec, req, File{Report: "vehicles", Filename: "vehicles.csv", Rows: sampleRows()})

	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, CSVContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="vehicles.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "ABC-1234")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Save(context.Background(), dir, File{Report: "vehicles", Filename: "vehicles.csv", Format: XLSX, Rows: sampleRows()})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vehicles.xlsx"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
