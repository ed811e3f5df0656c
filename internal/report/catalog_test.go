package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesInFirstSeenOrder(t *testing.T) {
	cats := demoCatalog().Categories()

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		CategoryTracking, CategoryOperations, CategorySafety,
		CategoryCosts, CategoryMaintenance, CategoryCompliance,
	}, names)

	require.Len(t, cats[2].Reports, 2)
	assert.Equal(t, "speeding", cats[2].Reports[0].ID)
	assert.Equal(t, "behavior", cats[2].Reports[1].ID)
}

func TestGetUnknownReport(t *testing.T) {
	_, err := demoCatalog().Get("nope")
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestFleetOptions(t *testing.T) {
	c := demoCatalog()

	assert.Equal(t, []string{"Filial Sul", "Operação RJ", "Operação SP"}, c.FleetOptions())
	assert.Len(t, c.Scoped(""), 6)
	assert.Len(t, c.Scoped("Operação RJ"), 2)
	assert.Empty(t, c.Scoped("Frota X"))
	assert.True(t, c.HasCategory(CategoryCosts))
	assert.False(t, c.HasCategory("Outros"))
}

func TestReportMeta(t *testing.T) {
	files := map[string]string{}
	for _, r := range demoCatalog().Reports() {
		m := r.Meta()
		files[m.ID] = m.ExportFilename
		assert.Positive(t, m.Cap, m.ID)
	}

	assert.Equal(t, map[string]string{
		"telemetry":   "telemetria_atual.csv",
		"trips":       "relatorio_viagens.csv",
		"speeding":    "eventos_velocidade.csv",
		"fuel":        "consumo_combustivel.csv",
		"idle":        "tempo_parado.csv",
		"maintenance": "manutencao_preventiva.csv",
		"geofence":    "cercas_virtuais.csv",
		"behavior":    "comportamento_motorista.csv",
		"positions":   "historico_posicoes.csv",
	}, files)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"10", 10, true},
		{" 12.5 ", 12.5, true},
		{"12,5", 12.5, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-infinity", 0, false},
		{"1e400", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
