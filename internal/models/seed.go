package models

// DemoDataset returns the built-in seed used when no dataset was ingested
func DemoDataset() Dataset {
	return Dataset{
		Vehicles: []Vehicle{
			{ID: "v1", Plate: "ABC-1234", Kind: "Caminhão", Group: "Grupo Norte", Fleet: "Operação SP", Driver: "Marcos Lima", Status: StatusOnline, State: "Em rota", SpeedKmh: 62, LastSignalSec: 15, DistanceTodayKm: 182, FuelTodayL: 48, IdleMin: 22},
			{ID: "v2", Plate: "KLM-7788", Kind: "Van", Group: "Filial Sul", Fleet: "Filial Sul", Driver: "Renata Alves", Status: StatusAttention, State: "Parado", SpeedKmh: 0, LastSignalSec: 180, DistanceTodayKm: 74, FuelTodayL: 22, IdleMin: 96},
			{ID: "v3", Plate: "XYZ-9090", Kind: "Carro", Group: "Operação SP", Fleet: "Operação SP", Driver: "João Pedro", Status: StatusCritical, State: "Alerta", SpeedKmh: 88, LastSignalSec: 8, DistanceTodayKm: 126, FuelTodayL: 18, IdleMin: 8},
			{ID: "v4", Plate: "QWE-2020", Kind: "Caminhão", Group: "Operação RJ", Fleet: "Operação RJ", Driver: "Carla Souza", Status: StatusOnline, State: "Em rota", SpeedKmh: 54, LastSignalSec: 42, DistanceTodayKm: 210, FuelTodayL: 63, IdleMin: 18},
			{ID: "v5", Plate: "RTY-4411", Kind: "Van", Group: "Grupo Norte", Fleet: "Operação SP", Driver: "Paulo Reis", Status: StatusOnline, State: "Em rota", SpeedKmh: 71, LastSignalSec: 22, DistanceTodayKm: 96, FuelTodayL: 28, IdleMin: 12},
			{ID: "v6", Plate: "HJK-5500", Kind: "Carro", Group: "Operação RJ", Fleet: "Operação RJ", Driver: "Bianca Moraes", Status: StatusAttention, State: "Sem sinal", SpeedKmh: 0, LastSignalSec: 680, DistanceTodayKm: 52, FuelTodayL: 10, IdleMin: 140},
		},
		Routes: []Route{
			{ID: "r1", Name: "SP → Santos", VehicleID: "v1", DurationMin: 128},
			{ID: "r2", Name: "RJ Centro → Duque de Caxias", VehicleID: "v4", DurationMin: 74},
			{ID: "r3", Name: "Curitiba → Joinville", VehicleID: "v2", DurationMin: 156},
		},
		Events: []Event{
			{ID: "e1", WhenMinAgo: 3, VehicleID: "v3", Kind: "Excesso de velocidade", Severity: "danger"},
			{ID: "e2", WhenMinAgo: 14, VehicleID: "v6", Kind: "Perda de sinal", Severity: "warning"},
			{ID: "e3", WhenMinAgo: 26, VehicleID: "v2", Kind: "Parada prolongada", Severity: "warning"},
			{ID: "e4", WhenMinAgo: 47, VehicleID: "v1", Kind: "Entrada em área", Severity: "success"},
		},
	}
}
