package intake

import (
	"reflect"
	"strings"
	"testing"

	"volt-sentinel/battery"
)

func f64(v float64) *float64 { return &v }

func TestBatteryLog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		log     BatteryLog
		wantErr string
	}{
		{
			"minimal valid",
			BatteryLog{VehicleID: "VIN-1", NominalCapacityKWh: 75.0},
			"",
		},
		{
			"missing vehicle id",
			BatteryLog{NominalCapacityKWh: 75.0},
			"vehicle_id is required",
		},
		{
			"zero nominal capacity",
			BatteryLog{VehicleID: "VIN-1"},
			"nominal_capacity_kwh must be positive",
		},
		{
			"negative nominal capacity",
			BatteryLog{VehicleID: "VIN-1", NominalCapacityKWh: -10.0},
			"nominal_capacity_kwh must be positive",
		},
		{
			"zero measured capacity present",
			BatteryLog{VehicleID: "VIN-1", NominalCapacityKWh: 75.0, MeasuredCapacityKWh: f64(0)},
			"measured_capacity_kwh must be positive",
		},
		{
			"negative cell count",
			BatteryLog{VehicleID: "VIN-1", NominalCapacityKWh: 75.0, CellCount: -4},
			"cell_count must not be negative",
		},
		{
			"full valid log",
			BatteryLog{
				VehicleID:           "VIN-1",
				NominalCapacityKWh:  75.0,
				MeasuredCapacityKWh: f64(53.25),
				PackVoltage:         f64(380.0),
				CellCount:           96,
				Cells:               []Cell{{ID: 0, Voltage: 3.7, TempC: 30.0}},
			},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBatteryLog_Diagnostic(t *testing.T) {
	log := BatteryLog{
		VehicleID:           "VIN-TEST-001",
		Timestamp:           "2024-06-01T10:00:00Z",
		NominalCapacityKWh:  75.0,
		MeasuredCapacityKWh: f64(53.25),
		PackVoltage:         f64(355.2),
		CellCount:           96,
		Cells: []Cell{
			{ID: 0, Voltage: 3.65, TempC: 28.5},
			{ID: 1, Voltage: 3.75, TempC: 61.0},
		},
		SocTimeseries: []SocSample{
			{TS: "2024-06-01T08:00:00Z", SoC: 95},
			{TS: "2024-06-01T09:00:00Z", SoC: 18},
		},
		CycleHistory: []battery.CycleRecord{
			{StartSoC: 90, EndSoC: 20, EnergyKWh: 52.5, DurationH: 2.5},
		},
	}

	d := log.Diagnostic()

	if d.VehicleID != "VIN-TEST-001" {
		t.Errorf("VehicleID = %q, want VIN-TEST-001", d.VehicleID)
	}
	if d.NominalCapacityKWh != 75.0 {
		t.Errorf("NominalCapacityKWh = %v, want 75.0", d.NominalCapacityKWh)
	}
	if d.MeasuredCapacityKWh == nil || *d.MeasuredCapacityKWh != 53.25 {
		t.Errorf("MeasuredCapacityKWh = %v, want 53.25", d.MeasuredCapacityKWh)
	}
	if d.PackVoltage == nil || *d.PackVoltage != 355.2 {
		t.Errorf("PackVoltage = %v, want 355.2", d.PackVoltage)
	}
	if d.CellCount != 96 {
		t.Errorf("CellCount = %d, want 96", d.CellCount)
	}
	if want := []float64{3.65, 3.75}; !reflect.DeepEqual(d.CellVoltages, want) {
		t.Errorf("CellVoltages = %v, want %v", d.CellVoltages, want)
	}
	if want := []float64{28.5, 61.0}; !reflect.DeepEqual(d.Temperatures, want) {
		t.Errorf("Temperatures = %v, want %v", d.Temperatures, want)
	}
	if want := []float64{95, 18}; !reflect.DeepEqual(d.SocTrace, want) {
		t.Errorf("SocTrace = %v, want %v", d.SocTrace, want)
	}
	if len(d.CycleHistory) != 1 || d.CycleHistory[0].EnergyKWh != 52.5 {
		t.Errorf("CycleHistory = %v, want one record with 52.5 kWh", d.CycleHistory)
	}
}

func TestBatteryLog_DiagnosticEmptySequences(t *testing.T) {
	log := BatteryLog{VehicleID: "VIN-2", NominalCapacityKWh: 60.0}
	d := log.Diagnostic()

	if d.CellVoltages != nil {
		t.Errorf("CellVoltages = %v, want nil", d.CellVoltages)
	}
	if d.Temperatures != nil {
		t.Errorf("Temperatures = %v, want nil", d.Temperatures)
	}
	if d.SocTrace != nil {
		t.Errorf("SocTrace = %v, want nil", d.SocTrace)
	}
}
