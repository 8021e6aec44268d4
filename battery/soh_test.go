package battery

import (
	"errors"
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestEstimateSOH_MeasuredCapacity(t *testing.T) {
	log := &DiagnosticLog{
		VehicleID:           "VIN-TEST-001",
		NominalCapacityKWh:  75.0,
		MeasuredCapacityKWh: f64(53.25),
		CellVoltages:        []float64{3.65, 3.75},
	}

	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	if soh.SOHPercent != 71.0 {
		t.Errorf("SOHPercent = %v, want 71.0", soh.SOHPercent)
	}
	if soh.Method != MethodMeasuredCapacity {
		t.Errorf("Method = %q, want %q", soh.Method, MethodMeasuredCapacity)
	}
	if soh.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want %q", soh.Confidence, ConfidenceHigh)
	}
}

func TestEstimateSOH_CycleHistory(t *testing.T) {
	log := &DiagnosticLog{
		VehicleID:          "VIN-TEST-002",
		NominalCapacityKWh: 80.0,
		CycleHistory: []CycleRecord{
			{EnergyKWh: 60.0},
			{EnergyKWh: 62.0},
		},
		CellVoltages: []float64{3.8},
	}

	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	// (61 / 80) * 100
	if soh.SOHPercent != 76.25 {
		t.Errorf("SOHPercent = %v, want 76.25", soh.SOHPercent)
	}
	if soh.Method != MethodCycleHistory {
		t.Errorf("Method = %q, want %q", soh.Method, MethodCycleHistory)
	}
	if soh.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %q, want %q", soh.Confidence, ConfidenceMedium)
	}
}

func TestEstimateSOH_VoltageHeuristic(t *testing.T) {
	log := &DiagnosticLog{
		VehicleID:          "VIN-TEST-003",
		NominalCapacityKWh: 60.0,
		CellVoltages:       []float64{3.7, 3.7},
	}

	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	// 30 + (3.7 - 3.2) / 1.0 * 70
	if soh.SOHPercent != 65.0 {
		t.Errorf("SOHPercent = %v, want 65.0", soh.SOHPercent)
	}
	if soh.Method != MethodVoltageHeuristic {
		t.Errorf("Method = %q, want %q", soh.Method, MethodVoltageHeuristic)
	}
	if soh.Confidence != ConfidenceLow {
		t.Errorf("Confidence = %q, want %q", soh.Confidence, ConfidenceLow)
	}
}

func TestEstimateSOH_HeuristicMapping(t *testing.T) {
	tests := []struct {
		name  string
		cells []float64
		want  float64
	}{
		{"lower anchor", []float64{3.2}, 30.0},
		{"upper anchor", []float64{4.2}, 100.0},
		{"midpoint", []float64{3.7}, 65.0},
		{"extrapolates above", []float64{4.7}, 135.0},
		{"extrapolates below", []float64{3.0}, 16.0},
		{"mean of mixed cells", []float64{3.6, 3.8}, 65.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &DiagnosticLog{NominalCapacityKWh: 60.0, CellVoltages: tt.cells}
			soh, err := EstimateSOH(log)
			if err != nil {
				t.Fatalf("EstimateSOH() error = %v", err)
			}
			if soh.SOHPercent != tt.want {
				t.Errorf("SOHPercent = %v, want %v", soh.SOHPercent, tt.want)
			}
		})
	}
}

func TestEstimateSOH_PriorityOrder(t *testing.T) {
	// A log carrying all three data sources must use measured capacity.
	log := &DiagnosticLog{
		NominalCapacityKWh:  75.0,
		MeasuredCapacityKWh: f64(70.0),
		CycleHistory:        []CycleRecord{{EnergyKWh: 50.0}},
		CellVoltages:        []float64{3.5},
	}
	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	if soh.Method != MethodMeasuredCapacity {
		t.Errorf("Method = %q, want %q", soh.Method, MethodMeasuredCapacity)
	}

	// Without measured capacity, cycle history wins over cell voltages.
	log.MeasuredCapacityKWh = nil
	soh, err = EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	if soh.Method != MethodCycleHistory {
		t.Errorf("Method = %q, want %q", soh.Method, MethodCycleHistory)
	}
}

func TestEstimateSOH_NoClamping(t *testing.T) {
	log := &DiagnosticLog{
		NominalCapacityKWh:  75.0,
		MeasuredCapacityKWh: f64(80.0),
	}
	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	if soh.SOHPercent != 106.67 {
		t.Errorf("SOHPercent = %v, want 106.67 (no clamping above 100)", soh.SOHPercent)
	}
}

func TestEstimateSOH_ZeroNominalSkipsMeasured(t *testing.T) {
	// Measured capacity without a usable nominal rating falls through to
	// the next applicable method.
	log := &DiagnosticLog{
		MeasuredCapacityKWh: f64(53.25),
		CellVoltages:        []float64{3.7},
	}
	soh, err := EstimateSOH(log)
	if err != nil {
		t.Fatalf("EstimateSOH() error = %v", err)
	}
	if soh.Method != MethodVoltageHeuristic {
		t.Errorf("Method = %q, want %q", soh.Method, MethodVoltageHeuristic)
	}
}

func TestEstimateSOH_InsufficientData(t *testing.T) {
	log := &DiagnosticLog{
		VehicleID:          "VIN-EMPTY",
		NominalCapacityKWh: 75.0,
	}
	_, err := EstimateSOH(log)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("EstimateSOH() error = %v, want ErrInsufficientData", err)
	}
}
