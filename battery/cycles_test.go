package battery

import "testing"

func TestCountCycles_EquivalentFullCycles(t *testing.T) {
	tests := []struct {
		name  string
		trace []float64
		want  float64
	}{
		{"full discharge and recharge", []float64{100, 0, 100}, 2.0},
		{"partial swings", []float64{95, 18, 88, 25}, 2.1},
		{"monotonic discharge", []float64{90, 70, 50, 30}, 0.6},
		{"flat trace", []float64{50, 50, 50}, 0.0},
		{"empty trace", nil, 0.0},
		{"single sample", []float64{80}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CountCycles(tt.trace)
			if res.EquivalentFullCycles != tt.want {
				t.Errorf("CountCycles(%v).EquivalentFullCycles = %v, want %v", tt.trace, res.EquivalentFullCycles, tt.want)
			}
		})
	}
}

func TestCountCycles_DeepDischarge(t *testing.T) {
	tests := []struct {
		name  string
		trace []float64
		want  int
	}{
		{"two full deep cycles", []float64{95, 15, 95, 10}, 2},
		{"gradual descent", []float64{95, 50, 15}, 1},
		{"never armed", []float64{50, 15}, 0},
		{"stays low after drop", []float64{95, 15, 18}, 1},
		{"no rearm between drops", []float64{95, 15, 85, 10}, 1},
		{"boundary values arm and fire", []float64{90, 20}, 1},
		{"just inside thresholds", []float64{89.9, 20.1}, 0},
		{"rearm at exact ninety", []float64{95, 15, 90, 19}, 2},
		{"empty trace", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CountCycles(tt.trace)
			if res.DeepDischargeCycles != tt.want {
				t.Errorf("CountCycles(%v).DeepDischargeCycles = %v, want %v", tt.trace, res.DeepDischargeCycles, tt.want)
			}
		})
	}
}

func TestCountCycles_DeepCountIndependentOfEFC(t *testing.T) {
	// A single-direction plunge counts one deep discharge and only the
	// traversed fraction of an equivalent cycle.
	res := CountCycles([]float64{100, 0})
	if res.EquivalentFullCycles != 1.0 {
		t.Errorf("EquivalentFullCycles = %v, want 1.0", res.EquivalentFullCycles)
	}
	if res.DeepDischargeCycles != 1 {
		t.Errorf("DeepDischargeCycles = %v, want 1", res.DeepDischargeCycles)
	}
}
