package render

import (
	"os"
	"path/filepath"
	"testing"

	"volt-sentinel/battery"
)

func TestWritePDF(t *testing.T) {
	log := &battery.DiagnosticLog{
		VehicleID:    "VIN-TEST-001",
		CellVoltages: []float64{3.65, 3.75},
		SocTrace:     []float64{95, 18, 88, 25},
	}
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := WritePDF(testReport(), log, path); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("pdf is empty")
	}
	if string(data[:4]) != "%PDF" {
		t.Errorf("pdf header = %q, want %%PDF", data[:4])
	}
}

func TestWritePDF_NilLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := WritePDF(testReport(), nil, path); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
}

func TestWritePDF_NoAnomalies(t *testing.T) {
	r := testReport()
	r.Anomalies = []battery.Anomaly{}
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := WritePDF(r, &battery.DiagnosticLog{}, path); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
}
