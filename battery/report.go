package battery

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Report is the complete health report for one diagnostic log. Field
// order matches the serialized key order consumed by downstream tooling;
// Anomalies is always present, marshaling as [] when empty.
type Report struct {
	VehicleID   string       `json:"vehicle_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	SOH         SOHResult    `json:"soh"`
	Cycles      CyclesResult `json:"cycles"`
	Anomalies   []Anomaly    `json:"anomalies"`
	Explanation string       `json:"explanation"`
}

// SOH health bands used in explanations and rendering.
const (
	bandHealthyMin  = 80.0
	bandDegradedMin = 60.0
)

// SOHBand maps a SOH percentage to "healthy", "degraded" or "critical".
func SOHBand(sohPercent float64) string {
	switch {
	case sohPercent >= bandHealthyMin:
		return "healthy"
	case sohPercent >= bandDegradedMin:
		return "degraded"
	default:
		return "critical"
	}
}

// AssemblerConfig configures report assembly. Clock defaults to time.Now
// and exists so tests can pin generated_at.
type AssemblerConfig struct {
	Clock func() time.Time
}

// Assembler builds reports. It holds no per-report state, so a single
// assembler is safe for concurrent use.
type Assembler struct {
	clock func() time.Time
}

// NewAssembler creates an assembler.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Assembler{clock: clock}
}

// Generate runs the full pipeline over one log: SOH estimation, cycle
// counting and anomaly detection, merged into a fresh Report. The only
// failure mode is ErrInsufficientData from estimation; it is returned
// as-is and no partial report is produced.
func (a *Assembler) Generate(l *DiagnosticLog) (*Report, error) {
	soh, err := EstimateSOH(l)
	if err != nil {
		return nil, err
	}

	cycles := CountCycles(l.SocTrace)
	anomalies := DetectAnomalies(l)

	return &Report{
		VehicleID:   l.VehicleID,
		GeneratedAt: a.clock().UTC(),
		SOH:         soh,
		Cycles:      cycles,
		Anomalies:   anomalies,
		Explanation: buildExplanation(soh, cycles, anomalies),
	}, nil
}

// GenerateReport is the wall-clock convenience wrapper around Generate.
func GenerateReport(l *DiagnosticLog) (*Report, error) {
	return NewAssembler(AssemblerConfig{}).Generate(l)
}

// buildExplanation renders the fixed-template summary line. Numbers use
// the shortest exact decimal form so identical inputs always yield the
// identical string.
func buildExplanation(soh SOHResult, cycles CyclesResult, anomalies []Anomaly) string {
	s := fmt.Sprintf("Battery SOH is %s%% (%s), calculated via %s with %s confidence. Total equivalent cycles: %s.",
		formatFloat(soh.SOHPercent), SOHBand(soh.SOHPercent), soh.Method, soh.Confidence,
		formatFloat(cycles.EquivalentFullCycles),
	)
	switch n := len(anomalies); n {
	case 0:
		s += " No anomalies detected."
	case 1:
		s += " Detected 1 anomaly."
	default:
		s += fmt.Sprintf(" Detected %d anomalies.", n)
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 and round3 fix the precision of derived numbers so serialized
// reports are bit-stable across runs.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
