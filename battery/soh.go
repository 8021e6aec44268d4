package battery

import "errors"

// Method identifies which estimation tier produced a SOH value.
type Method string

const (
	MethodMeasuredCapacity Method = "measured_capacity"
	MethodCycleHistory     Method = "cycle_history_estimate"
	MethodVoltageHeuristic Method = "voltage_heuristic"
)

// Confidence grades how much trust an estimate deserves. It is fixed by
// the method that produced the estimate, never adjusted afterwards.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SOHResult is the state-of-health estimate for one log.
type SOHResult struct {
	SOHPercent float64    `json:"soh_percent"`
	Method     Method     `json:"method"`
	Confidence Confidence `json:"confidence"`
}

// ErrInsufficientData is returned when a log carries none of the inputs
// any estimation method can work with. It is the only fatal condition in
// the report pipeline.
var ErrInsufficientData = errors.New("insufficient data: no SOH estimation method applicable")

// Resting-voltage anchors for the heuristic method: a mean cell voltage
// of 3.2V maps to 30% SOH, 4.2V to 100%. Means outside the window
// extrapolate linearly instead of clamping.
const (
	heuristicVLow    = 3.2
	heuristicVHigh   = 4.2
	heuristicSOHLow  = 30.0
	heuristicSOHHigh = 100.0
)

// EstimateSOH produces exactly one SOH estimate using the first
// applicable method in fixed priority order: measured capacity, then
// cycle-history average, then the resting-voltage heuristic. Methods are
// never combined. Returns ErrInsufficientData when none applies.
//
// Results are not clamped: a measured capacity above nominal yields a
// SOH above 100%, which is diagnostic signal rather than an error.
func EstimateSOH(l *DiagnosticLog) (SOHResult, error) {
	if l.MeasuredCapacityKWh != nil && l.NominalCapacityKWh > 0 {
		soh := *l.MeasuredCapacityKWh / l.NominalCapacityKWh * 100
		return SOHResult{
			SOHPercent: round2(soh),
			Method:     MethodMeasuredCapacity,
			Confidence: ConfidenceHigh,
		}, nil
	}

	if len(l.CycleHistory) > 0 {
		total := 0.0
		for _, c := range l.CycleHistory {
			total += c.EnergyKWh
		}
		avg := total / float64(len(l.CycleHistory))
		soh := avg / l.NominalCapacityKWh * 100
		return SOHResult{
			SOHPercent: round2(soh),
			Method:     MethodCycleHistory,
			Confidence: ConfidenceMedium,
		}, nil
	}

	if len(l.CellVoltages) > 0 {
		mean := 0.0
		for _, v := range l.CellVoltages {
			mean += v
		}
		mean /= float64(len(l.CellVoltages))
		soh := heuristicSOHLow + (mean-heuristicVLow)/(heuristicVHigh-heuristicVLow)*(heuristicSOHHigh-heuristicSOHLow)
		return SOHResult{
			SOHPercent: round2(soh),
			Method:     MethodVoltageHeuristic,
			Confidence: ConfidenceLow,
		}, nil
	}

	return SOHResult{}, ErrInsufficientData
}
