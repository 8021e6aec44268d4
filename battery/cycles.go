package battery

import "math"

// CyclesResult summarizes battery usage derived from the state-of-charge
// trace. Both fields are zero, not absent, when the trace is too short.
type CyclesResult struct {
	EquivalentFullCycles float64 `json:"equivalent_full_cycles"`
	DeepDischargeCycles  int     `json:"deep_discharge_cycles"`
}

// Deep-discharge thresholds: detection arms when SoC reaches armSoC and
// fires when the trace then falls to deepSoC or below.
const (
	armSoC  = 90.0
	deepSoC = 20.0
)

// deepState drives the deep-discharge scan. A single excursion counts at
// most once: after firing, the detector stays disarmed until the pack
// recharges to armSoC.
type deepState int

const (
	deepDisarmed     deepState = iota // waiting for SoC to reach armSoC
	deepArmedHigh                     // at or above armSoC
	deepArmedFalling                  // left the high band, watching for deepSoC
)

// CountCycles derives usage counters from a time-ordered SoC trace.
//
// Equivalent full cycles sum the absolute deltas between consecutive
// samples and divide by 100, so charging and discharging both count as
// usage; traces shorter than two samples yield zero. Deep discharges are
// counted by an explicit state machine so that each maximal descent from
// armSoC down to deepSoC is counted exactly once.
func CountCycles(trace []float64) CyclesResult {
	var res CyclesResult

	if len(trace) >= 2 {
		total := 0.0
		for i := 1; i < len(trace); i++ {
			total += math.Abs(trace[i] - trace[i-1])
		}
		res.EquivalentFullCycles = round2(total / 100)
	}

	state := deepDisarmed
	for _, soc := range trace {
		switch state {
		case deepDisarmed:
			if soc >= armSoC {
				state = deepArmedHigh
			}
		case deepArmedHigh, deepArmedFalling:
			switch {
			case soc <= deepSoC:
				res.DeepDischargeCycles++
				state = deepDisarmed
			case soc >= armSoC:
				state = deepArmedHigh
			default:
				state = deepArmedFalling
			}
		}
	}

	return res
}
