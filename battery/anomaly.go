package battery

// AnomalyType identifies which threshold check an anomaly came from.
type AnomalyType string

const (
	AnomalyVoltageImbalance AnomalyType = "voltage_imbalance"
	AnomalyOverheating      AnomalyType = "overheating"
	AnomalyPackMismatch     AnomalyType = "pack_mismatch"
)

// Severity qualifies an anomaly. Voltage imbalance uses minor/major;
// overheating uses warning/critical; pack mismatch is always warning.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Anomaly is one threshold violation found in a log. Value is the
// measurement that triggered the check.
type Anomaly struct {
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
	Value    float64     `json:"value"`
}

// Detection thresholds.
const (
	spreadMinorV  = 0.05
	spreadMajorV  = 0.10
	tempWarnC     = 45.0
	tempCriticalC = 60.0

	// Sane resting window for implied per-cell voltage.
	impliedCellVMin = 2.5
	impliedCellVMax = 4.5
)

// DetectAnomalies runs the threshold checks in a fixed order (voltage
// spread, then maximum temperature, then pack mismatch) so the output is
// stable for identical logs. A check whose inputs are absent is skipped
// without error. The returned slice is never nil.
func DetectAnomalies(l *DiagnosticLog) []Anomaly {
	anomalies := []Anomaly{}

	if len(l.CellVoltages) >= 2 {
		minV, maxV := l.CellVoltages[0], l.CellVoltages[0]
		for _, v := range l.CellVoltages[1:] {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
		spread := maxV - minV
		switch {
		case spread >= spreadMajorV:
			anomalies = append(anomalies, Anomaly{Type: AnomalyVoltageImbalance, Severity: SeverityMajor, Value: round3(spread)})
		case spread >= spreadMinorV:
			anomalies = append(anomalies, Anomaly{Type: AnomalyVoltageImbalance, Severity: SeverityMinor, Value: round3(spread)})
		}
	}

	if len(l.Temperatures) > 0 {
		maxT := l.Temperatures[0]
		for _, t := range l.Temperatures[1:] {
			if t > maxT {
				maxT = t
			}
		}
		switch {
		case maxT >= tempCriticalC:
			anomalies = append(anomalies, Anomaly{Type: AnomalyOverheating, Severity: SeverityCritical, Value: maxT})
		case maxT >= tempWarnC:
			anomalies = append(anomalies, Anomaly{Type: AnomalyOverheating, Severity: SeverityWarning, Value: maxT})
		}
	}

	if l.PackVoltage != nil && l.CellCount > 0 {
		implied := *l.PackVoltage / float64(l.CellCount)
		if implied < impliedCellVMin || implied > impliedCellVMax {
			anomalies = append(anomalies, Anomaly{Type: AnomalyPackMismatch, Severity: SeverityWarning, Value: round2(implied)})
		}
	}

	return anomalies
}
