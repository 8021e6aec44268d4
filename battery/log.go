package battery

// DiagnosticLog is one parsed battery diagnostic log. It is treated as
// read-only for the duration of a report call; optional scalars are
// pointers and optional sequences may be empty or nil.
type DiagnosticLog struct {
	VehicleID           string
	NominalCapacityKWh  float64
	MeasuredCapacityKWh *float64
	CycleHistory        []CycleRecord
	CellVoltages        []float64
	PackVoltage         *float64
	CellCount           int
	Temperatures        []float64
	SocTrace            []float64
}

// CycleRecord is one prior charge/discharge cycle from the vehicle's
// history. Only EnergyKWh participates in SOH estimation; the other
// fields are carried through for rendering.
type CycleRecord struct {
	StartSoC  float64 `json:"start_soc"`
	EndSoC    float64 `json:"end_soc"`
	EnergyKWh float64 `json:"energy_kwh"`
	DurationH float64 `json:"duration_h"`
}
