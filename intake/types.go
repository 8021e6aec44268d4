package intake

import (
	"fmt"

	"volt-sentinel/battery"
)

// Cell is one cell reading inside a diagnostic log upload.
type Cell struct {
	ID      int     `json:"id"`
	Voltage float64 `json:"voltage"`
	TempC   float64 `json:"temp_c"`
}

// SocSample is one timestamped state-of-charge reading.
type SocSample struct {
	TS  string  `json:"ts"`
	SoC float64 `json:"soc"`
}

// BatteryLog is the wire form of an EV diagnostic log as uploaded by
// vehicles or fleet tooling. Optional scalars are pointers so absence
// is distinguishable from zero.
type BatteryLog struct {
	VehicleID           string                `json:"vehicle_id"`
	Timestamp           string                `json:"timestamp"`
	NominalCapacityKWh  float64               `json:"nominal_capacity_kwh"`
	MeasuredCapacityKWh *float64              `json:"measured_capacity_kwh"`
	PackVoltage         *float64              `json:"pack_voltage"`
	CellCount           int                   `json:"cell_count"`
	Cells               []Cell                `json:"cells"`
	SocTimeseries       []SocSample           `json:"soc_timeseries"`
	CycleHistory        []battery.CycleRecord `json:"cycle_history"`
}

// Validate checks the structural contract a log must satisfy before
// diagnosis. Sensor values themselves are not range-checked here;
// implausible readings are the diagnosis engine's job to flag.
func (l *BatteryLog) Validate() error {
	if l.VehicleID == "" {
		return fmt.Errorf("vehicle_id is required")
	}
	if l.NominalCapacityKWh <= 0 {
		return fmt.Errorf("nominal_capacity_kwh must be positive, got %v", l.NominalCapacityKWh)
	}
	if l.MeasuredCapacityKWh != nil && *l.MeasuredCapacityKWh <= 0 {
		return fmt.Errorf("measured_capacity_kwh must be positive when present, got %v", *l.MeasuredCapacityKWh)
	}
	if l.CellCount < 0 {
		return fmt.Errorf("cell_count must not be negative, got %d", l.CellCount)
	}
	return nil
}

// Diagnostic flattens the wire log into the engine's input form. Cell
// readings split into parallel voltage and temperature sequences; the
// SoC timeseries drops its timestamps and keeps ordered values.
func (l *BatteryLog) Diagnostic() *battery.DiagnosticLog {
	d := &battery.DiagnosticLog{
		VehicleID:           l.VehicleID,
		NominalCapacityKWh:  l.NominalCapacityKWh,
		MeasuredCapacityKWh: l.MeasuredCapacityKWh,
		CycleHistory:        l.CycleHistory,
		PackVoltage:         l.PackVoltage,
		CellCount:           l.CellCount,
	}
	if len(l.Cells) > 0 {
		d.CellVoltages = make([]float64, 0, len(l.Cells))
		d.Temperatures = make([]float64, 0, len(l.Cells))
		for _, c := range l.Cells {
			d.CellVoltages = append(d.CellVoltages, c.Voltage)
			d.Temperatures = append(d.Temperatures, c.TempC)
		}
	}
	if len(l.SocTimeseries) > 0 {
		d.SocTrace = make([]float64, 0, len(l.SocTimeseries))
		for _, s := range l.SocTimeseries {
			d.SocTrace = append(d.SocTrace, s.SoC)
		}
	}
	return d
}
