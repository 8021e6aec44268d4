package render

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SocTracePlot renders the state-of-charge trace as a PNG line chart
// with the deep-discharge arm and trigger thresholds marked. Returns
// nil bytes when the trace is empty; an empty chart is not an error.
func SocTracePlot(trace []float64) ([]byte, error) {
	if len(trace) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "State of Charge"
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "SoC (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	xMax := float64(len(trace))
	armLine, err := plotter.NewLine(plotter.XYs{{X: 1, Y: 90}, {X: xMax, Y: 90}})
	if err != nil {
		return nil, fmt.Errorf("create arm threshold line: %w", err)
	}
	armLine.Color = color.Gray{Y: 128}
	armLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(armLine)
	p.Legend.Add("90% arm", armLine)

	deepLine, err := plotter.NewLine(plotter.XYs{{X: 1, Y: 20}, {X: xMax, Y: 20}})
	if err != nil {
		return nil, fmt.Errorf("create deep threshold line: %w", err)
	}
	deepLine.Color = color.RGBA{R: 255, A: 255}
	deepLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(deepLine)
	p.Legend.Add("20% deep discharge", deepLine)

	pts := make(plotter.XYs, len(trace))
	for i, soc := range trace {
		pts[i] = plotter.XY{X: float64(i + 1), Y: soc}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("create trace line: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("SoC", line)
	p.Legend.Top = true

	return renderPNG(p)
}

// CellVoltagePlot renders per-cell voltages as a PNG line chart with a
// dashed mean line. Returns nil bytes when no voltages are present.
func CellVoltagePlot(voltages []float64) ([]byte, error) {
	if len(voltages) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "Cell Voltages"
	p.X.Label.Text = "Cell"
	p.Y.Label.Text = "Voltage (V)"
	p.Add(plotter.NewGrid())

	var sum float64
	pts := make(plotter.XYs, len(voltages))
	for i, v := range voltages {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
		sum += v
	}
	mean := sum / float64(len(voltages))

	xMax := float64(len(voltages))
	meanLine, err := plotter.NewLine(plotter.XYs{{X: 1, Y: mean}, {X: xMax, Y: mean}})
	if err != nil {
		return nil, fmt.Errorf("create mean line: %w", err)
	}
	meanLine.Color = color.Gray{Y: 128}
	meanLine.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(meanLine)
	p.Legend.Add(fmt.Sprintf("mean %.3fV", mean), meanLine)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("create voltage line: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("cell voltage", line)
	p.Legend.Top = true

	return renderPNG(p)
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(vg.Points(640), vg.Points(320), "png")
	if err != nil {
		return nil, fmt.Errorf("create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("write plot: %w", err)
	}
	return buf.Bytes(), nil
}
