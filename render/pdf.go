package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"volt-sentinel/battery"
)

const (
	pdfPageWidth    = 210.0 // A4 portrait, mm
	pdfPageHeight   = 297.0
	pdfMargin       = 15.0
	pdfContentWidth = pdfPageWidth - 2*pdfMargin
	pdfLineHeight   = 6.0
)

// WritePDF renders the report as a printable A4 document at path.
// Charts are derived from the diagnostic log; sections with no
// underlying data are omitted. log may be nil.
func WritePDF(r *battery.Report, log *battery.DiagnosticLog, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pdfContentWidth, 10, "EV Battery Health Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pdfContentWidth, pdfLineHeight, "Vehicle: "+r.VehicleID, "", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, pdfLineHeight,
		"Generated: "+r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pdfContentWidth, 8, "State of Health", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pdfContentWidth, pdfLineHeight,
		fmt.Sprintf("%v%% (%s)", r.SOH.SOHPercent, battery.SOHBand(r.SOH.SOHPercent)),
		"", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, pdfLineHeight,
		fmt.Sprintf("Method: %s (%s confidence)", r.SOH.Method, r.SOH.Confidence),
		"", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, pdfLineHeight,
		fmt.Sprintf("Equivalent full cycles: %v", r.Cycles.EquivalentFullCycles),
		"", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, pdfLineHeight,
		fmt.Sprintf("Deep discharge cycles: %d", r.Cycles.DeepDischargeCycles),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pdfContentWidth, 8, "Anomalies", "", 1, "L", false, 0, "")
	if len(r.Anomalies) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(pdfContentWidth, pdfLineHeight, "None detected.", "", 1, "L", false, 0, "")
	} else {
		writeAnomalyTable(pdf, r.Anomalies)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pdfContentWidth, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(pdfContentWidth, pdfLineHeight, r.Explanation, "", "L", false)

	if log != nil {
		if err := writeCharts(pdf, log); err != nil {
			return err
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeAnomalyTable(pdf *gofpdf.Fpdf, anomalies []battery.Anomaly) {
	headers := []string{"Type", "Severity", "Value"}
	widths := []float64{0.5 * pdfContentWidth, 0.25 * pdfContentWidth, 0.25 * pdfContentWidth}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.SetTextColor(0, 0, 0)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], pdfLineHeight, h, "1", ln, "C", true, 0, "")
	}

	for _, a := range anomalies {
		if a.Severity == battery.SeverityMajor || a.Severity == battery.SeverityCritical {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetTextColor(200, 0, 0)
		} else {
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(50, 50, 50)
		}
		row := []string{string(a.Type), strings.ToUpper(string(a.Severity)), fmt.Sprintf("%v", a.Value)}
		for i, cell := range row {
			ln := 0
			if i == len(row)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", ln, "C", false, 0, "")
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

func writeCharts(pdf *gofpdf.Fpdf, log *battery.DiagnosticLog) error {
	socImg, err := SocTracePlot(log.SocTrace)
	if err != nil {
		return fmt.Errorf("soc chart: %w", err)
	}
	cellImg, err := CellVoltagePlot(log.CellVoltages)
	if err != nil {
		return fmt.Errorf("cell voltage chart: %w", err)
	}
	if len(socImg) == 0 && len(cellImg) == 0 {
		return nil
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pdfContentWidth, 8, "Charts", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(socImg) > 0 {
		embedChart(pdf, "soc_trace", socImg)
	}
	if len(cellImg) > 0 {
		embedChart(pdf, "cell_voltages", cellImg)
	}
	return nil
}

// embedChart places a 2:1 PNG at the current position, breaking to a
// new page if it would overflow the bottom margin.
func embedChart(pdf *gofpdf.Fpdf, name string, img []byte) {
	width := pdfContentWidth * 0.9
	height := width / 2

	pdf.RegisterImageReader(name, "PNG", bytes.NewReader(img))
	y := pdf.GetY()
	if y+height > pdfPageHeight-pdfMargin {
		pdf.AddPage()
		y = pdf.GetY()
	}
	pdf.Image(name, pdfMargin, y, width, height, false, "PNG", 0, "")
	pdf.SetY(y + height + 4)
}
