package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"volt-sentinel/battery"
)

// Text renders a report as a human-readable terminal block. All
// styling is dropped when color is false, so output is plain text.
func Text(r *battery.Report, color bool) string {
	titleStyle := lipgloss.NewStyle()
	labelStyle := lipgloss.NewStyle()
	mutedStyle := lipgloss.NewStyle()
	sohStyle := lipgloss.NewStyle()
	if color {
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("69"))
		labelStyle = labelStyle.Bold(true)
		mutedStyle = mutedStyle.Foreground(lipgloss.Color("240"))
		sohStyle = sohStyle.Bold(true).Foreground(bandColor(battery.SOHBand(r.SOH.SOHPercent)))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("EV Battery Health Report") + "\n")
	writeLabeledLine(&b, labelStyle, "Vehicle", r.VehicleID)
	writeLabeledLine(&b, mutedStyle, "Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString("\n")

	sohText := fmt.Sprintf("%v%% (%s)", r.SOH.SOHPercent, battery.SOHBand(r.SOH.SOHPercent))
	writeLabeledLine(&b, labelStyle, "State of Health", sohStyle.Render(sohText))
	writeLabeledLine(&b, labelStyle, "Method", fmt.Sprintf("%s (%s confidence)", r.SOH.Method, r.SOH.Confidence))
	writeLabeledLine(&b, labelStyle, "Equivalent cycles", fmt.Sprintf("%v", r.Cycles.EquivalentFullCycles))
	writeLabeledLine(&b, labelStyle, "Deep discharges", fmt.Sprintf("%d", r.Cycles.DeepDischargeCycles))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Anomalies") + "\n")
	if len(r.Anomalies) == 0 {
		b.WriteString("  " + mutedStyle.Render("(none detected)") + "\n")
	} else {
		for _, a := range r.Anomalies {
			tag := fmt.Sprintf("[%s]", strings.ToUpper(string(a.Severity)))
			if color {
				tag = severityStyle(a.Severity).Render(tag)
			}
			b.WriteString(fmt.Sprintf("  %s %s: %v\n", tag, a.Type, a.Value))
		}
	}
	b.WriteString("\n")

	b.WriteString(r.Explanation + "\n")
	return b.String()
}

func writeLabeledLine(b *strings.Builder, style lipgloss.Style, label, value string) {
	b.WriteString(style.Render(label+":") + " " + value + "\n")
}

func bandColor(band string) lipgloss.Color {
	switch band {
	case "healthy":
		return lipgloss.Color("42")
	case "degraded":
		return lipgloss.Color("220")
	default:
		return lipgloss.Color("196")
	}
}

func severityStyle(sev battery.Severity) lipgloss.Style {
	switch sev {
	case battery.SeverityMajor, battery.SeverityCritical:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	}
}
