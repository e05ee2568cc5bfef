package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary metrics.
// Green: success/positive metrics
// Red: failure metrics
// Yellow: warning metrics
// Cyan: labels
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme for metrics.
// When enabled is false every color is disabled so output stays plain.
func newColorScheme(enabled bool) *colorScheme {
	scheme := &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
	if !enabled {
		for _, c := range []*color.Color{scheme.success, scheme.fail, scheme.warn, scheme.label, scheme.value} {
			c.DisableColor()
		}
	}
	return scheme
}

func (cl *ConsoleLogger) scheme() *colorScheme {
	return newColorScheme(cl.colorOutput)
}

// formatMetric formats "label: value" with separate colors for each side.
func formatMetric(label string, value interface{}, labelColor, valueColor *color.Color) string {
	return fmt.Sprintf("%s: %s", labelColor.Sprint(label), valueColor.Sprintf("%v", value))
}

// formatCount formats a counter that is highlighted only when non-zero.
func formatCount(label string, n int, highlight *color.Color, scheme *colorScheme) string {
	if n > 0 {
		return formatMetric(label, n, highlight, highlight)
	}
	return formatMetric(label, n, scheme.label, scheme.value)
}
