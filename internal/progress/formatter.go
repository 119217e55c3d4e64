package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// formatStageCounter returns the [N/Total] stage counter string
func formatStageCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStageMessage constructs the running-stage message
func buildStageMessage(stage StageInfo, action string) string {
	counter := formatStageCounter(stage.Number, stage.TotalStages)
	return fmt.Sprintf("%s %s %s", counter, action, capitalize(stage.Name))
}

// buildResultLine constructs the line printed when a stage ends
func buildResultLine(mark string, stage StageInfo, verb string) string {
	counter := formatStageCounter(stage.Number, stage.TotalStages)
	line := fmt.Sprintf("%s %s %s %s", mark, counter, capitalize(stage.Name), verb)
	if stage.Detail != "" {
		line += " (" + stage.Detail + ")"
	}
	return line
}

// capitalize returns the string with the first letter capitalized
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func paint(mark string, attr color.Attribute, supportsColor bool) string {
	if !supportsColor {
		return mark
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(mark)
}

// checkmark returns the success symbol, green when color is supported
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	return paint(symbols.Checkmark, color.FgGreen, supportsColor)
}

// skipMark returns the skipped symbol, yellow when color is supported
func skipMark(symbols ProgressSymbols, supportsColor bool) string {
	return paint(symbols.Skipped, color.FgYellow, supportsColor)
}

// failureMark returns the failure symbol, red when color is supported
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	return paint(symbols.Failure, color.FgRed, supportsColor)
}
