package commands

import "github.com/fatih/color"

var (
	prompt  = color.New(color.FgCyan, color.Bold)
	notice  = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

// initUI disables colors when asked to or when output is not a terminal
func initUI(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}
