// Package format renders mcnode CLI output.
package format

import "github.com/fatih/color"

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	headingColor = color.New(color.FgHiWhite, color.Bold)
	detailColor  = color.New(color.FgHiBlack)
)

// Success formats a message as a success (green).
func Success(format string, a ...interface{}) string {
	return successColor.Sprintf(format, a...)
}

// Error formats a message as an error (red).
func Error(format string, a ...interface{}) string {
	return errorColor.Sprintf(format, a...)
}

// Warning formats a message as a warning (yellow).
func Warning(format string, a ...interface{}) string {
	return warningColor.Sprintf(format, a...)
}

// Heading formats a message as a heading (bold white).
func Heading(format string, a ...interface{}) string {
	return headingColor.Sprintf(format, a...)
}

// Detail formats supporting output (dimmed).
func Detail(format string, a ...interface{}) string {
	return detailColor.Sprintf(format, a...)
}

// StatusSymbol returns a colorized status symbol.
func StatusSymbol(success bool) string {
	if success {
		return successColor.Sprint("✓")
	}
	return errorColor.Sprint("✗")
}
