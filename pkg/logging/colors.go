// Package logging provides colorized, level-tagged operational
// logging for the CDP agent (SPEC_FULL.md §1 ambient stack).
//
// Adapted from the teacher's pkg/logging/colors.go: the same
// package-level color functions gated by a NO_COLOR-respecting
// enabled flag, narrowed from the teacher's general Protocol/Device
// verbs to Neighbor/TLV verbs so the parser can log "one informational
// event" per skipped unknown TLV (spec.md §8 scenario 3) and the agent
// can log neighbor up/down/transmit activity.
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Color functions
	errorColor    = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow)
	successColor  = color.New(color.FgGreen)
	infoColor     = color.New(color.FgBlue)
	neighborColor = color.New(color.FgCyan, color.Bold)
	tlvColor      = color.New(color.FgMagenta)
	debugColor    = color.New(color.FgWhite, color.Faint)

	// Control flags
	colorsEnabled = true
)

// InitColors initializes the color system
func InitColors(enabled bool) {
	colorsEnabled = enabled

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
	}

	color.NoColor = !colorsEnabled
}

// AreColorsEnabled returns whether colors are currently enabled
func AreColorsEnabled() bool {
	return colorsEnabled
}

// Error prints an error message in red
func Error(format string, args ...interface{}) {
	if colorsEnabled {
		errorColor.Printf("ERROR: "+format+"\n", args...)
	} else {
		fmt.Printf("ERROR: "+format+"\n", args...)
	}
}

// Warning prints a warning message in yellow
func Warning(format string, args ...interface{}) {
	if colorsEnabled {
		warningColor.Printf("WARN: "+format+"\n", args...)
	} else {
		fmt.Printf("WARN: "+format+"\n", args...)
	}
}

// Success prints a success message in green
func Success(format string, args ...interface{}) {
	if colorsEnabled {
		successColor.Printf("✓ "+format+"\n", args...)
	} else {
		fmt.Printf("✓ "+format+"\n", args...)
	}
}

// Info prints an info message in blue
func Info(format string, args ...interface{}) {
	if colorsEnabled {
		infoColor.Printf(format+"\n", args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

// Debug prints a debug message in faint white
func Debug(format string, args ...interface{}) {
	if colorsEnabled {
		debugColor.Printf(format+"\n", args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

// Neighbor prints a message tagged with a neighbor's link name, in
// cyan (neighbor up/down/transmit events, §4.6).
func Neighbor(link string, format string, args ...interface{}) {
	if colorsEnabled {
		neighborColor.Printf("[%s] ", link)
		fmt.Printf(format+"\n", args...)
	} else {
		fmt.Printf("[%s] "+format+"\n", append([]interface{}{link}, args...)...)
	}
}

// TLV prints a message tagged with a TLV type, in magenta. Used by
// the parser to log exactly one informational event per skipped
// unknown TLV (spec.md §8 scenario 3).
func TLV(tlvType uint16, format string, args ...interface{}) {
	if colorsEnabled {
		tlvColor.Printf("[tlv:0x%04x] ", tlvType)
		fmt.Printf(format+"\n", args...)
	} else {
		fmt.Printf("[tlv:0x%04x] "+format+"\n", append([]interface{}{tlvType}, args...)...)
	}
}

// NeighborDebug prints a debug message tagged with a link name
func NeighborDebug(link string, debugLevel int, minLevel int, format string, args ...interface{}) {
	if debugLevel >= minLevel {
		Neighbor(link, format, args...)
	}
}

// TLVDebug prints a debug message tagged with a TLV type
func TLVDebug(tlvType uint16, debugLevel int, minLevel int, format string, args ...interface{}) {
	if debugLevel >= minLevel {
		TLV(tlvType, format, args...)
	}
}

// Sprintf returns a colored string without printing (useful for building messages)
func Sprintf(colorType string, format string, args ...interface{}) string {
	var c *color.Color
	switch colorType {
	case "error":
		c = errorColor
	case "warning":
		c = warningColor
	case "success":
		c = successColor
	case "info":
		c = infoColor
	case "neighbor":
		c = neighborColor
	case "tlv":
		c = tlvColor
	case "debug":
		c = debugColor
	default:
		return fmt.Sprintf(format, args...)
	}

	if colorsEnabled {
		return c.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

// ErrorString returns a colored error string
func ErrorString(s string) string {
	if colorsEnabled {
		return errorColor.Sprint(s)
	}
	return s
}

// WarningString returns a colored warning string
func WarningString(s string) string {
	if colorsEnabled {
		return warningColor.Sprint(s)
	}
	return s
}

// SuccessString returns a colored success string
func SuccessString(s string) string {
	if colorsEnabled {
		return successColor.Sprint(s)
	}
	return s
}

// InfoString returns a colored info string
func InfoString(s string) string {
	if colorsEnabled {
		return infoColor.Sprint(s)
	}
	return s
}

// NeighborString returns a colored neighbor string
func NeighborString(s string) string {
	if colorsEnabled {
		return neighborColor.Sprint(s)
	}
	return s
}

// TLVString returns a colored TLV string
func TLVString(s string) string {
	if colorsEnabled {
		return tlvColor.Sprint(s)
	}
	return s
}

// Logger adapts the package-level color functions to the minimal
// Infof/Errorf seam used by pkg/cdp, pkg/agent, pkg/capture, and
// pkg/notify. Each of those packages declares its own tiny Logger
// interface rather than importing this package, so Logger is the one
// concrete implementation wired at the cmd/cdpd boundary.
type Logger struct {
	Level int
}

// NewLogger returns a Logger at the given debug level.
func NewLogger(level int) *Logger { return &Logger{Level: level} }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { Info(format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { Error(format, args...) }

// Debugf logs only when the configured level is at least 1.
func (l *Logger) Debugf(format string, args ...any) {
	if l.Level >= 1 {
		Debug(format, args...)
	}
}
