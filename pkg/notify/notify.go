// Package notify writes short, coloured status lines for the CLI. Status output
// goes to stderr so stdout carries only the report.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

// MessageType determines the colour and symbol of a message.
type MessageType int

const (
	// ErrorType is red with a ✗ symbol.
	ErrorType MessageType = iota
	// WarningType is yellow with a ⚠ symbol.
	WarningType
	// ActivityType is uncoloured with a ► symbol.
	ActivityType
	// SuccessType is green with a ✔ symbol.
	SuccessType
	// InfoType is blue with an ℹ symbol.
	InfoType
)

type messageConfig struct {
	color  *fcolor.Color
	symbol string
}

func getMessageConfig(t MessageType) messageConfig {
	switch t {
	case ErrorType:
		return messageConfig{color: fcolor.New(fcolor.FgRed, fcolor.Bold), symbol: "✗ "}
	case WarningType:
		return messageConfig{color: fcolor.New(fcolor.FgYellow, fcolor.Bold), symbol: "⚠ "}
	case SuccessType:
		return messageConfig{color: fcolor.New(fcolor.FgGreen), symbol: "✔ "}
	case InfoType:
		return messageConfig{color: fcolor.New(fcolor.FgBlue), symbol: "ℹ "}
	default:
		return messageConfig{color: fcolor.New(fcolor.Reset), symbol: "► "}
	}
}

// Write prints one message. A nil writer means os.Stderr.
func Write(w io.Writer, t MessageType, format string, args ...any) {
	if w == nil {
		w = os.Stderr
	}

	content := format
	if len(args) > 0 {
		content = fmt.Sprintf(format, args...)
	}

	cfg := getMessageConfig(t)
	// Continuation lines line up under the first line's text.
	content = strings.ReplaceAll(content, "\n", "\n"+strings.Repeat(" ", len([]rune(cfg.symbol))))

	_, _ = cfg.color.Fprintf(w, "%s%s\n", cfg.symbol, content)
}

// Errorf writes an error message.
func Errorf(w io.Writer, format string, args ...any) { Write(w, ErrorType, format, args...) }

// Warningf writes a warning message.
func Warningf(w io.Writer, format string, args ...any) { Write(w, WarningType, format, args...) }

// Activityf writes a progress message.
func Activityf(w io.Writer, format string, args ...any) { Write(w, ActivityType, format, args...) }

// Successf writes a success message.
func Successf(w io.Writer, format string, args ...any) { Write(w, SuccessType, format, args...) }

// Infof writes an informational message.
func Infof(w io.Writer, format string, args ...any) { Write(w, InfoType, format, args...) }
