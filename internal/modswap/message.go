package modswap

import "fmt"

// Severity classifies a status line. Presentation is left to the renderer.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Message is a human-readable status line tagged with a severity.
type Message struct {
	Severity Severity
	Text     string
}

// Format builds a Message from a format string.
func Format(severity Severity, format string, args ...any) Message {
	return Message{Severity: severity, Text: fmt.Sprintf(format, args...)}
}

func Info(format string, args ...any) Message    { return Format(SeverityInfo, format, args...) }
func Success(format string, args ...any) Message { return Format(SeveritySuccess, format, args...) }
func Warning(format string, args ...any) Message { return Format(SeverityWarning, format, args...) }
func Error(format string, args ...any) Message   { return Format(SeverityError, format, args...) }
