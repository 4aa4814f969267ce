// Package message checks commit subjects against common conventions.
package message

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// Warning is a single convention a subject does not follow.
type Warning struct {
	Rule    string
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// Lint reports the conventions subject breaks. It never rejects a message; the
// caller decides whether to show the warnings.
func Lint(subject string) []Warning {
	var warnings []Warning

	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return append(warnings, Warning{
			Rule:    "empty",
			Message: "suggested message is empty",
		})
	}

	if n := utf8.RuneCountInString(trimmed); n > MaxSubjectLength {
		warnings = append(warnings, Warning{
			Rule:    "length",
			Message: fmt.Sprintf("subject line exceeds %d characters (%d chars)", MaxSubjectLength, n),
		})
	}

	if strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "...") {
		warnings = append(warnings, Warning{
			Rule:    "period",
			Message: "subject line ends with a period",
		})
	}

	return warnings
}
