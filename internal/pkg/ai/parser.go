package ai

import "strings"

// FirstLine returns the first line of text after trimming surrounding whitespace.
// Everything after the first newline is discarded, so a model that answers with a
// subject and body yields only the subject.
func FirstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// newResponse builds a GenerateResponse from raw model output.
func newResponse(raw string) *GenerateResponse {
	return &GenerateResponse{
		Suggestion: FirstLine(raw),
		RawText:    raw,
	}
}
