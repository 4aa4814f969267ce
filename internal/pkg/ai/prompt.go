package ai

import (
	"bytes"
	"text/template"
)

// DefaultPromptTemplate is the instruction sent with every diff. Every line
// starts at column zero.
const DefaultPromptTemplate = `Given the following git diff, craft a concise commit message that:
- Starts with a verb
- Is specific
- Remains under 72 characters

Diff:
{{.Diff}}

Commit message:`

var promptTmpl = template.Must(template.New("prompt").Parse(DefaultPromptTemplate))

// PromptData contains the data used to render the prompt template.
type PromptData struct {
	Diff string
}

// BuildPrompt embeds diff into the fixed instruction template.
func BuildPrompt(diff string) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, &PromptData{Diff: diff}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
