package ai

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	diff := "diff --git a/x.txt b/x.txt\nnew file mode 100644\n+hello\n"

	prompt, err := BuildPrompt(diff)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	want := "Given the following git diff, craft a concise commit message that:\n" +
		"- Starts with a verb\n" +
		"- Is specific\n" +
		"- Remains under 72 characters\n\n" +
		"Diff:\n" + diff + "\n\nCommit message:"
	if prompt != want {
		t.Errorf("BuildPrompt() =\n%q\nwant\n%q", prompt, want)
	}
}

func TestBuildPrompt_NoEscaping(t *testing.T) {
	diff := `+if a < b && c > d { fmt.Println("<html>") }`

	prompt, err := BuildPrompt(diff)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, diff) {
		t.Errorf("diff was altered in prompt: %q", prompt)
	}
}
