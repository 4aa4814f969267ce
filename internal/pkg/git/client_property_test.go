package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// StagedFile represents a file to be staged for testing.
type StagedFile struct {
	Name    string
	Content string
	IsNew   bool // true = new file, false = modify existing
}

// genValidFileName generates lowercase file names with a .txt extension.
func genValidFileName() gopter.Gen {
	return gen.IntRange(4, 12).FlatMap(func(length interface{}) gopter.Gen {
		n := length.(int)
		return gen.SliceOfN(n, gen.Rune()).Map(func(runes []rune) string {
			for i := range runes {
				runes[i] = 'a' + (runes[i] % 26)
			}
			return string(runes) + ".txt"
		})
	}, reflect.TypeOf(""))
}

// genFileContent generates printable multi-line content.
func genFileContent() gopter.Gen {
	return gen.SliceOfN(3, gen.AlphaString()).Map(func(lines []string) string {
		var sb strings.Builder
		for i, line := range lines {
			sb.WriteString("line ")
			sb.WriteString(string(rune('0' + i)))
			sb.WriteString(" ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		return sb.String()
	})
}

func genStagedFile() gopter.Gen {
	return gopter.CombineGens(
		genValidFileName(),
		genFileContent(),
		gen.Bool(),
	).Map(func(values []interface{}) StagedFile {
		return StagedFile{
			Name:    values[0].(string),
			Content: values[1].(string),
			IsNew:   values[2].(bool),
		}
	})
}

// genStagedFiles generates 1 to 4 files with unique names.
func genStagedFiles() gopter.Gen {
	return gen.IntRange(1, 4).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), genStagedFile()).Map(func(files []StagedFile) []StagedFile {
			seen := make(map[string]bool)
			unique := make([]StagedFile, 0, len(files))
			for _, f := range files {
				if !seen[f.Name] {
					seen[f.Name] = true
					unique = append(unique, f)
				}
			}
			return unique
		})
	}, reflect.TypeOf([]StagedFile{}))
}

// setupPropertyTestRepo creates a repository with one initial commit.
func setupPropertyTestRepo(t *testing.T) (string, error) {
	tmpDir, err := os.MkdirTemp("", "commitassist-property-test-*")
	if err != nil {
		return "", err
	}
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGitCmd(tmpDir, args...); err != nil {
			os.RemoveAll(tmpDir)
			return "", err
		}
	}
	if err := writeTestFile(tmpDir, "README.md", "# Test Repository\n"); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := runGitCmd(tmpDir, "add", "."); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := runGitCmd(tmpDir, "commit", "-m", "initial commit"); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	return tmpDir, nil
}

// runGitCmd runs a git command in the specified directory.
func runGitCmd(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &exec.ExitError{Stderr: output}
	}
	return nil
}

// writeTestFile creates a file with the given content.
func writeTestFile(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func TestStagedDiffThenCommit_Property(t *testing.T) {
	requireGit(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("every staged file appears in the diff and commit clears the index", prop.ForAll(
		func(files []StagedFile) bool {
			tmpDir, err := setupPropertyTestRepo(t)
			if err != nil {
				t.Logf("setup failed: %v", err)
				return false
			}
			defer os.RemoveAll(tmpDir)

			for _, f := range files {
				if !f.IsNew {
					if err := writeTestFile(tmpDir, f.Name, "original content\n"); err != nil {
						return false
					}
					if err := runGitCmd(tmpDir, "add", f.Name); err != nil {
						return false
					}
					if err := runGitCmd(tmpDir, "commit", "-m", "add "+f.Name); err != nil {
						return false
					}
				}
				if err := writeTestFile(tmpDir, f.Name, f.Content); err != nil {
					return false
				}
			}
			if err := runGitCmd(tmpDir, "add", "."); err != nil {
				return false
			}

			client := NewClientWithOptions("", tmpDir)
			diff, err := client.StagedDiff(context.Background())
			if err != nil {
				t.Logf("StagedDiff failed: %v", err)
				return false
			}
			for _, f := range files {
				if !strings.Contains(diff, "b/"+f.Name) {
					t.Logf("missing %s in diff", f.Name)
					return false
				}
			}

			if err := client.Commit(context.Background(), "Update generated files"); err != nil {
				t.Logf("Commit failed: %v", err)
				return false
			}
			after, err := client.StagedDiff(context.Background())
			return err == nil && after == ""
		},
		genStagedFiles(),
	))

	properties.TestingRun(t)
}
