package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_InitSetGetList(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, _, err := execute(t, "", "config", "init", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at "+configPath)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, _, err = execute(t, "", "config", "init", "--config", configPath)
	assert.Error(t, err, "init must not overwrite an existing file")

	out, _, err = execute(t, "", "config", "set", "inference.model", "llama3", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "Set inference.model = llama3\n", out)

	out, _, err = execute(t, "", "config", "get", "inference.model", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "llama3\n", out)

	out, _, err = execute(t, "", "config", "list", "--config", configPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+configPath+"\n"))
	assert.Contains(t, out, "inference:\n")
	assert.Contains(t, out, "  model: llama3\n")
	assert.Contains(t, out, "  endpoint: http://localhost:11434\n")
	assert.Less(t, strings.Index(out, "git:"), strings.Index(out, "inference:"), "keys are sorted")
}

func TestConfigCmd_ListWithoutFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := execute(t, "", "config", "list", "--config", configPath)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# "+configPath+" (not found, showing defaults)\n"))
	assert.Contains(t, out, "  model: mistral\n")

	_, err = os.Stat(configPath)
	assert.True(t, os.IsNotExist(err), "list must not create the file")
}

func TestConfigCmd_SetRejectsBadDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := execute(t, "", "config", "set", "inference.timeout", "soon", "--config", configPath)
	assert.Error(t, err)
}

func TestConfigCmd_GetUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := execute(t, "", "config", "get", "inference.nope", "--config", configPath)
	assert.Error(t, err)
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	root := NewRootCmd("test", "", "")
	require.NoError(t, root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, "generate", cfg.Inference.API)
	assert.Equal(t, "http://localhost:11434", cfg.Inference.Endpoint)
	assert.Equal(t, "mistral", cfg.Inference.Model)
	assert.Equal(t, time.Duration(0), cfg.Inference.Timeout)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("inference:\n  model: phi3\n  timeout: 10s\n"), 0600))
	t.Setenv("COMMITASSIST_INFERENCE_ENDPOINT", "http://env-host:11434")

	root := NewRootCmd("test", "", "")
	require.NoError(t, root.ParseFlags([]string{"--config", configPath}))
	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.Inference.Model, "file beats defaults")
	assert.Equal(t, "http://env-host:11434", cfg.Inference.Endpoint, "env beats defaults")
	assert.Equal(t, 10*time.Second, cfg.Inference.Timeout)

	root = NewRootCmd("test", "", "")
	require.NoError(t, root.ParseFlags([]string{
		"--config", configPath,
		"--model", "llama3",
		"--endpoint", "http://flag-host:11434",
		"--api", "openai",
		"--timeout", "90s",
	}))
	cfg, err = loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.Inference.Model)
	assert.Equal(t, "http://flag-host:11434", cfg.Inference.Endpoint)
	assert.Equal(t, "openai", cfg.Inference.API)
	assert.Equal(t, 90*time.Second, cfg.Inference.Timeout)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "llama3", "overrides are never persisted")
}

// genModelName generates model names as accepted by Ollama, e.g. "llama3:8b".
func genModelName() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.OneConstOf("", ":latest", ":8b", ":7b-instruct"),
	).Map(func(vals []interface{}) string {
		return vals[0].(string) + vals[1].(string)
	})
}

func TestLoadConfig_FlagBeatsEnvProperty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("COMMITASSIST_INFERENCE_MODEL", "from-env")

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("--model always wins over the environment", prop.ForAll(
		func(model string) bool {
			root := NewRootCmd("test", "", "")
			if err := root.ParseFlags([]string{"--config", configPath, "--model", model}); err != nil {
				return false
			}
			cfg, err := loadConfig(root)
			return err == nil && cfg.Inference.Model == model
		},
		genModelName(),
	))

	properties.TestingRun(t)
}

func TestLoadConfig_EnvUsedWithoutFlag(t *testing.T) {
	t.Setenv("COMMITASSIST_INFERENCE_MODEL", "from-env")

	root := NewRootCmd("test", "", "")
	require.NoError(t, root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}))
	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Inference.Model)
}
