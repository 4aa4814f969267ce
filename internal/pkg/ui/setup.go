package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/commitassist/commitassist/internal/pkg/config"
)

// SetupAnswers holds the values collected by the setup wizard.
type SetupAnswers struct {
	API      string
	Endpoint string
	Model    string
}

// ValidateEndpoint checks that s is an http(s) URL.
func ValidateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("endpoint must start with http:// or https://")
	}
	return nil
}

// ValidateModel checks that a model name was given.
func ValidateModel(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// SaveSetup persists the wizard answers through the config manager.
func SaveSetup(cfgMgr config.Manager, answers SetupAnswers) error {
	values := []struct {
		key   string
		value string
	}{
		{"inference.api", answers.API},
		{"inference.endpoint", strings.TrimRight(strings.TrimSpace(answers.Endpoint), "/")},
		{"inference.model", strings.TrimSpace(answers.Model)},
	}
	for _, kv := range values {
		if err := cfgMgr.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv.key, err)
		}
	}
	return nil
}

// RunInteractiveSetup runs the interactive setup wizard using huh.
func RunInteractiveSetup(cfgMgr config.Manager) error {
	fmt.Println("Let's set up commitassist.")
	fmt.Println()

	answers := SetupAnswers{
		API:      config.DefaultAPI,
		Endpoint: config.DefaultEndpoint,
		Model:    config.DefaultModel,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Inference API").
				Options(
					huh.NewOption("Ollama generate (/api/generate)", "generate"),
					huh.NewOption("OpenAI-compatible (/v1/chat/completions)", "openai"),
				).
				Value(&answers.API),
			huh.NewInput().
				Title("Server Endpoint").
				Description("Base URL of the local inference server").
				Value(&answers.Endpoint).
				Validate(ValidateEndpoint),
			huh.NewInput().
				Title("Model Name").
				Description("Model the server should run, e.g. mistral").
				Value(&answers.Model).
				Validate(ValidateModel),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := SaveSetup(cfgMgr, answers); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", cfgMgr.GetConfigPath())
	fmt.Println()

	return nil
}
