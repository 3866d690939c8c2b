// Package projects reads the project registry file and offers interactive
// project selection.
package projects

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/aitistra/taskmaster/internal/task"
)

// Load reads the project registry from path. A missing registry is not an
// error: the caller falls back to the server's default project.
func Load(path string) ([]task.Project, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects file: %w", err)
	}

	var projects []task.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse projects file %s: %w", path, err)
	}
	return projects, nil
}

// Select prompts the user to pick one of the registered projects. It
// returns the chosen project key, or "" when the user keeps the default
// project or the registry is empty.
func Select(projects []task.Project) (string, error) {
	if len(projects) == 0 {
		return "", nil
	}

	options := []huh.Option[string]{
		huh.NewOption("All projects (default)", ""),
	}
	for _, p := range projects {
		label := p.DisplayName()
		if key := p.DisplayKey(); key != "unknown" {
			label = fmt.Sprintf("%s (%s)", label, key)
		}
		options = append(options, huh.NewOption(label, p.Key))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a project").
				Description("Reports and analyses will be scoped to this project.").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("project selection: %w", err)
	}
	return choice, nil
}

// PromptAPIKey asks for the LLM API key when it is not configured.
func PromptAPIKey() (string, error) {
	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Set TASKMASTER_LLM_API_KEY or OPENAI_API_KEY to skip this prompt.").
				EchoMode(huh.EchoModePassword).
				Value(&key),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("api key prompt: %w", err)
	}
	return key, nil
}
