package projects

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")
	content := `[
		{"name": "Web App", "projectName": "webapp", "description": "Customer-facing site"},
		{"name": "API", "projectName": "api"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	projects, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len = %d, want 2", len(projects))
	}
	if projects[0].Name != "Web App" || projects[0].Key != "webapp" {
		t.Errorf("first project = %+v", projects[0])
	}
	if projects[1].Description != "" {
		t.Errorf("second project description = %q", projects[1].Description)
	}
}

func TestLoadMissingFile(t *testing.T) {
	projects, err := Load(filepath.Join(t.TempDir(), "projects.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if projects != nil {
		t.Errorf("projects = %v, want nil", projects)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	projects, err := Load("")
	if err != nil || projects != nil {
		t.Errorf("Load(\"\") = %v, %v", projects, err)
	}
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSelectEmptyRegistry(t *testing.T) {
	choice, err := Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if choice != "" {
		t.Errorf("choice = %q, want default", choice)
	}
}
