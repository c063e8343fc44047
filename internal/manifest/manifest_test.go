package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Flask>=2.0", "flask"},
		{"requests", "requests"},
		{"  Requests  ", "requests"},
		{"numpy==1.26.4", "numpy"},
		{"Django<5,>=4.2", "django"},
		{"pydantic~=2.5", "pydantic"},
		{"attrs!=23.1.0", "attrs"},
		{"httpx >= 0.27", "httpx"},
		{"uvicorn[standard]>=0.30", "uvicorn[standard]"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractName(tt.input); got != tt.want {
				t.Errorf("ExtractName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewNameSet(t *testing.T) {
	set := NewNameSet(
		"Flask>=2.0",
		"flask",
		"uvicorn[standard]>=0.30",
		"tomli ; python_version < '3.11'",
		"mypkg @ https://example.com/mypkg.tar.gz",
		"   ",
		">=1.0",
	)

	want := []string{"flask", "mypkg", "tomli", "uvicorn"}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}

	if !set.Contains("FLASK") {
		t.Error("Contains should be case-insensitive")
	}
	if set.Contains("numpy") {
		t.Error("Contains(numpy) = true, want false")
	}

	set.Remove(" Flask ")
	if set.Contains("flask") {
		t.Error("Remove did not delete flask")
	}
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "pyproject.toml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !errors.Is(err, ErrManifestNotFound) {
		t.Errorf("Load() error = %v, want ErrManifestNotFound", err)
	}
	if want := "pyproject.toml not found in " + dir; err.Error() != want {
		t.Errorf("Load() error = %q, want %q", err.Error(), want)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeManifest(t, "[project\ndependencies = [")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected parse error")
	}
	if errors.Is(err, ErrManifestNotFound) {
		t.Error("parse error should not be ErrManifestNotFound")
	}
}

const samplePyproject = `
[project]
name = "demo"
version = "0.1.0"
dependencies = [
    "Flask>=2.0",
    "requests",
    "uvicorn[standard]>=0.30",
]

[project.optional-dependencies]
docs = ["mkdocs>=1.5"]
aws = ["boto3"]

[dependency-groups]
dev = ["pytest>=8", {include-group = "lint"}]
lint = ["ruff"]
`

func TestLoad(t *testing.T) {
	path := writeManifest(t, samplePyproject)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.Path != path {
		t.Errorf("Path = %s, want %s", m.Path, path)
	}
	if len(m.Dependencies) != 3 {
		t.Errorf("Dependencies count = %d, want 3", len(m.Dependencies))
	}
	if len(m.OptionalDependencies) != 2 {
		t.Errorf("OptionalDependencies count = %d, want 2", len(m.OptionalDependencies))
	}
	if got := m.DependencyGroups["dev"]; !reflect.DeepEqual(got, []string{"pytest>=8"}) {
		t.Errorf("DependencyGroups[dev] = %v, want [pytest>=8]", got)
	}
}

func TestReadDirectDependencies(t *testing.T) {
	path := writeManifest(t, samplePyproject)

	deps, err := ReadDirectDependencies(path)
	if err != nil {
		t.Fatalf("ReadDirectDependencies() error = %v", err)
	}

	want := []string{"Flask>=2.0", "requests", "uvicorn[standard]>=0.30"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("ReadDirectDependencies() = %v, want %v", deps, want)
	}
}

func TestDirectNames(t *testing.T) {
	path := writeManifest(t, samplePyproject)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "project only",
			opts: Options{},
			want: []string{"flask", "requests", "uvicorn"},
		},
		{
			name: "with optional",
			opts: Options{IncludeOptional: true},
			want: []string{"boto3", "flask", "mkdocs", "requests", "uvicorn"},
		},
		{
			name: "with groups",
			opts: Options{IncludeGroups: true},
			want: []string{"flask", "pytest", "requests", "ruff", "uvicorn"},
		},
		{
			name: "exclude",
			opts: Options{Exclude: []string{"Requests"}},
			want: []string{"flask", "uvicorn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.DirectNames(tt.opts).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DirectNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeclaredOrder(t *testing.T) {
	m := &Manifest{
		Dependencies: []string{"b", "a"},
		OptionalDependencies: map[string][]string{
			"z": {"z1"},
			"y": {"y1"},
		},
	}

	got := m.Declared(Options{IncludeOptional: true})
	want := []string{"b", "a", "y1", "z1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Declared() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/proj", ""); got != filepath.Join("/proj", DefaultFileName) {
		t.Errorf("Resolve default = %s", got)
	}
	if got := Resolve("/proj", "sub/pyproject.toml"); got != filepath.Join("/proj", "sub", "pyproject.toml") {
		t.Errorf("Resolve relative = %s", got)
	}
	abs := filepath.Join(string(filepath.Separator), "abs", "pyproject.toml")
	if got := Resolve("/proj", abs); got != abs {
		t.Errorf("Resolve absolute = %s, want %s", got, abs)
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}
