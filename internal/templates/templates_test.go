package templates

import (
	"strings"
	"testing"
)

func TestList(t *testing.T) {
	names := List()

	want := []string{"full", "groups", "minimal"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		contains string
		wantErr  bool
	}{
		{"minimal", "uv_binary:", false},
		{"groups", "include_groups: true", false},
		{"full", "command_timeout:", false},
		{"nonexistent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Get(%s) expected error, got nil", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%s) unexpected error: %v", tt.name, err)
			}

			if tmpl.Name != tt.name {
				t.Errorf("Name = %s, want %s", tmpl.Name, tt.name)
			}
			if tmpl.Description == "" || tmpl.Description == "Custom template" {
				t.Errorf("missing description for %s", tt.name)
			}
			if !strings.Contains(string(tmpl.Content), tt.contains) {
				t.Errorf("template %s missing %q", tt.name, tt.contains)
			}
		})
	}
}

func TestFullTemplateCoversEverySection(t *testing.T) {
	tmpl, err := Get("full")
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"manifest:", "uv_binary:", "include_optional:", "exclude:", "registry:", "base_url:", "backup:", "keep:"} {
		if !strings.Contains(string(tmpl.Content), key) {
			t.Errorf("full template missing %s", key)
		}
	}
}

func TestGetDescription(t *testing.T) {
	if got := GetDescription("unknown"); got != "Custom template" {
		t.Errorf("GetDescription(unknown) = %q", got)
	}
}
