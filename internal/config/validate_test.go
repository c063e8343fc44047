package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateDefaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Validate(Default()) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(s *Settings)
		wantErr     bool
		errContains string
	}{
		{
			name:   "lookup with default base url",
			mutate: func(s *Settings) { s.Registry.Lookup = true },
		},
		{
			name:        "empty manifest",
			mutate:      func(s *Settings) { s.Manifest = " " },
			wantErr:     true,
			errContains: "manifest: must not be empty",
		},
		{
			name:        "empty uv binary",
			mutate:      func(s *Settings) { s.UVBinary = "" },
			wantErr:     true,
			errContains: "uv_binary: must not be empty",
		},
		{
			name:        "negative timeout",
			mutate:      func(s *Settings) { s.CommandTimeout = -time.Second },
			wantErr:     true,
			errContains: "command_timeout",
		},
		{
			name:        "blank exclude entry",
			mutate:      func(s *Settings) { s.Exclude = []string{"requests", ""} },
			wantErr:     true,
			errContains: "exclude[1]",
		},
		{
			name:        "bad registry url",
			mutate:      func(s *Settings) { s.Registry.BaseURL = "ftp://example.com" },
			wantErr:     true,
			errContains: "registry.base_url: invalid URL",
		},
		{
			name: "lookup without base url",
			mutate: func(s *Settings) {
				s.Registry.Lookup = true
				s.Registry.BaseURL = ""
			},
			wantErr:     true,
			errContains: "required when registry.lookup is enabled",
		},
		{
			name:        "zero keep",
			mutate:      func(s *Settings) { s.Backup.Keep = 0 },
			wantErr:     true,
			errContains: "backup.keep: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)

			err := Validate(s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	s := Default()
	s.Manifest = ""
	s.Backup.Keep = -1

	err := Validate(s)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "validation errors:\n  - ") {
		t.Errorf("unexpected format: %q", err.Error())
	}
	if strings.Count(err.Error(), "\n  - ") != 2 {
		t.Errorf("expected 2 errors, got %q", err.Error())
	}
}
