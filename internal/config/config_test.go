package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid memory backend config",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				SubmitDelay: 500 * time.Millisecond,
			},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: Config{
				Port:         "8080",
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				SubmitDelay:  time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:        "abc",
				DataBackend: "memory",
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:        "70000",
				DataBackend: "memory",
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid backend",
			config: Config{
				Port:        "8080",
				DataBackend: "postgres",
			},
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name: "sqlite backend without path",
			config: Config{
				Port:        "8080",
				DataBackend: "sqlite",
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "submit delay too long",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				SubmitDelay: time.Minute,
			},
			wantErr:     true,
			errorString: "invalid submit delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "abc", DataBackend: "postgres", SubmitDelay: -time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"invalid port", "invalid data backend", "invalid submit delay"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error missing %q: %v", want, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "SQLITE_DB_PATH", "SUBMIT_DELAY"} {
		os.Unsetenv(key)
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DataBackend != "memory" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SubmitDelay != 500*time.Millisecond {
		t.Fatalf("default submit delay = %v", cfg.SubmitDelay)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SUBMIT_DELAY", "0s")
	cfg := Load()
	if cfg.Port != "9999" || cfg.DataBackend != "sqlite" || cfg.SubmitDelay != 0 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}
