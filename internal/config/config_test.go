package config

import (
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func validConfig() *Config {
	config := DefaultConfig()
	config.Security.SecretKey = "test-secret"
	return config
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", config.Server.Port)
	}
	if config.OpeningHand.StateMaxAge != "6h" {
		t.Errorf("state max age = %q, want 6h", config.OpeningHand.StateMaxAge)
	}
	if config.OpeningHand.PlaceholderURL == "" {
		t.Error("placeholder url is empty")
	}
	if config.Scryfall.BaseURL != "https://api.scryfall.com" {
		t.Errorf("scryfall base url = %q", config.Scryfall.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Security.SecretKey = "" },
			wantErr: "secret key is required",
		},
		{
			name:    "bad max age",
			mutate:  func(c *Config) { c.OpeningHand.StateMaxAge = "six hours" },
			wantErr: "invalid state max age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetStateMaxAge(t *testing.T) {
	config := validConfig()
	config.OpeningHand.StateMaxAge = "45m"

	age, err := config.GetStateMaxAge()
	if err != nil {
		t.Fatalf("GetStateMaxAge: %v", err)
	}
	if age != 45*time.Minute {
		t.Errorf("age = %v, want 45m", age)
	}
}

func TestSecretKeyEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DECKVAULT_SECRET_KEY", "env-secret")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if config.Security.SecretKey != "env-secret" {
		t.Errorf("secret = %q, want env override", config.Security.SecretKey)
	}
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	config := validConfig()
	config.Server.Port = 9090
	config.Database.Path = "/tmp/deck-vault-test.db"

	data, err := toml.Marshal(config)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if loaded.Server.Port != 9090 || loaded.Database.Path != "/tmp/deck-vault-test.db" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Security.SecretKey != "test-secret" {
		t.Errorf("secret = %q", loaded.Security.SecretKey)
	}
}
