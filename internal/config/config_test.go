package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v, want %v", cfg.FetchTimeout, DefaultFetchTimeout)
	}
	if cfg.ProviderTimeout != DefaultProviderTimeout {
		t.Errorf("ProviderTimeout = %v, want %v", cfg.ProviderTimeout, DefaultProviderTimeout)
	}
	if cfg.ReportTimeout != DefaultReportTimeout {
		t.Errorf("ReportTimeout = %v, want %v", cfg.ReportTimeout, DefaultReportTimeout)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, DefaultUserAgent)
	}
	if cfg.AllowEstimates {
		t.Error("AllowEstimates should default to false")
	}
	if cfg.PerformanceAPIKey != "" {
		t.Error("PerformanceAPIKey should default to empty")
	}
	if cfg.DBDir == "" {
		t.Error("DBDir should default to the XDG data directory")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		if err := NewConfig().Validate(); err != nil {
			t.Errorf("Validate() on defaults returned error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, ErrInvalidTimeout},
		{"negative provider timeout", func(c *Config) { c.ProviderTimeout = -time.Second }, ErrInvalidTimeout},
		{"zero report timeout", func(c *Config) { c.ReportTimeout = 0 }, ErrInvalidTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"zero max body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestLoadCredentialsFile tests parsing the YAML credentials file.
func TestLoadCredentialsFile(t *testing.T) {
	t.Parallel()

	t.Run("loads full file", func(t *testing.T) {
		t.Parallel()

		content := `
providers:
  performance:
    api_key: psi-key
  authority:
    access_id: moz-id
    secret_key: moz-secret
  fallback:
    api_key: opr-key
  report:
    api_key: llm-key
    model: gpt-4o
    temperature: 0.7
    max_tokens: 500
allow_estimates: true
`
		path := filepath.Join(t.TempDir(), ".seoscan")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write credentials file: %v", err)
		}

		cf, err := LoadCredentialsFile(path)
		if err != nil {
			t.Fatalf("LoadCredentialsFile failed: %v", err)
		}

		if cf.Providers.Performance.APIKey != "psi-key" {
			t.Errorf("performance api_key = %q, want %q", cf.Providers.Performance.APIKey, "psi-key")
		}
		if cf.Providers.Authority.AccessID != "moz-id" {
			t.Errorf("authority access_id = %q, want %q", cf.Providers.Authority.AccessID, "moz-id")
		}
		if cf.Providers.Authority.SecretKey != "moz-secret" {
			t.Errorf("authority secret_key = %q, want %q", cf.Providers.Authority.SecretKey, "moz-secret")
		}
		if cf.Providers.Fallback.APIKey != "opr-key" {
			t.Errorf("fallback api_key = %q, want %q", cf.Providers.Fallback.APIKey, "opr-key")
		}
		if cf.Providers.Report.Model != "gpt-4o" {
			t.Errorf("report model = %q, want %q", cf.Providers.Report.Model, "gpt-4o")
		}
		if !cf.AllowEstimates {
			t.Error("allow_estimates should be true")
		}
	})

	t.Run("missing file returns sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCredentialsFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrCredentialsNotFound) {
			t.Errorf("error = %v, want ErrCredentialsNotFound", err)
		}
	})

	t.Run("malformed YAML fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".seoscan")
		if err := os.WriteFile(path, []byte("providers: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write credentials file: %v", err)
		}

		if _, err := LoadCredentialsFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

// TestConfigApply tests merging file credentials into a Config.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{
			Providers: Providers{
				Performance: PerformanceCredentials{APIKey: "psi"},
				Report:      ReportCredentials{APIKey: "llm", MaxTokens: 300},
			},
			AllowEstimates: true,
		})

		if cfg.PerformanceAPIKey != "psi" {
			t.Errorf("PerformanceAPIKey = %q, want %q", cfg.PerformanceAPIKey, "psi")
		}
		if cfg.ReportAPIKey != "llm" {
			t.Errorf("ReportAPIKey = %q, want %q", cfg.ReportAPIKey, "llm")
		}
		if cfg.ReportMaxTokens != 300 {
			t.Errorf("ReportMaxTokens = %d, want 300", cfg.ReportMaxTokens)
		}
		if !cfg.AllowEstimates {
			t.Error("AllowEstimates should be true after Apply")
		}
	})

	t.Run("empty file fields preserve defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{})

		if cfg.ReportModel != DefaultReportModel {
			t.Errorf("ReportModel = %q, want default %q", cfg.ReportModel, DefaultReportModel)
		}
		if cfg.AllowEstimates {
			t.Error("AllowEstimates should stay false for empty file")
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(nil)

		if cfg.ReportModel != DefaultReportModel {
			t.Errorf("ReportModel = %q, want default %q", cfg.ReportModel, DefaultReportModel)
		}
	})
}

// TestFindCredentialsFile tests credentials file discovery.
func TestFindCredentialsFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "creds.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		if got := FindCredentialsFile(path); got != path {
			t.Errorf("FindCredentialsFile = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if got := FindCredentialsFile(missing); got != "" {
			t.Errorf("FindCredentialsFile = %q, want empty", got)
		}
	})
}
