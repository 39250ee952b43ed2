package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultCredentialsFile is the default credentials file name.
const DefaultCredentialsFile = ".seoscan"

// File is the on-disk credentials file structure.
// Provider credentials live in a file rather than flags so they stay
// out of shell history and process listings.
type File struct {
	// Providers holds per-provider credentials.
	Providers Providers `yaml:"providers"`

	// AllowEstimates enables the degraded-mode authority estimate.
	AllowEstimates bool `yaml:"allow_estimates"`
}

// Providers groups the credential blocks for the external services.
type Providers struct {
	// Performance credentials the page-performance provider.
	Performance PerformanceCredentials `yaml:"performance"`

	// Authority credentials the primary domain-authority provider.
	Authority AuthorityCredentials `yaml:"authority"`

	// Fallback credentials the secondary domain-authority provider.
	Fallback FallbackCredentials `yaml:"fallback"`

	// Report credentials the generative text service.
	Report ReportCredentials `yaml:"report"`
}

// PerformanceCredentials holds the page-performance provider key.
type PerformanceCredentials struct {
	APIKey string `yaml:"api_key"`
}

// AuthorityCredentials holds the primary authority provider credential
// pair. This provider uses an access-id plus secret, unlike the
// fallback's single key.
type AuthorityCredentials struct {
	AccessID  string `yaml:"access_id"`
	SecretKey string `yaml:"secret_key"`
}

// FallbackCredentials holds the secondary authority provider key.
type FallbackCredentials struct {
	APIKey string `yaml:"api_key"`
}

// ReportCredentials holds the generative text service configuration.
type ReportCredentials struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LoadCredentialsFile loads provider credentials from a YAML file.
// If the file does not exist, it returns ErrCredentialsNotFound.
// Callers should handle this based on whether the path was explicitly
// specified by the user.
func LoadCredentialsFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindCredentialsFile searches for the credentials file in order:
// 1. If configPath is specified, use it directly
// 2. Look for .seoscan in the current directory
// 3. Look for .seoscan in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindCredentialsFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultCredentialsFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultCredentialsFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies credentials from the file into the Config.
// Empty file fields leave the corresponding Config fields untouched so
// flags and defaults survive a partially filled file.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}

	if f.Providers.Performance.APIKey != "" {
		c.PerformanceAPIKey = f.Providers.Performance.APIKey
	}
	if f.Providers.Authority.AccessID != "" {
		c.AuthorityAccessID = f.Providers.Authority.AccessID
	}
	if f.Providers.Authority.SecretKey != "" {
		c.AuthoritySecretKey = f.Providers.Authority.SecretKey
	}
	if f.Providers.Fallback.APIKey != "" {
		c.FallbackAPIKey = f.Providers.Fallback.APIKey
	}
	if f.Providers.Report.APIKey != "" {
		c.ReportAPIKey = f.Providers.Report.APIKey
	}
	if f.Providers.Report.Model != "" {
		c.ReportModel = f.Providers.Report.Model
	}
	if f.Providers.Report.Temperature != 0 {
		c.ReportTemperature = f.Providers.Report.Temperature
	}
	if f.Providers.Report.MaxTokens != 0 {
		c.ReportMaxTokens = f.Providers.Report.MaxTokens
	}
	if f.AllowEstimates {
		c.AllowEstimates = true
	}
}
