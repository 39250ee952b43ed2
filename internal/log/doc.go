// Package log provides secure logging functionality with automatic
// sanitization of provider credentials, built on top of the standard
// slog package.
//
// SEOScan talks to several credentialed external services (performance
// metrics, domain authority, generative text). The SecureHandler masks
// API keys, secrets and bearer tokens in log attributes so that verbose
// logs can be shared without leaking provider credentials.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("provider call",
//	    "api_key", cfg.PerformanceAPIKey, // masked
//	    "url", pageURL,                   // untouched
//	)
package log
