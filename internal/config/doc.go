// Package config provides configuration management for SEOScan.
//
// Configuration comes from three layers, in increasing precedence:
// built-in defaults (NewConfig), an optional YAML credentials file
// (.seoscan in the current or home directory), and CLI flags.
//
// Design decision: The Config struct is populated once at startup and
// passed through the application via dependency injection. There is no
// global configuration state; degraded-mode behavior (AllowEstimates)
// is an explicit field so it can be toggled per test case.
package config
