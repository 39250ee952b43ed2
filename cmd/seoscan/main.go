// Package main provides the entry point for the SEOScan CLI.
//
// SEOScan analyzes the search-engine readiness of clearnet domains.
// It fetches the target page, scores on-page technical signals, queries
// external performance and authority providers, and produces a weighted
// composite score with actionable findings.
//
// Usage:
//
//	seoscan analyze <domain>
//	seoscan serve
//
// See --help for all available options.
package main

// main is the entry point for SEOScan.
func main() {
	Execute()
}
