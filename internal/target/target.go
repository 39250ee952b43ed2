// Package target validates and normalizes analysis targets.
//
// A target starts as whatever the caller typed: "https://www.Example.com/",
// "example.com", "EXAMPLE.COM/path". This package reduces all of those to
// the bare normalized domain plus the canonical URL the fetcher should use.
package target

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyDomain is returned when the target domain is missing.
var ErrEmptyDomain = errors.New("domain is required")

// ErrInvalidDomain is returned when the target does not look like a hostname.
var ErrInvalidDomain = errors.New("invalid domain")

// hostnamePattern matches a bare DNS hostname: one or more labels of
// letters, digits and inner hyphens, ending in an alphabetic TLD.
// We validate the normalized form, so uppercase and schemes never reach it.
var hostnamePattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// Target is a validated, normalized analysis target.
type Target struct {
	// Domain is the normalized bare domain (no scheme, no www. prefix,
	// no path, lowercase).
	Domain string

	// URL is the canonical URL used for fetching: "https://" + Domain.
	URL string
}

// Parse validates raw input and produces a normalized Target.
//
// Normalization strips surrounding whitespace, lowercases, removes an
// http:// or https:// scheme, removes a leading "www.", and drops any
// path, query or port. The result must match a hostname pattern.
func Parse(raw string) (Target, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return Target{}, ErrEmptyDomain
	}

	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")

	// Drop everything after the host part.
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.IndexByte(domain, ':'); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimSuffix(domain, ".")

	if domain == "" {
		return Target{}, ErrEmptyDomain
	}
	if !hostnamePattern.MatchString(domain) {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}

	return Target{
		Domain: domain,
		URL:    "https://" + domain,
	}, nil
}
