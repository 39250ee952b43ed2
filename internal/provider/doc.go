// Package provider holds the clients for external measurement and
// generation services: the page-speed metrics provider, the domain
// authority providers with their fallback chain, and the generative
// text service used for report prose.
//
// Every client degrades instead of failing the pipeline: an
// unconfigured or unreachable provider resolves to a defined fallback
// score plus a finding that says so, never to a silent zero or a
// silent perfect score.
package provider
