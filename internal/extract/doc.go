// Package extract evaluates on-page SEO signals from fetched markup.
//
// The extractor makes a single pass over the parsed DOM to collect raw
// signals (title, meta tags, heading counts, image alt coverage,
// structured data, social tags, canonical link), then runs a fixed rule
// table over those signals. Each violated rule produces a finding and a
// numeric deduction from a 100-point technical budget; satisfied rules
// produce good findings used for reporting only.
package extract
