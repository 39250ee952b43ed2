package score

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// cacheKeyLength is the number of hex characters kept from the digest.
// 64 bits of SHA-256 is far beyond collision range for a report cache.
const cacheKeyLength = 16

// CacheKey derives a stable content hash over the raw signals and the
// score breakdown. Two analyses with identical signals and identical
// scores yield the same key, which lets the pipeline reuse a prior
// report instead of regenerating it.
//
// Design decision: We serialize by hand rather than via JSON because:
//  1. Map iteration order would make JSON output nondeterministic
//     without an extra canonicalization step
//  2. The key must stay stable across releases, and a line-oriented
//     k=v format is easier to keep frozen than encoder behavior
func CacheKey(signals model.RawSignals, scores model.ScoreBreakdown) string {
	keys := make([]string, 0, len(signals))
	for k := range signals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v\n", k, signals[k])
	}
	fmt.Fprintf(&sb, "technical=%d\nperformance=%d\nauthority=%d\ntotal=%d\n",
		scores.Technical, scores.Performance, scores.Authority, scores.Total)

	digest := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(digest[:])[:cacheKeyLength]
}
