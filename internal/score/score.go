package score

import (
	"github.com/seoscan/seoscan/internal/model"
)

// Aggregate combines the technical deductions with the provider scores
// into the weighted composite: technical 40%, performance 30%,
// authority 30% of the 100-point total.
//
// The technical budget runs on a 100-point scale inside the rule table
// and is scaled to its 40-point ceiling exactly once here, rounding
// half up, so relative rule severity is preserved. Provider scores
// arrive on a 0-100 scale and are weighted the same way. The total is
// the sum of the three parts, clamped to [0,100].
func Aggregate(technicalDeductions, performance, authority int) model.ScoreBreakdown {
	technicalRaw := clamp(100-technicalDeductions, 0, 100)

	breakdown := model.ScoreBreakdown{
		Technical:   weight(technicalRaw, model.TechnicalCeiling),
		Performance: weight(clamp(performance, 0, 100), model.PerformanceCeiling),
		Authority:   weight(clamp(authority, 0, 100), model.AuthorityCeiling),
	}
	breakdown.Total = clamp(
		breakdown.Technical+breakdown.Performance+breakdown.Authority,
		0, model.TotalCeiling,
	)

	return breakdown
}

// weight scales a 0-100 value to the given ceiling, rounding half up.
func weight(value, ceiling int) int {
	return (value*ceiling + 50) / 100
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
