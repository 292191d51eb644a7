package rating

import "math"

// Calculator applies the Elo rating formula with a fixed K factor.
type Calculator struct {
	K          float64
	DefaultMMR float64
}

// NewCalculator creates a Calculator. K defaults to 32 and the default MMR to
// 1500 when zero values are passed.
func NewCalculator(k, defaultMMR float64) Calculator {
	if k == 0 {
		k = 32
	}
	if defaultMMR == 0 {
		defaultMMR = 1500
	}
	return Calculator{K: k, DefaultMMR: defaultMMR}
}

// Expected returns the expected score of the first player against the second.
func (c Calculator) Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}

// Delta returns the rounded rating adjustment for the first player.
func (c Calculator) Delta(ra, rb float64, actual Outcome) float64 {
	return math.Round(c.K * (float64(actual) - c.Expected(ra, rb)))
}

// Deltas returns the adjustments for both players of a match.
// The two deltas are computed independently so rounding never leaks points
// from one player to the other.
func (c Calculator) Deltas(ra, rb float64, actualA Outcome) (deltaA, deltaB float64) {
	return c.Delta(ra, rb, actualA), c.Delta(rb, ra, actualA.Complement())
}

// Apply records one match outcome on a rating record, returning the updated
// copy. The adjustment is computed from the pre-match snapshots, then added
// to the current rating, so results that landed in other events while this
// match was in play are preserved rather than overwritten.
func (c Calculator) Apply(r SkillRating, preMatchMMR float64, actual Outcome, opponentMMR float64, now int64) SkillRating {
	r.MMR += c.Delta(preMatchMMR, opponentMMR, actual)
	r.MatchesPlayed++
	switch actual {
	case OutcomeWin:
		r.Wins++
	case OutcomeLoss:
		r.Losses++
	}
	r.recomputeWinRate()
	r.LastMatchAt = &now
	return r
}
