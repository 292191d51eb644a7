package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpected_EqualRatings(t *testing.T) {
	calc := NewCalculator(32, 1500)
	assert.InDelta(t, 0.5, calc.Expected(1500, 1500), 0.0001)
}

func TestExpected_FavoriteAndUnderdogSumToOne(t *testing.T) {
	calc := NewCalculator(32, 1500)
	favorite := calc.Expected(1600, 1400)
	underdog := calc.Expected(1400, 1600)
	assert.InDelta(t, 1.0, favorite+underdog, 0.0001)
	assert.Greater(t, favorite, 0.5)
}

func TestDelta_EvenMatch(t *testing.T) {
	calc := NewCalculator(32, 1500)

	assert.Equal(t, 16.0, calc.Delta(1500, 1500, OutcomeWin))
	assert.Equal(t, -16.0, calc.Delta(1500, 1500, OutcomeLoss))
	assert.Equal(t, 0.0, calc.Delta(1500, 1500, OutcomeDraw))
}

func TestDelta_UpsetPaysMore(t *testing.T) {
	calc := NewCalculator(32, 1500)

	// The favorite gains little from an expected win.
	favoriteWin := calc.Delta(1600, 1400, OutcomeWin)
	// The underdog gains a lot from an upset.
	upsetWin := calc.Delta(1400, 1600, OutcomeWin)

	assert.Equal(t, 8.0, favoriteWin)
	assert.Equal(t, 24.0, upsetWin)
}

func TestDeltas_ComputedIndependently(t *testing.T) {
	calc := NewCalculator(32, 1500)

	deltaA, deltaB := calc.Deltas(1600, 1400, OutcomeWin)
	assert.Equal(t, 8.0, deltaA)
	assert.Equal(t, -8.0, deltaB)

	deltaA, deltaB = calc.Deltas(1400, 1600, OutcomeWin)
	assert.Equal(t, 24.0, deltaA)
	assert.Equal(t, -24.0, deltaB)
}

func TestDeltas_DrawMovesTowardParity(t *testing.T) {
	calc := NewCalculator(32, 1500)

	// A draw against a weaker player still costs the favorite points.
	deltaA, deltaB := calc.Deltas(1600, 1400, OutcomeDraw)
	assert.Negative(t, deltaA)
	assert.Positive(t, deltaB)
}

func TestNewCalculator_Defaults(t *testing.T) {
	calc := NewCalculator(0, 0)
	assert.Equal(t, 32.0, calc.K)
	assert.Equal(t, 1500.0, calc.DefaultMMR)
}

func TestApply_RecordsOutcome(t *testing.T) {
	calc := NewCalculator(32, 1500)

	r := SkillRating{UserID: "alice", SportID: "badminton", MMR: 1500}
	r = calc.Apply(r, 1500, OutcomeWin, 1500, 100)

	assert.Equal(t, 1516.0, r.MMR)
	assert.Equal(t, 1, r.MatchesPlayed)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 0, r.Losses)
	assert.Equal(t, 1.0, r.WinRate)
	if assert.NotNil(t, r.LastMatchAt) {
		assert.Equal(t, int64(100), *r.LastMatchAt)
	}
}

func TestApply_SnapshotDeltaOnCurrentRating(t *testing.T) {
	calc := NewCalculator(32, 1500)

	// The stored rating moved to 1540 while this match was in play. The
	// adjustment is still computed off the 1500 snapshot, but it lands on
	// the current rating instead of rolling the interim results back.
	r := SkillRating{UserID: "alice", SportID: "badminton", MMR: 1540, MatchesPlayed: 2, Wins: 2}
	r = calc.Apply(r, 1500, OutcomeLoss, 1500, 200)

	assert.Equal(t, 1524.0, r.MMR)
	assert.Equal(t, 3, r.MatchesPlayed)
	assert.Equal(t, 1, r.Losses)
	assert.InDelta(t, 2.0/3.0, r.WinRate, 0.0001)
}

func TestOutcomeComplement(t *testing.T) {
	assert.Equal(t, OutcomeLoss, OutcomeWin.Complement())
	assert.Equal(t, OutcomeWin, OutcomeLoss.Complement())
	assert.Equal(t, OutcomeDraw, OutcomeDraw.Complement())
}
