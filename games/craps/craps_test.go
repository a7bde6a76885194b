package craps

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDice feeds a fixed sequence of rolls.
func scriptedDice(t *testing.T, rolls ...Roll) func() Roll {
	t.Helper()
	idx := 0
	return func() Roll {
		require.Less(t, idx, len(rolls), "round asked for more rolls than scripted")
		r := rolls[idx]
		idx++
		return r
	}
}

func TestComeOutNaturalWinsPass(t *testing.T) {
	for _, roll := range []Roll{{3, 4}, {5, 6}} {
		result := playWith(scriptedDice(t, roll), BetPass)
		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Zero(t, result.Point)
		assert.Len(t, result.Rolls, 1)

		result = playWith(scriptedDice(t, roll), BetDontPass)
		assert.Equal(t, OutcomeLose, result.Outcome)
	}
}

func TestComeOutCraps(t *testing.T) {
	for _, roll := range []Roll{{1, 1}, {1, 2}} {
		result := playWith(scriptedDice(t, roll), BetPass)
		assert.Equal(t, OutcomeLose, result.Outcome)

		result = playWith(scriptedDice(t, roll), BetDontPass)
		assert.Equal(t, OutcomeWin, result.Outcome)
	}
}

func TestComeOutTwelvePushesDontPass(t *testing.T) {
	result := playWith(scriptedDice(t, Roll{6, 6}), BetPass)
	assert.Equal(t, OutcomeLose, result.Outcome)

	result = playWith(scriptedDice(t, Roll{6, 6}), BetDontPass)
	assert.Equal(t, OutcomePush, result.Outcome)
}

func TestPointMadeWinsPass(t *testing.T) {
	result := playWith(scriptedDice(t, Roll{4, 4}, Roll{2, 3}, Roll{3, 5}), BetPass)

	assert.Equal(t, OutcomeWin, result.Outcome)
	assert.Equal(t, 8, result.Point)
	assert.Len(t, result.Rolls, 3)
}

func TestSevenOutLosesPass(t *testing.T) {
	result := playWith(scriptedDice(t, Roll{3, 3}, Roll{5, 4}, Roll{3, 4}), BetPass)

	assert.Equal(t, OutcomeLose, result.Outcome)
	assert.Equal(t, 6, result.Point)
}

func TestDontPassMirrorsPointPhase(t *testing.T) {
	// Point made loses don't pass.
	result := playWith(scriptedDice(t, Roll{4, 6}, Roll{5, 5}), BetDontPass)
	assert.Equal(t, OutcomeLose, result.Outcome)

	// Seven out wins don't pass.
	result = playWith(scriptedDice(t, Roll{4, 6}, Roll{1, 6}), BetDontPass)
	assert.Equal(t, OutcomeWin, result.Outcome)
}

func TestPointPhaseIgnoresOtherTotals(t *testing.T) {
	result := playWith(scriptedDice(t,
		Roll{2, 2}, Roll{5, 6}, Roll{1, 1}, Roll{6, 6}, Roll{2, 2}), BetPass)

	assert.Equal(t, OutcomeWin, result.Outcome)
	assert.Equal(t, 4, result.Point)
	assert.Len(t, result.Rolls, 5)
}

func TestPlayTerminatesAcrossSeeds(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		result := Play(r, BetPass)

		require.NotEmpty(t, result.Rolls)
		assert.Contains(t, []Outcome{OutcomeWin, OutcomeLose}, result.Outcome, "seed %d", seed)
		for _, roll := range result.Rolls {
			assert.GreaterOrEqual(t, roll.Die1, 1)
			assert.LessOrEqual(t, roll.Die1, 6)
			assert.GreaterOrEqual(t, roll.Die2, 1)
			assert.LessOrEqual(t, roll.Die2, 6)
		}
	}
}

func TestPlayDeterministicUnderSeed(t *testing.T) {
	a := Play(rand.New(rand.NewSource(42)), BetPass)
	b := Play(rand.New(rand.NewSource(42)), BetPass)
	assert.Equal(t, a, b)
}

func TestProfitPayouts(t *testing.T) {
	assert.Equal(t, int64(250), Profit(OutcomeWin, 250))
	assert.Equal(t, int64(-250), Profit(OutcomeLose, 250))
	assert.Zero(t, Profit(OutcomePush, 250))
}
