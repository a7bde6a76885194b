package baccarat

import (
	"math/rand"
	"testing"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(specs ...string) []utils.Card {
	out := make([]utils.Card, len(specs))
	for i, s := range specs {
		out[i] = utils.NewCard(s, "♠")
	}
	return out
}

func TestScoreModTen(t *testing.T) {
	assert.Equal(t, 5, Score(cards("7", "8")))
	assert.Equal(t, 9, Score(cards("4", "5")))
	assert.Equal(t, 0, Score(cards("5", "5")))
}

func TestScoreAcesAndFaces(t *testing.T) {
	assert.Equal(t, 1, Score(cards("A", "K")))
	assert.Equal(t, 0, Score(cards("10", "Q")))
	assert.Equal(t, 2, Score(cards("A", "A")))
	assert.Equal(t, 9, Score(cards("9", "J")))
}

func TestResolveWinner(t *testing.T) {
	assert.Equal(t, WinnerPlayer, ResolveWinner(Coup{Player: cards("4", "5"), Banker: cards("4", "4")}))
	assert.Equal(t, WinnerBanker, ResolveWinner(Coup{Player: cards("2", "3"), Banker: cards("3", "4")}))
	assert.Equal(t, WinnerTie, ResolveWinner(Coup{Player: cards("3", "3"), Banker: cards("K", "6")}))
}

func TestPayoutMultipliers(t *testing.T) {
	assert.Equal(t, 1.0, PayoutMultiplier(BetPlayer, WinnerPlayer))
	assert.Equal(t, 0.95, PayoutMultiplier(BetBanker, WinnerBanker))
	assert.Equal(t, 8.0, PayoutMultiplier(BetTie, WinnerTie))
}

func TestMissedBetsLoseStake(t *testing.T) {
	assert.Equal(t, -1.0, PayoutMultiplier(BetPlayer, WinnerBanker))
	assert.Equal(t, -1.0, PayoutMultiplier(BetBanker, WinnerPlayer))
	assert.Equal(t, -1.0, PayoutMultiplier(BetTie, WinnerPlayer))

	// Side bets lose on a tie, the stake is not returned.
	assert.Equal(t, -1.0, PayoutMultiplier(BetPlayer, WinnerTie))
	assert.Equal(t, -1.0, PayoutMultiplier(BetBanker, WinnerTie))
}

func TestProfitTruncation(t *testing.T) {
	assert.Equal(t, int64(100), Profit(BetPlayer, WinnerPlayer, 100))
	// 0.95 of 101 truncates toward zero.
	assert.Equal(t, int64(95), Profit(BetBanker, WinnerBanker, 101))
	assert.Equal(t, int64(800), Profit(BetTie, WinnerTie, 100))
	assert.Equal(t, int64(-100), Profit(BetPlayer, WinnerBanker, 100))
}

func TestDealCoupDrawsWithoutReplacement(t *testing.T) {
	coup := DealCoup(rand.New(rand.NewSource(5)))
	require.Len(t, coup.Player, 2)
	require.Len(t, coup.Banker, 2)

	seen := make(map[string]bool)
	for _, c := range append(append([]utils.Card{}, coup.Player...), coup.Banker...) {
		key := c.String()
		assert.False(t, seen[key], "duplicate card %s", key)
		seen[key] = true
	}
}

func TestDealCoupDeterministicUnderSeed(t *testing.T) {
	a := DealCoup(rand.New(rand.NewSource(42)))
	b := DealCoup(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}
