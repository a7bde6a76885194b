package poker

import (
	"math/rand"
	"testing"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(cards ...string) []utils.Card {
	out := make([]utils.Card, len(cards))
	for i, c := range cards {
		rank, suit := c[:len(c)-1], c[len(c)-1:]
		switch suit {
		case "s":
			suit = "♠"
		case "h":
			suit = "♥"
		case "d":
			suit = "♦"
		case "c":
			suit = "♣"
		}
		out[i] = utils.NewCard(rank, suit)
	}
	return out
}

func TestEvaluateRoyalFlush(t *testing.T) {
	eval := Evaluate(hand("10s", "Js", "Qs", "Ks", "As"))
	assert.Equal(t, RoyalFlush, eval.Category)
	assert.Equal(t, int64(250), eval.Multiplier)
}

func TestEvaluateStraightFlush(t *testing.T) {
	eval := Evaluate(hand("5h", "6h", "7h", "8h", "9h"))
	assert.Equal(t, StraightFlush, eval.Category)
	assert.Equal(t, int64(50), eval.Multiplier)
	assert.Equal(t, []int{9}, eval.Tiebreak)
}

func TestEvaluateFourOfAKind(t *testing.T) {
	eval := Evaluate(hand("7s", "7h", "7d", "7c", "2s"))
	assert.Equal(t, FourOfAKind, eval.Category)
	assert.Equal(t, int64(25), eval.Multiplier)
	assert.Equal(t, []int{7, 2}, eval.Tiebreak)
}

func TestEvaluateFullHouse(t *testing.T) {
	eval := Evaluate(hand("Ks", "Kh", "Kd", "3c", "3s"))
	assert.Equal(t, FullHouse, eval.Category)
	assert.Equal(t, int64(9), eval.Multiplier)
	assert.Equal(t, []int{13, 3}, eval.Tiebreak)
}

func TestEvaluateFlush(t *testing.T) {
	eval := Evaluate(hand("2d", "6d", "9d", "Jd", "Kd"))
	assert.Equal(t, Flush, eval.Category)
	assert.Equal(t, int64(6), eval.Multiplier)
	assert.Equal(t, []int{13, 11, 9, 6, 2}, eval.Tiebreak)
}

func TestEvaluateStraight(t *testing.T) {
	eval := Evaluate(hand("8s", "9h", "10d", "Jc", "Qs"))
	assert.Equal(t, Straight, eval.Category)
	assert.Equal(t, int64(4), eval.Multiplier)
	assert.Equal(t, []int{12}, eval.Tiebreak)
}

func TestEvaluateWheelIsFiveHighStraight(t *testing.T) {
	eval := Evaluate(hand("As", "2h", "3d", "4c", "5s"))
	assert.Equal(t, Straight, eval.Category)
	assert.Equal(t, []int{5}, eval.Tiebreak)
}

func TestEvaluateSteelWheelIsStraightFlush(t *testing.T) {
	eval := Evaluate(hand("Ah", "2h", "3h", "4h", "5h"))
	assert.Equal(t, StraightFlush, eval.Category)
	assert.Equal(t, []int{5}, eval.Tiebreak)
}

func TestEvaluateThreeOfAKind(t *testing.T) {
	eval := Evaluate(hand("9s", "9h", "9d", "Kc", "2s"))
	assert.Equal(t, ThreeOfAKind, eval.Category)
	assert.Equal(t, int64(3), eval.Multiplier)
	assert.Equal(t, []int{9, 13, 2}, eval.Tiebreak)
}

func TestEvaluateTwoPair(t *testing.T) {
	eval := Evaluate(hand("Js", "Jh", "4d", "4c", "As"))
	assert.Equal(t, TwoPair, eval.Category)
	assert.Equal(t, int64(2), eval.Multiplier)
	assert.Equal(t, []int{11, 4, 14}, eval.Tiebreak)
}

func TestEvaluatePair(t *testing.T) {
	eval := Evaluate(hand("6s", "6h", "Ad", "10c", "3s"))
	assert.Equal(t, Pair, eval.Category)
	assert.Equal(t, int64(1), eval.Multiplier)
	assert.Equal(t, []int{6, 14, 10, 3}, eval.Tiebreak)
}

func TestEvaluateHighCard(t *testing.T) {
	eval := Evaluate(hand("2s", "5h", "8d", "Jc", "Ks"))
	assert.Equal(t, HighCard, eval.Category)
	assert.Zero(t, eval.Multiplier)
	assert.Equal(t, []int{13, 11, 8, 5, 2}, eval.Tiebreak)
}

func TestCompareAcrossCategories(t *testing.T) {
	flush := Evaluate(hand("2d", "6d", "9d", "Jd", "Kd"))
	straight := Evaluate(hand("8s", "9h", "10d", "Jc", "Qs"))
	assert.Positive(t, Compare(flush, straight))
	assert.Negative(t, Compare(straight, flush))
}

func TestCompareKickersDecideEqualCategories(t *testing.T) {
	aceKicker := Evaluate(hand("8s", "8h", "Ad", "5c", "2s"))
	kingKicker := Evaluate(hand("8d", "8c", "Kd", "5h", "2h"))
	assert.Positive(t, Compare(aceKicker, kingKicker))

	higherPair := Evaluate(hand("9s", "9h", "2d", "3c", "4s"))
	assert.Positive(t, Compare(higherPair, aceKicker))
}

func TestCompareExactTie(t *testing.T) {
	a := Evaluate(hand("8s", "8h", "Ad", "5c", "2s"))
	b := Evaluate(hand("8d", "8c", "Ah", "5s", "2c"))
	assert.Zero(t, Compare(a, b))
}

func TestDealFiveUniqueCards(t *testing.T) {
	cards := Deal(rand.New(rand.NewSource(9)))
	require.Len(t, cards, 5)

	seen := make(map[string]bool)
	for _, c := range cards {
		key := c.String()
		assert.False(t, seen[key], "duplicate card %s", key)
		seen[key] = true
	}
}

func TestDealDeterministicUnderSeed(t *testing.T) {
	a := Deal(rand.New(rand.NewSource(42)))
	b := Deal(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}
