package blackjack

import (
	"math/rand"
	"testing"
	"time"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutForfeitsBet(t *testing.T) {
	utils.InitializeCache(time.Minute)
	t.Cleanup(func() {
		utils.CloseCache()
		utils.Cache = nil
	})

	game := &BlackjackGame{
		BaseGame: &utils.BaseGame{UserID: 777, Bet: 100, GameType: "blackjack", CreatedAt: time.Now()},
	}
	require.NoError(t, game.ValidateBet())

	game.Timeout()

	assert.True(t, game.IsGameOver())
	user, err := utils.GetCachedUser(777)
	require.NoError(t, err)
	assert.Equal(t, int64(utils.StartingChips-100), user.Chips)
	assert.Equal(t, 1, user.Losses)
}

func handOf(cards ...utils.Card) *utils.Hand {
	h := utils.NewHand("blackjack")
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

func TestTwoAcesScoreTwelve(t *testing.T) {
	h := handOf(utils.NewCard("A", "♠"), utils.NewCard("A", "♥"))
	assert.Equal(t, 12, h.GetValue())
}

func TestSoftHandDemotesAceOnBust(t *testing.T) {
	h := handOf(utils.NewCard("A", "♠"), utils.NewCard("7", "♥"))
	assert.Equal(t, 18, h.GetValue())

	h.AddCard(utils.NewCard("9", "♦"))
	assert.Equal(t, 17, h.GetValue())
}

func TestPlayDealerStandsOnEverySeventeen(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	deck := utils.NewDeck(1, "blackjack", rng)

	// Soft 17, the dealer must not draw.
	dealer := handOf(utils.NewCard("A", "♠"), utils.NewCard("6", "♥"))
	PlayDealer(deck, dealer)
	assert.Equal(t, 2, dealer.Count())
	assert.Equal(t, 17, dealer.GetValue())
}

func TestPlayDealerDrawsToSeventeenOrMore(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		deck := utils.NewDeck(1, "blackjack", rng)
		dealer := utils.NewHand("blackjack")
		dealer.AddCard(deck.Deal())
		dealer.AddCard(deck.Deal())

		PlayDealer(deck, dealer)
		assert.GreaterOrEqual(t, dealer.GetValue(), utils.DealerStandValue, "seed %d", seed)
	}
}

func TestResolvePlayerBustLosesEvenIfDealerBusts(t *testing.T) {
	player := handOf(utils.NewCard("K", "♠"), utils.NewCard("Q", "♥"), utils.NewCard("5", "♦"))
	dealer := handOf(utils.NewCard("K", "♣"), utils.NewCard("9", "♠"), utils.NewCard("8", "♥"))

	assert.True(t, player.IsBusted())
	assert.Equal(t, OutcomeLose, Resolve(player, dealer))
}

func TestResolveDealerBust(t *testing.T) {
	player := handOf(utils.NewCard("10", "♠"), utils.NewCard("8", "♥"))
	dealer := handOf(utils.NewCard("K", "♣"), utils.NewCard("6", "♠"), utils.NewCard("9", "♥"))

	assert.Equal(t, OutcomeWin, Resolve(player, dealer))
}

func TestResolveComparisons(t *testing.T) {
	twenty := handOf(utils.NewCard("K", "♠"), utils.NewCard("Q", "♥"))
	nineteen := handOf(utils.NewCard("10", "♣"), utils.NewCard("9", "♦"))
	alsoTwenty := handOf(utils.NewCard("J", "♦"), utils.NewCard("10", "♥"))

	assert.Equal(t, OutcomeWin, Resolve(twenty, nineteen))
	assert.Equal(t, OutcomeLose, Resolve(nineteen, twenty))
	assert.Equal(t, OutcomePush, Resolve(twenty, alsoTwenty))
}

func TestProfitPayouts(t *testing.T) {
	assert.Equal(t, int64(100), Profit(OutcomeWin, 100))
	assert.Equal(t, int64(-100), Profit(OutcomeLose, 100))
	assert.Zero(t, Profit(OutcomePush, 100))
}

func TestNaturalBlackjackDetected(t *testing.T) {
	natural := handOf(utils.NewCard("A", "♠"), utils.NewCard("K", "♥"))
	assert.True(t, natural.IsBlackjack())

	drawnTwentyOne := handOf(utils.NewCard("7", "♠"), utils.NewCard("7", "♥"), utils.NewCard("7", "♦"))
	assert.Equal(t, 21, drawnTwentyOne.GetValue())
	assert.False(t, drawnTwentyOne.IsBlackjack())
}
