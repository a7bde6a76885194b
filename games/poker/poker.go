package poker

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// Category orders hand strengths from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[Category]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// Bet multipliers per category. Winnings are bet times multiplier, so a high
// card loses the whole bet and a pair returns it.
var multipliers = map[Category]int64{
	HighCard:      0,
	Pair:          1,
	TwoPair:       2,
	ThreeOfAKind:  3,
	Straight:      4,
	Flush:         6,
	FullHouse:     9,
	FourOfAKind:   25,
	StraightFlush: 50,
	RoyalFlush:    250,
}

// HandEval is the evaluation of a five card hand. Tiebreak holds ranks sorted
// by group size then value, highest first, so two evaluations of the same
// category compare lexicographically.
type HandEval struct {
	Category   Category
	Name       string
	Multiplier int64
	Tiebreak   []int
}

// Deal draws five cards from a freshly shuffled single deck.
func Deal(r *rand.Rand) []utils.Card {
	deck := utils.NewDeck(1, "poker", r)
	return deck.DealMultiple(5)
}

// Evaluate classifies a five card hand.
func Evaluate(cards []utils.Card) HandEval {
	values := make([]int, len(cards))
	suits := make(map[string]int)
	counts := make(map[int]int)
	for i, c := range cards {
		v := c.GetValue("poker")
		values[i] = v
		counts[v]++
		suits[c.Suit]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := len(suits) == 1
	straight, straightHigh := straightHigh(values)

	// Group ranks by count, larger groups and higher ranks first.
	type group struct{ value, count int }
	groups := make([]group, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, group{v, n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	tiebreak := make([]int, 0, len(groups))
	for _, g := range groups {
		tiebreak = append(tiebreak, g.value)
	}

	var category Category
	switch {
	case flush && straight && straightHigh == 14:
		category = RoyalFlush
	case flush && straight:
		category = StraightFlush
	case groups[0].count == 4:
		category = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
	case flush:
		category = Flush
	case straight:
		category = Straight
	case groups[0].count == 3:
		category = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
	case groups[0].count == 2:
		category = Pair
	default:
		category = HighCard
	}

	if straight {
		tiebreak = []int{straightHigh}
	}

	return HandEval{
		Category:   category,
		Name:       categoryNames[category],
		Multiplier: multipliers[category],
		Tiebreak:   tiebreak,
	}
}

// straightHigh reports whether five distinct descending values form a run and
// returns the high card. The wheel A-2-3-4-5 counts as a five high straight.
func straightHigh(desc []int) (bool, int) {
	if len(desc) != 5 {
		return false, 0
	}
	for i := 1; i < 5; i++ {
		if desc[i] != desc[i-1]-1 {
			// Ace plays low in A-5-4-3-2.
			if i == 1 && desc[0] == 14 && desc[1] == 5 {
				continue
			}
			return false, 0
		}
	}
	if desc[0] == 14 && desc[1] == 5 {
		return true, 5
	}
	return true, desc[0]
}

// Compare orders two evaluations: positive when a beats b, negative when b
// beats a, zero on an exact tie. Equal categories fall through to the kickers.
func Compare(a, b HandEval) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	for i := 0; i < len(a.Tiebreak) && i < len(b.Tiebreak); i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			return a.Tiebreak[i] - b.Tiebreak[i]
		}
	}
	return 0
}

// FormatHand renders cards as text.
func FormatHand(cards []utils.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, "  ")
}

// RegisterPokerCommand describes the /poker slash command.
func RegisterPokerCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "poker",
		Description: "Draw a five card poker hand!",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
		},
	}
}

// HandlePokerCommand handles /poker.
func HandlePokerCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	user, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching your profile."), nil, true)
		return
	}

	var betStr string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			betStr = opt.StringValue()
		}
	}

	bet, err := utils.ParseBet(betStr, user.Chips)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}
	if bet < utils.MinBet || bet > utils.MaxBet {
		utils.SendInteractionResponse(s, i,
			utils.ErrorEmbed(fmt.Sprintf("Bet must be between %d and %d.", utils.MinBet, utils.MaxBet)), nil, true)
		return
	}
	if user.Chips < bet {
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(bet, user.Chips, "this hand"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i); err != nil {
		return
	}

	go func() {
		game := utils.NewBaseGame(s, i, bet, "poker")
		if err := game.ValidateBet(); err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed(err.Error()), nil)
			return
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		hand := Deal(rng)
		eval := Evaluate(hand)

		winnings := bet * eval.Multiplier
		profit := winnings - bet
		game.JackpotHit = eval.Category == RoyalFlush

		updated, err := game.EndGame(profit)
		if err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Failed to settle the game."), nil)
			return
		}

		utils.EditOriginalInteraction(s, i, buildResultEmbed(hand, eval, bet, profit, updated), nil)
		game.AnnounceRewards()
	}()
}

func buildResultEmbed(hand []utils.Card, eval HandEval, bet, profit int64, user *utils.User) *discordgo.MessageEmbed {
	color := 0xE74C3C
	outcome := fmt.Sprintf("You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	switch {
	case eval.Category == RoyalFlush:
		color = 0xFFD700
		outcome = fmt.Sprintf("**ROYAL FLUSH!** You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case profit > 0:
		color = 0x2ECC71
		outcome = fmt.Sprintf("You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case profit == 0:
		color = 0xF1C40F
		outcome = "Your bet is returned."
	}

	embed := utils.CreateBrandedEmbed("🃏 Five Card Poker",
		fmt.Sprintf("**%s**\n\n%s", eval.Name, FormatHand(hand)), color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Bet", Value: fmt.Sprintf("%s %s (x%d)", utils.FormatChips(bet), utils.ChipsEmoji, eval.Multiplier), Inline: true},
		{Name: "Outcome", Value: outcome, Inline: false},
		{Name: "New Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	return embed
}
