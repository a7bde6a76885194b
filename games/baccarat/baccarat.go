package baccarat

import (
	"fmt"
	"math/rand"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// BetType is the side the player backs.
type BetType string

const (
	BetPlayer BetType = "player"
	BetBanker BetType = "banker"
	BetTie    BetType = "tie"
)

// Winner of a coup.
type Winner string

const (
	WinnerPlayer Winner = "player"
	WinnerBanker Winner = "banker"
	WinnerTie    Winner = "tie"
)

// Coup is one two-card deal for each side.
type Coup struct {
	Player []utils.Card
	Banker []utils.Card
}

// DealCoup deals both hands from one shuffled deck.
func DealCoup(r *rand.Rand) Coup {
	deck := utils.NewDeck(1, "baccarat", r)
	return Coup{
		Player: deck.DealMultiple(2),
		Banker: deck.DealMultiple(2),
	}
}

// Score totals a hand modulo ten under baccarat counting.
func Score(cards []utils.Card) int {
	total := 0
	for _, c := range cards {
		total += c.GetValue("baccarat")
	}
	return total % 10
}

// ResolveWinner picks the side with the higher score.
func ResolveWinner(c Coup) Winner {
	playerScore, bankerScore := Score(c.Player), Score(c.Banker)
	switch {
	case playerScore > bankerScore:
		return WinnerPlayer
	case bankerScore > playerScore:
		return WinnerBanker
	default:
		return WinnerTie
	}
}

// PayoutMultiplier returns the profit per chip for a bet given the winner. A
// miss loses the stake, including player and banker bets on a tie.
func PayoutMultiplier(bet BetType, winner Winner) float64 {
	if string(bet) != string(winner) {
		return -1
	}
	switch bet {
	case BetPlayer:
		return utils.BaccaratPlayerPayout
	case BetBanker:
		return utils.BaccaratBankerPayout
	case BetTie:
		return utils.BaccaratTiePayout
	}
	return -1
}

// Profit applies the multiplier to the stake, truncating toward zero.
func Profit(bet BetType, winner Winner, stake int64) int64 {
	return int64(float64(stake) * PayoutMultiplier(bet, winner))
}

// RegisterBaccaratCommand describes the /baccarat slash command.
func RegisterBaccaratCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "baccarat",
		Description: "Back the player, the banker, or a tie!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionString, Name: "side",
				Description: "Which side to back", Required: true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Player (1:1)", Value: string(BetPlayer)},
					{Name: "Banker (0.95:1)", Value: string(BetBanker)},
					{Name: "Tie (8:1)", Value: string(BetTie)},
				},
			},
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
		},
	}
}

// HandleBaccaratCommand handles /baccarat.
func HandleBaccaratCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	side := BetPlayer
	var betStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "side":
			side = BetType(opt.StringValue())
		case "bet":
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
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(bet, user.Chips, "this coup"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i); err != nil {
		return
	}

	go func() {
		game := utils.NewBaseGame(s, i, bet, "baccarat")
		if err := game.ValidateBet(); err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed(err.Error()), nil)
			return
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		coup := DealCoup(rng)
		winner := ResolveWinner(coup)
		profit := Profit(side, winner, bet)

		updated, err := game.EndGame(profit)
		if err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Failed to settle the game."), nil)
			return
		}

		utils.EditOriginalInteraction(s, i, buildResultEmbed(side, bet, coup, winner, profit, updated), nil)
		game.AnnounceRewards()
	}()
}

func buildResultEmbed(side BetType, bet int64, coup Coup, winner Winner, profit int64, user *utils.User) *discordgo.MessageEmbed {
	color := 0xE74C3C
	outcome := fmt.Sprintf("You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	if profit > 0 {
		color = 0x2ECC71
		outcome = fmt.Sprintf("You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	}

	winnerLine := map[Winner]string{
		WinnerPlayer: "**Player** wins the coup!",
		WinnerBanker: "**Banker** wins the coup!",
		WinnerTie:    "It's a **tie**!",
	}[winner]

	embed := utils.CreateBrandedEmbed("🀄 Baccarat", winnerLine, color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: fmt.Sprintf("Player (%d)", Score(coup.Player)), Value: formatCards(coup.Player), Inline: true},
		{Name: fmt.Sprintf("Banker (%d)", Score(coup.Banker)), Value: formatCards(coup.Banker), Inline: true},
		{Name: "Your Bet", Value: fmt.Sprintf("%s for %s %s", side, utils.FormatChips(bet), utils.ChipsEmoji), Inline: false},
		{Name: "Outcome", Value: outcome, Inline: false},
		{Name: "New Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	return embed
}

func formatCards(cards []utils.Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += "  "
		}
		out += c.String()
	}
	return out
}
