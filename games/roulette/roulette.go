package roulette

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// BetType is one of the six supported bet families.
type BetType string

const (
	BetNumber BetType = "number"
	BetColor  BetType = "color"
	BetParity BetType = "parity"
	BetRange  BetType = "range"
	BetDozen  BetType = "dozen"
	BetColumn BetType = "column"
)

// Payout odds per family, profit per chip staked on a hit.
var payouts = map[BetType]int64{
	BetNumber: 35,
	BetColor:  1,
	BetParity: 1,
	BetRange:  1,
	BetDozen:  2,
	BetColumn: 2,
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Spin returns a pocket in [0, 36].
func Spin(r *rand.Rand) int {
	return r.Intn(37)
}

// ColorOf returns red, black or green for a pocket.
func ColorOf(n int) string {
	if n == 0 {
		return "green"
	}
	if redNumbers[n] {
		return "red"
	}
	return "black"
}

// Validate reports whether the value is legal for the bet family.
func Validate(betType BetType, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	switch betType {
	case BetNumber:
		n, err := strconv.Atoi(value)
		return err == nil && n >= 0 && n <= 36
	case BetColor:
		return value == "red" || value == "black"
	case BetParity:
		return value == "even" || value == "odd"
	case BetRange:
		return value == "high" || value == "low"
	case BetDozen:
		return value == "first" || value == "second" || value == "third"
	case BetColumn:
		n, err := strconv.Atoi(value)
		return err == nil && n >= 1 && n <= 3
	default:
		return false
	}
}

// Payout returns the profit multiplier for a bet against a spun pocket, 0 on
// a miss. Zero satisfies nothing except a straight bet on 0.
func Payout(betType BetType, value string, spun int) int64 {
	value = strings.ToLower(strings.TrimSpace(value))
	if !Validate(betType, value) {
		return 0
	}

	switch betType {
	case BetNumber:
		n, _ := strconv.Atoi(value)
		if spun == n {
			return payouts[BetNumber]
		}
	case BetColor:
		if ColorOf(spun) == value {
			return payouts[BetColor]
		}
	case BetParity:
		if spun == 0 {
			return 0
		}
		parity := "odd"
		if spun%2 == 0 {
			parity = "even"
		}
		if parity == value {
			return payouts[BetParity]
		}
	case BetRange:
		if spun == 0 {
			return 0
		}
		rng := "high"
		if spun <= 18 {
			rng = "low"
		}
		if rng == value {
			return payouts[BetRange]
		}
	case BetDozen:
		if spun == 0 {
			return 0
		}
		dozen := "third"
		if spun <= 12 {
			dozen = "first"
		} else if spun <= 24 {
			dozen = "second"
		}
		if dozen == value {
			return payouts[BetDozen]
		}
	case BetColumn:
		if spun == 0 {
			return 0
		}
		col, _ := strconv.Atoi(value)
		spunCol := spun % 3
		if spunCol == 0 {
			spunCol = 3
		}
		if spunCol == col {
			return payouts[BetColumn]
		}
	}
	return 0
}

// RegisterRouletteCommand describes the /roulette slash command.
func RegisterRouletteCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "roulette",
		Description: "Spin the roulette wheel!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionString, Name: "type",
				Description: "Bet family", Required: true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Number (0-36)", Value: string(BetNumber)},
					{Name: "Color (red/black)", Value: string(BetColor)},
					{Name: "Parity (even/odd)", Value: string(BetParity)},
					{Name: "Range (high/low)", Value: string(BetRange)},
					{Name: "Dozen (first/second/third)", Value: string(BetDozen)},
					{Name: "Column (1-3)", Value: string(BetColumn)},
				},
			},
			{Type: discordgo.ApplicationCommandOptionString, Name: "value", Description: "Bet value", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
		},
	}
}

// HandleRouletteCommand handles /roulette.
func HandleRouletteCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var betType BetType
	var value, betStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "type":
			betType = BetType(opt.StringValue())
		case "value":
			value = opt.StringValue()
		case "bet":
			betStr = opt.StringValue()
		}
	}

	if !Validate(betType, value) {
		utils.SendInteractionResponse(s, i,
			utils.ErrorEmbed(fmt.Sprintf("`%s` is not a valid %s bet.", value, betType)), nil, true)
		return
	}

	user, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching your profile."), nil, true)
		return
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
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(bet, user.Chips, "this bet"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i); err != nil {
		return
	}

	go func() {
		game := utils.NewBaseGame(s, i, bet, "roulette")
		if err := game.ValidateBet(); err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed(err.Error()), nil)
			return
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		spun := Spin(rng)
		multiplier := Payout(betType, value, spun)

		var profit int64
		if multiplier > 0 {
			profit = bet * multiplier
		} else {
			profit = -bet
		}

		updated, err := game.EndGame(profit)
		if err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Failed to settle the game."), nil)
			return
		}

		utils.EditOriginalInteraction(s, i, buildResultEmbed(betType, value, bet, spun, profit, updated), nil)
		game.AnnounceRewards()
	}()
}

func buildResultEmbed(betType BetType, value string, bet int64, spun int, profit int64, user *utils.User) *discordgo.MessageEmbed {
	color := 0xE74C3C
	outcome := fmt.Sprintf("You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	if profit > 0 {
		color = 0x2ECC71
		outcome = fmt.Sprintf("You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	}

	pocketEmoji := map[string]string{"red": "🟥", "black": "⬛", "green": "🟩"}[ColorOf(spun)]
	embed := utils.CreateBrandedEmbed("🎡 Roulette",
		fmt.Sprintf("The ball lands on %s **%d**!", pocketEmoji, spun), color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Your Bet", Value: fmt.Sprintf("%s on **%s** for %s %s", string(betType), value, utils.FormatChips(bet), utils.ChipsEmoji), Inline: false},
		{Name: "Outcome", Value: outcome, Inline: false},
		{Name: "New Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	return embed
}
