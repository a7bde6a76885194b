package craps

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// BetType selects which line the player backs.
type BetType string

const (
	BetPass     BetType = "pass"
	BetDontPass BetType = "dont_pass"
)

// Outcome of a finished round.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
)

// Roll is one throw of two dice.
type Roll struct {
	Die1, Die2 int
}

func (r Roll) Total() int { return r.Die1 + r.Die2 }

// Result is a full round: the come-out roll, any point rolls, and how the
// backed line fared.
type Result struct {
	Outcome Outcome
	Point   int
	Rolls   []Roll
}

// Play runs one round of craps with random dice.
func Play(r *rand.Rand, betType BetType) Result {
	return playWith(func() Roll {
		return Roll{Die1: r.Intn(6) + 1, Die2: r.Intn(6) + 1}
	}, betType)
}

// playWith runs the round against an injected dice source. The come-out roll
// settles naturals and craps; anything else sets the point and the round rolls
// until the point repeats or a seven shows.
func playWith(roll func() Roll, betType BetType) Result {
	first := roll()
	result := Result{Rolls: []Roll{first}}

	switch first.Total() {
	case 7, 11:
		if betType == BetPass {
			result.Outcome = OutcomeWin
		} else {
			result.Outcome = OutcomeLose
		}
		return result
	case 2, 3:
		if betType == BetPass {
			result.Outcome = OutcomeLose
		} else {
			result.Outcome = OutcomeWin
		}
		return result
	case 12:
		if betType == BetPass {
			result.Outcome = OutcomeLose
		} else {
			// Bar twelve, the don't pass line pushes.
			result.Outcome = OutcomePush
		}
		return result
	}

	result.Point = first.Total()
	for {
		next := roll()
		result.Rolls = append(result.Rolls, next)

		switch next.Total() {
		case result.Point:
			if betType == BetPass {
				result.Outcome = OutcomeWin
			} else {
				result.Outcome = OutcomeLose
			}
			return result
		case 7:
			if betType == BetPass {
				result.Outcome = OutcomeLose
			} else {
				result.Outcome = OutcomeWin
			}
			return result
		}
	}
}

// Profit converts an outcome to chip profit at even money.
func Profit(outcome Outcome, bet int64) int64 {
	switch outcome {
	case OutcomeWin:
		return bet
	case OutcomeLose:
		return -bet
	default:
		return 0
	}
}

var diceFaces = map[int]string{1: "⚀", 2: "⚁", 3: "⚂", 4: "⚃", 5: "⚄", 6: "⚅"}

// FormatRolls renders the roll sequence.
func FormatRolls(rolls []Roll) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = fmt.Sprintf("%s%s %d", diceFaces[r.Die1], diceFaces[r.Die2], r.Total())
	}
	return strings.Join(parts, "  ")
}

// RegisterCrapsCommand describes the /craps slash command.
func RegisterCrapsCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "craps",
		Description: "Roll the dice on the pass or don't pass line!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionString, Name: "line",
				Description: "Which line to back", Required: true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Pass", Value: string(BetPass)},
					{Name: "Don't Pass", Value: string(BetDontPass)},
				},
			},
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
		},
	}
}

// HandleCrapsCommand handles /craps.
func HandleCrapsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	betType := BetPass
	var betStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "line":
			betType = BetType(opt.StringValue())
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
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(bet, user.Chips, "this round"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i); err != nil {
		return
	}

	go func() {
		game := utils.NewBaseGame(s, i, bet, "craps")
		if err := game.ValidateBet(); err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed(err.Error()), nil)
			return
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		result := Play(rng, betType)
		profit := Profit(result.Outcome, bet)

		updated, err := game.EndGame(profit)
		if err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Failed to settle the game."), nil)
			return
		}

		utils.EditOriginalInteraction(s, i, buildResultEmbed(betType, bet, result, profit, updated), nil)
		game.AnnounceRewards()
	}()
}

func buildResultEmbed(betType BetType, bet int64, result Result, profit int64, user *utils.User) *discordgo.MessageEmbed {
	color := 0xE74C3C
	outcome := fmt.Sprintf("You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	switch result.Outcome {
	case OutcomeWin:
		color = 0x2ECC71
		outcome = fmt.Sprintf("You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case OutcomePush:
		color = 0xF1C40F
		outcome = "Bar twelve. Your bet is returned."
	}

	lineName := "Pass"
	if betType == BetDontPass {
		lineName = "Don't Pass"
	}

	embed := utils.CreateBrandedEmbed("🎲 Craps", FormatRolls(result.Rolls), color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Line", Value: fmt.Sprintf("%s for %s %s", lineName, utils.FormatChips(bet), utils.ChipsEmoji), Inline: true},
	}
	if result.Point != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Point", Value: fmt.Sprintf("%d", result.Point), Inline: true})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Outcome", Value: outcome, Inline: false},
		&discordgo.MessageEmbedField{Name: "New Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true})
	return embed
}
