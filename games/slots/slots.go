package slots

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// LineWin records one paying row of a spin.
type LineWin struct {
	Line   int
	Symbol string
	Payout int64
}

// SpinResult is the evaluation of a full grid.
type SpinResult struct {
	Winnings     int64
	JackpotHit   bool
	WinningLines []LineWin
}

// Spin produces a lines x 3 grid of symbols. Lines is clamped to
// [1, SlotMaxLines].
func Spin(r *rand.Rand, lines int) [][]string {
	if lines < 1 {
		lines = 1
	}
	if lines > utils.SlotMaxLines {
		lines = utils.SlotMaxLines
	}

	grid := make([][]string, lines)
	for i := range grid {
		row := make([]string, utils.SlotReelsPerLine)
		for j := range row {
			row[j] = utils.SlotSymbols[r.Intn(len(utils.SlotSymbols))]
		}
		grid[i] = row
	}
	return grid
}

// Evaluate pays every row whose symbols all match. A matching row of the
// jackpot symbol pays the jackpot multiplier and flags the spin.
func Evaluate(grid [][]string) SpinResult {
	result := SpinResult{}
	for i, row := range grid {
		if len(row) == 0 {
			continue
		}
		allEqual := true
		for _, sym := range row[1:] {
			if sym != row[0] {
				allEqual = false
				break
			}
		}
		if !allEqual {
			continue
		}

		payout := int64(utils.SlotLinePayout)
		if row[0] == utils.SlotJackpotSymbol {
			payout *= utils.SlotJackpotMultiplier
			result.JackpotHit = true
		}
		result.Winnings += payout
		result.WinningLines = append(result.WinningLines, LineWin{Line: i, Symbol: row[0], Payout: payout})
	}
	return result
}

// FormatGrid renders the grid with winning rows marked.
func FormatGrid(grid [][]string, wins []LineWin) string {
	winPayouts := make(map[int]int64, len(wins))
	for _, w := range wins {
		winPayouts[w.Line] = w.Payout
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		if payout, ok := winPayouts[i]; ok {
			lines[i] = fmt.Sprintf("▶️ %s ◀️ +%s", strings.Join(row, " "), utils.FormatChips(payout))
		} else {
			lines[i] = "   " + strings.Join(row, " ")
		}
	}
	return strings.Join(lines, "\n")
}

// formatPartial renders the grid with only some columns revealed, for the
// spin animation.
func formatPartial(grid [][]string, revealed int) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		cells := make([]string, len(row))
		for j := range row {
			if j < revealed {
				cells[j] = row[j]
			} else {
				cells[j] = "🎰"
			}
		}
		lines[i] = "   " + strings.Join(cells, " ")
	}
	return strings.Join(lines, "\n")
}

// RegisterSlotsCommand describes the /slots slash command.
func RegisterSlotsCommand() *discordgo.ApplicationCommand {
	minLines := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        "slots",
		Description: "Spin the slot machine!",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "lines", Description: "Paylines to play (1-3)", Required: false, MinValue: &minLines, MaxValue: float64(utils.SlotMaxLines)},
		},
	}
}

// HandleSlotsCommand handles /slots.
func HandleSlotsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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
	lines := 1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet":
			betStr = opt.StringValue()
		case "lines":
			lines = int(opt.IntValue())
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
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(bet, user.Chips, "this spin"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i); err != nil {
		return
	}

	go func() {
		game := utils.NewBaseGame(s, i, bet, "slots")
		if err := game.ValidateBet(); err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed(err.Error()), nil)
			return
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		grid := Spin(rng, lines)
		result := Evaluate(grid)
		game.JackpotHit = result.JackpotHit

		// Column-by-column reveal.
		for revealed := 0; revealed < utils.SlotReelsPerLine; revealed++ {
			embed := utils.CreateBrandedEmbed("🎰 Slot Machine",
				fmt.Sprintf("Spinning...\n```\n%s\n```", formatPartial(grid, revealed)), 0x3498DB)
			utils.EditOriginalInteraction(s, i, embed, nil)
			time.Sleep(700 * time.Millisecond)
		}

		profit := result.Winnings - bet
		updated, err := game.EndGame(profit)
		if err != nil {
			utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Failed to settle the game."), nil)
			return
		}

		utils.EditOriginalInteraction(s, i, buildResultEmbed(grid, result, bet, profit, updated), nil)
		game.AnnounceRewards()
	}()
}

func buildResultEmbed(grid [][]string, result SpinResult, bet, profit int64, user *utils.User) *discordgo.MessageEmbed {
	color := 0xE74C3C
	outcome := "No wins this time. Better luck next spin!"
	switch {
	case result.JackpotHit:
		color = 0xFFD700
		outcome = fmt.Sprintf("**JACKPOT!** You won %s %s!", utils.FormatChips(result.Winnings), utils.ChipsEmoji)
	case result.Winnings > 0:
		color = 0x2ECC71
		outcome = fmt.Sprintf("You won %s %s!", utils.FormatChips(result.Winnings), utils.ChipsEmoji)
	}

	embed := utils.CreateBrandedEmbed("🎰 Slot Machine Results",
		fmt.Sprintf("```\n%s\n```", FormatGrid(grid, result.WinningLines)), color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Outcome", Value: outcome, Inline: false},
		{Name: "Bet", Value: fmt.Sprintf("%s %s", utils.FormatChips(bet), utils.ChipsEmoji), Inline: true},
	}

	if profit >= 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Profit", Value: fmt.Sprintf("+%s %s", utils.FormatChips(profit), utils.ChipsEmoji), Inline: true})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Loss", Value: fmt.Sprintf("%s %s", utils.FormatChips(-profit), utils.ChipsEmoji), Inline: true})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "New Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: false})
	return embed
}
