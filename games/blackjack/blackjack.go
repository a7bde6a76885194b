package blackjack

import (
	"fmt"
	"math/rand"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

var log = utils.GetLogger("blackjack")

// Outcome of a finished round.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
)

// BlackjackGame is one player's round against the dealer.
type BlackjackGame struct {
	*utils.BaseGame
	Deck   *utils.Deck
	Player *utils.Hand
	Dealer *utils.Hand
}

// NewBlackjackGame deals the opening two cards to each side.
func NewBlackjackGame(s *discordgo.Session, i *discordgo.InteractionCreate, bet int64, rng *rand.Rand) *BlackjackGame {
	game := &BlackjackGame{
		BaseGame: utils.NewBaseGame(s, i, bet, "blackjack"),
		Deck:     utils.NewDeck(1, "blackjack", rng),
		Player:   utils.NewHand("blackjack"),
		Dealer:   utils.NewHand("blackjack"),
	}
	game.Player.AddCard(game.Deck.Deal())
	game.Dealer.AddCard(game.Deck.Deal())
	game.Player.AddCard(game.Deck.Deal())
	game.Dealer.AddCard(game.Deck.Deal())
	return game
}

// PlayDealer draws for the dealer until reaching 17. The dealer stands on
// every 17, soft or hard.
func PlayDealer(deck *utils.Deck, dealer *utils.Hand) {
	for dealer.GetValue() < utils.DealerStandValue {
		dealer.AddCard(deck.Deal())
	}
}

// Resolve compares the finished hands. A player bust loses before the dealer
// plays at all.
func Resolve(player, dealer *utils.Hand) Outcome {
	if player.IsBusted() {
		return OutcomeLose
	}
	if dealer.IsBusted() {
		return OutcomeWin
	}
	playerValue, dealerValue := player.GetValue(), dealer.GetValue()
	switch {
	case playerValue > dealerValue:
		return OutcomeWin
	case playerValue < dealerValue:
		return OutcomeLose
	default:
		return OutcomePush
	}
}

// Profit converts an outcome to chip profit. Wins pay even money, pushes
// return the stake.
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

// RegisterBlackjackCommand describes the /blackjack slash command.
func RegisterBlackjackCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "blackjack",
		Description: "Play a hand of blackjack!",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "bet", Description: "Bet amount (k/m, all, half supported)", Required: true},
		},
	}
}

// HandleBlackjackCommand handles /blackjack.
func HandleBlackjackCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	if _, running := utils.Games.GetGame(userID); running {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You already have a blackjack game in progress."), nil, true)
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

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	game := NewBlackjackGame(s, i, bet, rng)
	if err := game.ValidateBet(); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	// A natural 21 settles immediately.
	if game.Player.IsBlackjack() {
		game.finish(true)
		return
	}

	utils.Games.AddGame(userID, game)

	if err := utils.SendInteractionResponse(s, i, game.buildEmbed(false, ""), buildButtons(false), false); err != nil {
		utils.Games.RemoveGame(userID)
	}
}

// HandleBlackjackInteraction routes hit and stand button presses.
func HandleBlackjackInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)

	entry, ok := utils.Games.GetGame(userID)
	if !ok {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You have no blackjack game in progress."), nil, true)
		return
	}
	game, ok := entry.(*BlackjackGame)
	if !ok {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You have a different game in progress."), nil, true)
		return
	}

	game.Session = s
	game.Interaction = i

	switch i.MessageComponentData().CustomID {
	case "blackjack_hit":
		game.hit()
	case "blackjack_stand":
		game.stand()
	}
}

func (bg *BlackjackGame) hit() {
	bg.Player.AddCard(bg.Deck.Deal())
	if bg.Player.IsBusted() {
		bg.finish(false)
		return
	}
	utils.UpdateComponentInteraction(bg.Session, bg.Interaction, bg.buildEmbed(false, ""), buildButtons(false))
}

func (bg *BlackjackGame) stand() {
	bg.finish(false)
}

// Timeout forfeits an abandoned game. The bet is lost and the table message
// is replaced with the timeout notice. Called by the registry sweep after the
// game has already been removed.
func (bg *BlackjackGame) Timeout() {
	if _, err := bg.EndGame(-bg.Bet); err != nil {
		log.Error().Err(err).Int64("user", bg.UserID).Msg("failed to settle timed out game")
		return
	}
	if bg.Session == nil {
		return
	}
	utils.EditOriginalInteraction(bg.Session, bg.Interaction, utils.GameTimeoutEmbed(bg.Bet), buildButtons(true))
}

// finish plays the dealer when needed, settles the round and reveals the
// table.
func (bg *BlackjackGame) finish(initial bool) {
	utils.Games.RemoveGame(bg.UserID)

	if !bg.Player.IsBusted() {
		PlayDealer(bg.Deck, bg.Dealer)
	}

	outcome := Resolve(bg.Player, bg.Dealer)
	profit := Profit(outcome, bg.Bet)

	if _, err := bg.EndGame(profit); err != nil {
		utils.SendFollowupMessage(bg.Session, bg.Interaction, utils.ErrorEmbed("Failed to settle the game."), true)
		return
	}

	embed := bg.buildEmbed(true, outcomeLine(outcome, bg.Player, bg.Dealer, profit))
	if initial {
		utils.SendInteractionResponse(bg.Session, bg.Interaction, embed, buildButtons(true), false)
	} else if bg.Interaction.Type == discordgo.InteractionMessageComponent {
		utils.UpdateComponentInteraction(bg.Session, bg.Interaction, embed, buildButtons(true))
	} else {
		utils.EditOriginalInteraction(bg.Session, bg.Interaction, embed, buildButtons(true))
	}
	bg.AnnounceRewards()
}

func outcomeLine(outcome Outcome, player, dealer *utils.Hand, profit int64) string {
	switch {
	case player.IsBusted():
		return fmt.Sprintf("Bust! You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	case player.IsBlackjack() && outcome == OutcomeWin:
		return fmt.Sprintf("Blackjack! You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case dealer.IsBusted():
		return fmt.Sprintf("Dealer busts! You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case outcome == OutcomeWin:
		return fmt.Sprintf("You won %s %s!", utils.FormatChips(profit), utils.ChipsEmoji)
	case outcome == OutcomeLose:
		return fmt.Sprintf("Dealer wins. You lost %s %s.", utils.FormatChips(-profit), utils.ChipsEmoji)
	default:
		return "Push. Your bet is returned."
	}
}

func buildButtons(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		utils.CreateActionRow(
			utils.CreateButton("blackjack_hit", "Hit", discordgo.PrimaryButton, disabled, nil),
			utils.CreateButton("blackjack_stand", "Stand", discordgo.SecondaryButton, disabled, nil),
		),
	}
}

func (bg *BlackjackGame) buildEmbed(gameOver bool, outcome string) *discordgo.MessageEmbed {
	color := 0x3498DB
	if gameOver {
		switch {
		case outcome == "Push. Your bet is returned.":
			color = 0xF1C40F
		case bg.Player.IsBusted() || Resolve(bg.Player, bg.Dealer) == OutcomeLose:
			color = 0xE74C3C
		default:
			color = 0x2ECC71
		}
	}

	dealerLine := fmt.Sprintf("%s ?? ", bg.Dealer.Cards[0])
	dealerScore := "?"
	if gameOver {
		dealerLine = bg.Dealer.String()
		dealerScore = fmt.Sprintf("%d", bg.Dealer.GetValue())
	}

	embed := utils.CreateBrandedEmbed("🂡 Blackjack",
		fmt.Sprintf("Bet: %s %s", utils.FormatChips(bg.Bet), utils.ChipsEmoji), color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: fmt.Sprintf("Your Hand (%d)", bg.Player.GetValue()), Value: bg.Player.String(), Inline: false},
		{Name: fmt.Sprintf("Dealer (%s)", dealerScore), Value: dealerLine, Inline: false},
	}
	if outcome != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Result", Value: outcome, Inline: false})
	}
	return embed
}
