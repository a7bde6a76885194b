package cogs

import (
	"fmt"
	"sort"
	"strings"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// RegisterShopCommands describes the shop, loan, crafting and lottery slash
// commands.
func RegisterShopCommands() []*discordgo.ApplicationCommand {
	itemChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(utils.ShopItems))
	for _, item := range utils.SortedShopItems() {
		itemChoices = append(itemChoices, &discordgo.ApplicationCommandOptionChoice{Name: item.Name, Value: item.ID})
	}

	recipeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(utils.CraftingRecipes))
	recipeIDs := make([]string, 0, len(utils.CraftingRecipes))
	for id := range utils.CraftingRecipes {
		recipeIDs = append(recipeIDs, id)
	}
	sort.Strings(recipeIDs)
	for _, id := range recipeIDs {
		recipeChoices = append(recipeChoices, &discordgo.ApplicationCommandOptionChoice{Name: id, Value: id})
	}

	return []*discordgo.ApplicationCommand{
		{Name: "shop", Description: "Browse the item shop"},
		{
			Name: "buy", Description: "Buy an item from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item to buy", Required: true, Choices: itemChoices},
			},
		},
		{
			Name: "loan", Description: "Take out a chip loan",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: fmt.Sprintf("Chips to borrow (max %d)", utils.MaxLoan), Required: true},
			},
		},
		{Name: "repay", Description: "Repay your outstanding loan"},
		{
			Name: "craft", Description: "Craft an item from ingredients",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "recipe", Description: "Recipe to craft", Required: true, Choices: recipeChoices},
			},
		},
		{
			Name: "lottery", Description: "Buy lottery tickets for the hourly draw",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "tickets", Description: "Tickets to buy", Required: false},
			},
		},
		{Name: "jackpot", Description: "Check the current lottery jackpot"},
	}
}

// HandleShopCommand handles /shop.
func HandleShopCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lines := make([]string, 0, len(utils.ShopItems))
	for _, item := range utils.SortedShopItems() {
		lines = append(lines, fmt.Sprintf("**%s** — %s %s\n%s",
			item.Name, utils.FormatChips(item.Price), utils.ChipsEmoji, item.Description))
	}

	embed := utils.CreateBrandedEmbed("🛒 Item Shop", strings.Join(lines, "\n\n"), utils.BotColor)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleBuyCommand handles /buy.
func HandleBuyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var itemID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "item" {
			itemID = opt.StringValue()
		}
	}

	user, item, err := utils.BuyItem(userID, itemID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🛒 Purchase Complete",
		fmt.Sprintf("You bought **%s** for %s %s.", item.Name, utils.FormatChips(item.Price), utils.ChipsEmoji), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleLoanCommand handles /loan.
func HandleLoanCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = opt.IntValue()
		}
	}

	user, owed, err := utils.TakeLoan(userID, amount)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🏦 Loan Approved",
		fmt.Sprintf("You borrowed %s %s. You owe %s %s.",
			utils.FormatChips(amount), utils.ChipsEmoji, utils.FormatChips(owed), utils.ChipsEmoji), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleRepayCommand handles /repay.
func HandleRepayCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	user, repaid, err := utils.RepayLoan(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🏦 Loan Repaid",
		fmt.Sprintf("You repaid %s %s. You are debt free!", utils.FormatChips(repaid), utils.ChipsEmoji), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)

	if a, err := utils.AwardAchievement(userID, "debt_free"); err == nil && a != nil {
		utils.SendFollowupMessage(s, i, utils.AchievementEmbed([]utils.Achievement{*a}), false)
	}
}

// HandleCraftCommand handles /craft.
func HandleCraftCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var recipeID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "recipe" {
			recipeID = opt.StringValue()
		}
	}

	_, recipe, err := utils.CraftItem(userID, recipeID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	ingredients := make([]string, 0, len(recipe.Ingredients))
	for item, count := range recipe.Ingredients {
		ingredients = append(ingredients, fmt.Sprintf("%dx %s", count, item))
	}
	sort.Strings(ingredients)

	embed := utils.CreateBrandedEmbed("⚒️ Crafting Complete",
		fmt.Sprintf("You crafted **%s**!\n%s", recipe.ID, recipe.Description), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Consumed", Value: strings.Join(ingredients, ", "), Inline: false},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)

	if a, err := utils.AwardAchievement(userID, "craftsman"); err == nil && a != nil {
		utils.SendFollowupMessage(s, i, utils.AchievementEmbed([]utils.Achievement{*a}), false)
	}
}

// HandleLotteryCommand handles /lottery.
func HandleLotteryCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	tickets := 0
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "tickets" {
			tickets = int(opt.IntValue())
		}
	}

	if tickets <= 0 {
		embed := utils.CreateBrandedEmbed("🎟️ Lottery",
			fmt.Sprintf("Tickets cost %s %s each. You hold %d ticket(s) for the next draw.\nCurrent jackpot: %s %s",
				utils.FormatChips(utils.LotteryTicketPrice), utils.ChipsEmoji,
				utils.Lottery.TicketCount(userID),
				utils.FormatChips(utils.Lottery.Jackpot()), utils.ChipsEmoji), utils.BotColor)
		utils.SendInteractionResponse(s, i, embed, nil, true)
		return
	}

	cost, jackpot, err := utils.Lottery.BuyTickets(userID, tickets)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🎟️ Tickets Purchased",
		fmt.Sprintf("You bought %d ticket(s) for %s %s.", tickets, utils.FormatChips(cost), utils.ChipsEmoji), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Jackpot", Value: fmt.Sprintf("%s %s", utils.FormatChips(jackpot), utils.ChipsEmoji), Inline: true},
		{Name: "Your Tickets", Value: fmt.Sprintf("%d", utils.Lottery.TicketCount(userID)), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleJackpotCommand handles /jackpot.
func HandleJackpotCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := utils.CreateBrandedEmbed("💰 Lottery Jackpot",
		fmt.Sprintf("The pot currently holds %s %s.\nEvery ticket gives a 1 in %d chance each hourly draw.",
			utils.FormatChips(utils.Lottery.Jackpot()), utils.ChipsEmoji, utils.LotteryOddsPerEntry), 0xFFD700)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}
