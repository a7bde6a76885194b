package cogs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// parseItemList turns "gold_coin:2, diamond:1" into an inventory blob.
func parseItemList(raw string) (utils.JSONB, error) {
	items := make(utils.JSONB)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name := part
		count := 1
		if idx := strings.LastIndex(part, ":"); idx >= 0 {
			name = strings.TrimSpace(part[:idx])
			if _, err := fmt.Sscanf(part[idx+1:], "%d", &count); err != nil {
				return nil, fmt.Errorf("invalid item count in %q", part)
			}
		}
		if name == "" || count <= 0 {
			return nil, fmt.Errorf("invalid item entry %q", part)
		}
		items[name] = float64(utils.InventoryCount(items, name) + count)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items given")
	}
	return items, nil
}

func formatItemList(items utils.JSONB) string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%dx %s", utils.InventoryCount(items, name), name))
	}
	return strings.Join(parts, ", ")
}

// hasAllItems reports whether the inventory covers every requested item.
func hasAllItems(inv, wanted utils.JSONB) bool {
	for name := range wanted {
		if utils.InventoryCount(inv, name) < utils.InventoryCount(wanted, name) {
			return false
		}
	}
	return true
}

// transferItems moves the given items from one inventory to another.
func transferItems(from, to utils.JSONB, items utils.JSONB) (utils.JSONB, utils.JSONB, error) {
	var err error
	for name := range items {
		count := utils.InventoryCount(items, name)
		from, err = utils.RemoveFromInventory(from, name, count)
		if err != nil {
			return nil, nil, err
		}
		to = utils.AddToInventory(to, name, count)
	}
	return from, to, nil
}

// RegisterTradingCommands describes the trading slash commands.
func RegisterTradingCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name: "trade", Description: "Offer an item trade to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Who to trade with", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "offer", Description: "Items you give, e.g. gold_coin:2", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "request", Description: "Items you want, e.g. diamond:1", Required: true},
			},
		},
		{Name: "tradeview", Description: "View trade offers waiting on you"},
		{
			Name: "tradeaccept", Description: "Accept a pending trade offer",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Offer id", Required: true},
			},
		},
		{
			Name: "tradedecline", Description: "Decline a pending trade offer",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Offer id", Required: true},
			},
		},
	}
}

// HandleTradeCommand handles /trade.
func HandleTradeCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var partner *discordgo.User
	var offerSpec, requestSpec string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			partner = opt.UserValue(s)
		case "offer":
			offerSpec = opt.StringValue()
		case "request":
			requestSpec = opt.StringValue()
		}
	}

	if partner == nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not resolve the trade partner."), nil, true)
		return
	}
	partnerID, err := utils.ParseUserID(partner.ID)
	if err != nil || partnerID == userID || partner.Bot {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You cannot trade with that user."), nil, true)
		return
	}

	offered, err := parseItemList(offerSpec)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Invalid offer: "+err.Error()), nil, true)
		return
	}
	requested, err := parseItemList(requestSpec)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Invalid request: "+err.Error()), nil, true)
		return
	}

	sender, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching your profile."), nil, true)
		return
	}
	if !hasAllItems(sender.Inventory, offered) {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You do not own all the items you are offering."), nil, true)
		return
	}

	offer := &utils.TradeOffer{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: partnerID,
		Offered:    offered,
		Requested:  requested,
		Status:     "pending",
		CreatedAt:  time.Now().UTC(),
	}
	if err := utils.CreateTradeOffer(offer); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🤝 Trade Offer Sent",
		fmt.Sprintf("%s, %s wants to trade with you!", partner.Mention(), fmt.Sprintf("<@%d>", userID)), utils.BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "They Give", Value: formatItemList(offered), Inline: true},
		{Name: "They Want", Value: formatItemList(requested), Inline: true},
		{Name: "Offer ID", Value: fmt.Sprintf("`%s`", offer.ID), Inline: false},
		{Name: "How To Respond", Value: "Use /tradeaccept or /tradedecline with the offer id.", Inline: false},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleTradeViewCommand handles /tradeview.
func HandleTradeViewCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	offers, err := utils.PendingTradeOffers(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}
	if len(offers) == 0 {
		utils.SendInteractionResponse(s, i,
			utils.CreateBrandedEmbed("🤝 Trade Offers", "No offers are waiting on you.", utils.BotColor), nil, true)
		return
	}

	lines := make([]string, len(offers))
	for idx, offer := range offers {
		lines[idx] = fmt.Sprintf("`%s` from <@%d>\nGives: %s\nWants: %s",
			offer.ID, offer.SenderID, formatItemList(offer.Offered), formatItemList(offer.Requested))
	}

	embed := utils.CreateBrandedEmbed("🤝 Pending Trade Offers", strings.Join(lines, "\n\n"), utils.BotColor)
	utils.SendInteractionResponse(s, i, embed, nil, true)
}

// HandleTradeAcceptCommand handles /tradeaccept.
func HandleTradeAcceptCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var offerID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			offerID = opt.StringValue()
		}
	}

	offer, err := utils.GetTradeOffer(offerID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}
	if offer.ReceiverID != userID {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("This offer is not addressed to you."), nil, true)
		return
	}
	if offer.Status != "pending" {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("This offer is no longer pending."), nil, true)
		return
	}

	sender, err := utils.GetCachedUser(offer.SenderID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching the sender's profile."), nil, true)
		return
	}
	receiver, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching your profile."), nil, true)
		return
	}

	if !hasAllItems(sender.Inventory, offer.Offered) {
		utils.SetTradeOfferStatus(offerID, "declined")
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("The sender no longer owns the offered items."), nil, true)
		return
	}
	if !hasAllItems(receiver.Inventory, offer.Requested) {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You do not own all the requested items."), nil, true)
		return
	}

	// Claim the offer first so it cannot settle twice.
	if err := utils.SetTradeOfferStatus(offerID, "accepted"); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	senderInv, receiverInv, err := transferItems(sender.Inventory, receiver.Inventory, offer.Offered)
	if err == nil {
		receiverInv, senderInv, err = transferItems(receiverInv, senderInv, offer.Requested)
	}
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Trade failed: "+err.Error()), nil, true)
		return
	}

	if _, err := utils.UpdateCachedUser(offer.SenderID, utils.UserUpdateData{Inventory: senderInv}); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Trade failed."), nil, true)
		return
	}
	if _, err := utils.UpdateCachedUser(userID, utils.UserUpdateData{Inventory: receiverInv}); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Trade failed."), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🤝 Trade Complete",
		fmt.Sprintf("Trade between <@%d> and <@%d> settled.", offer.SenderID, userID), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "You Received", Value: formatItemList(offer.Offered), Inline: true},
		{Name: "You Gave", Value: formatItemList(offer.Requested), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)

	for _, id := range []int64{offer.SenderID, userID} {
		if a, err := utils.AwardAchievement(id, "trader"); err == nil && a != nil {
			utils.SendFollowupMessage(s, i, utils.AchievementEmbed([]utils.Achievement{*a}), false)
		}
	}
}

// HandleTradeDeclineCommand handles /tradedecline.
func HandleTradeDeclineCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var offerID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			offerID = opt.StringValue()
		}
	}

	offer, err := utils.GetTradeOffer(offerID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}
	if offer.ReceiverID != userID {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("This offer is not addressed to you."), nil, true)
		return
	}

	if err := utils.SetTradeOfferStatus(offerID, "declined"); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🤝 Trade Declined",
		fmt.Sprintf("You declined the offer from <@%d>.", offer.SenderID), 0xE74C3C)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}
