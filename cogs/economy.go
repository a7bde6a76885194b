package cogs

import (
	"fmt"
	"strings"
	"time"

	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

// ClaimDaily settles a daily reward claim: 24 hour cooldown, streak tracking
// with a 48 hour grace window, doubled by a daily boost.
func ClaimDaily(userID int64, now time.Time) (*utils.User, int64, error) {
	user, err := utils.GetCachedUser(userID)
	if err != nil {
		return nil, 0, err
	}

	if user.LastDaily != nil {
		since := now.Sub(*user.LastDaily)
		if since < 24*time.Hour {
			remaining := 24*time.Hour - since
			return nil, 0, fmt.Errorf("daily already claimed, try again in %s", remaining.Round(time.Minute))
		}
	}

	streak := 1
	if user.LastDaily != nil && now.Sub(*user.LastDaily) < 48*time.Hour {
		streak = user.DailyStreak + 1
	}

	reward := int64(utils.DailyReward)
	if utils.HasItem(user, "daily_boost") {
		reward *= 2
	}

	updated, err := utils.UpdateCachedUser(userID, utils.UserUpdateData{
		ChipsIncrement: reward,
		DailyStreak:    &streak,
		LastDaily:      &now,
	})
	if err != nil {
		return nil, 0, err
	}

	if streak >= 7 {
		utils.AwardAchievement(userID, "daily_streak")
	}
	return updated, reward, nil
}

// RegisterEconomyCommands describes the economy slash commands.
func RegisterEconomyCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "daily", Description: "Claim your daily chip reward"},
		{Name: "balance", Description: "Check your chip balance"},
		{
			Name: "profile", Description: "View a casino profile",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Whose profile to view", Required: false},
			},
		},
		{
			Name: "top", Description: "Show the richest players",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "How many to show (max 25)", Required: false},
			},
		},
		{
			Name: "give", Description: "Give chips to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Recipient", Required: true},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Chips to give", Required: true},
			},
		},
		{Name: "missions", Description: "View your mission progress"},
	}
}

var missionClassTitles = map[string]string{
	"daily":    "📅 Daily",
	"weekly":   "🗓️ Weekly",
	"one_time": "🏆 One-Time",
}

// missionLines renders one reset class of a player's mission blob.
func missionLines(missions utils.JSONB, missionType string) string {
	catalog := utils.MissionCatalog[missionType]
	lines := make([]string, 0, len(catalog))
	for _, m := range catalog {
		progress, completed := utils.MissionProgress(missions, missionType, m.ID)
		status := fmt.Sprintf("%d/%d", progress, m.Target)
		if completed {
			status = "✅"
		}
		lines = append(lines, fmt.Sprintf("**%s** — %s [%s]\nReward: %s %s",
			m.Name, m.Description, status, utils.FormatChips(m.Reward), utils.ChipsEmoji))
	}
	return strings.Join(lines, "\n")
}

// HandleMissionsCommand handles /missions.
func HandleMissionsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	embed := utils.CreateBrandedEmbed("📜 Missions", "Complete missions to earn bonus chips!", 0x3498DB)
	for _, class := range []string{"daily", "weekly", "one_time"} {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   missionClassTitles[class],
			Value:  missionLines(user.Missions, class),
			Inline: false,
		})
	}
	utils.SendInteractionResponse(s, i, embed, nil, true)
}

// HandleDailyCommand handles /daily.
func HandleDailyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	user, reward, err := ClaimDaily(userID, time.Now().UTC())
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed(err.Error()), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("📅 Daily Reward",
		fmt.Sprintf("You claimed %s %s!", utils.FormatChips(reward), utils.ChipsEmoji), 0x2ECC71)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Streak", Value: fmt.Sprintf("🔥 %d day(s)", user.DailyStreak), Inline: true},
		{Name: "Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.Chips), utils.ChipsEmoji), Inline: true},
	}
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleBalanceCommand handles /balance.
func HandleBalanceCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	embed := utils.CreateBrandedEmbed("💰 Balance",
		fmt.Sprintf("You have %s %s.", utils.FormatChips(user.Chips), utils.ChipsEmoji), utils.BotColor)
	if user.LoanAmount > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Outstanding Loan", Value: fmt.Sprintf("%s %s", utils.FormatChips(user.LoanAmount), utils.ChipsEmoji), Inline: true})
	}
	utils.SendInteractionResponse(s, i, embed, nil, true)
}

// HandleProfileCommand handles /profile.
func HandleProfileCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := utils.InteractionUser(i)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}
	if target == nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not resolve that user."), nil, true)
		return
	}

	targetID, err := utils.ParseUserID(target.ID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not resolve that user."), nil, true)
		return
	}

	user, err := utils.GetCachedUser(targetID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching that profile."), nil, true)
		return
	}

	utils.SendInteractionResponse(s, i, utils.UserProfileEmbed(user, target), nil, false)
}

// HandleTopCommand handles /top.
func HandleTopCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := 10
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = int(opt.IntValue())
		}
	}
	if count < 1 {
		count = 1
	}
	if count > 25 {
		count = 25
	}

	entries, err := utils.GetLeaderboard(count)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching the leaderboard."), nil, true)
		return
	}
	if len(entries) == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("The leaderboard is empty."), nil, true)
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	lines := make([]string, len(entries))
	for idx, e := range entries {
		marker := fmt.Sprintf("%d.", idx+1)
		if idx < len(medals) {
			marker = medals[idx]
		}
		lines[idx] = fmt.Sprintf("%s <@%d> — %s %s", marker, e.UserID, utils.FormatChips(e.Chips), utils.ChipsEmoji)
	}

	embed := utils.CreateBrandedEmbed("🏆 Leaderboard", strings.Join(lines, "\n"), 0xFFD700)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}

// HandleGiveCommand handles /give.
func HandleGiveCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := utils.InteractionUserID(i)
	if userID == 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not identify you."), nil, true)
		return
	}

	var recipient *discordgo.User
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			recipient = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if recipient == nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Could not resolve the recipient."), nil, true)
		return
	}
	recipientID, err := utils.ParseUserID(recipient.ID)
	if err != nil || recipientID == userID || recipient.Bot {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You cannot give chips to that user."), nil, true)
		return
	}
	if amount <= 0 {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Amount must be positive."), nil, true)
		return
	}

	sender, err := utils.GetCachedUser(userID)
	if err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Error fetching your profile."), nil, true)
		return
	}
	if sender.Chips < amount {
		utils.SendInteractionResponse(s, i, utils.InsufficientChipsEmbed(amount, sender.Chips, "this gift"), nil, true)
		return
	}

	if _, err := utils.UpdateCachedUser(userID, utils.UserUpdateData{ChipsIncrement: -amount}); err != nil {
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Transfer failed."), nil, true)
		return
	}
	if _, err := utils.UpdateCachedUser(recipientID, utils.UserUpdateData{ChipsIncrement: amount}); err != nil {
		// Credit failed, return the chips.
		utils.UpdateCachedUser(userID, utils.UserUpdateData{ChipsIncrement: amount})
		utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Transfer failed."), nil, true)
		return
	}

	embed := utils.CreateBrandedEmbed("🎁 Gift Sent",
		fmt.Sprintf("You gave %s %s to %s.", utils.FormatChips(amount), utils.ChipsEmoji, recipient.Mention()), 0x2ECC71)
	utils.SendInteractionResponse(s, i, embed, nil, false)
}
