package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CreateBrandedEmbed creates a basic embed with the casino branding.
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Paradox Casino",
		},
	}
}

// ErrorEmbed creates a red error embed.
func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("❌ Error", message, 0xE74C3C)
}

// InsufficientChipsEmbed tells the player their balance cannot cover a bet.
func InsufficientChipsEmbed(requiredChips, currentBalance int64, betDescription string) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed(
		"Not Enough Chips",
		fmt.Sprintf("You don't have enough chips for %s.\n**Your balance:** %s %s\n**Required:** %s %s",
			betDescription,
			FormatChips(currentBalance), ChipsEmoji,
			FormatChips(requiredChips), ChipsEmoji),
		0xE74C3C,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "How to Get More Chips",
			Value:  "• Use `/daily` to claim your daily reward\n• Take a `/loan` if you hold a loan pass\n• Play lower stakes games to rebuild",
			Inline: false,
		},
	}
	return embed
}

// GameTimeoutEmbed is shown when a player abandons an interactive game.
func GameTimeoutEmbed(betAmount int64) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("⏰ Game Timeout", fmt.Sprintf(GameTimeoutMessage, betAmount), 0xF39C12)
}

// CreateTimeoutEmbed is the generic interaction timeout embed.
func CreateTimeoutEmbed() *discordgo.MessageEmbed {
	return CreateBrandedEmbed("⏰ Timeout", TimeoutMessage, 0xF39C12)
}

// GameResultEmbed summarizes a finished single-shot game.
func GameResultEmbed(gameType string, bet, profit int64, userAfter *User) *discordgo.MessageEmbed {
	var title, description string
	var color int

	switch {
	case profit > 0:
		title = "🎉 You Won!"
		description = fmt.Sprintf("You won **%s** %s", FormatChips(profit), ChipsEmoji)
		color = 0x2ECC71
	case profit < 0:
		title = "😔 You Lost"
		description = fmt.Sprintf("You lost **%s** %s", FormatChips(-profit), ChipsEmoji)
		color = 0xE74C3C
	default:
		title = "🤝 Push"
		description = "Your bet has been returned."
		color = 0xF39C12
	}

	embed := CreateBrandedEmbed(title, description, color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Game", Value: titleCase(gameType), Inline: true},
		{Name: "Bet", Value: fmt.Sprintf("%s %s", FormatChips(bet), ChipsEmoji), Inline: true},
		{Name: "Balance", Value: fmt.Sprintf("%s %s", FormatChips(userAfter.Chips), ChipsEmoji), Inline: true},
	}
	return embed
}

// AchievementEmbed announces newly earned achievements.
func AchievementEmbed(earned []Achievement) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(earned))
	for _, a := range earned {
		lines = append(lines, fmt.Sprintf("%s **%s** — %s (+%s %s)",
			a.Icon, a.Name, a.Description, FormatChips(a.Reward), ChipsEmoji))
	}
	return CreateBrandedEmbed("🏆 Achievement Unlocked!", strings.Join(lines, "\n"), 0xFFD700)
}

// UserProfileEmbed renders a player profile.
func UserProfileEmbed(user *User, discordUser *discordgo.User) *discordgo.MessageEmbed {
	rank := getUserRank(user.TotalXP)
	nextRank := getNextRank(user.TotalXP)

	embed := CreateBrandedEmbed("👤 Player Profile", "", rank.Color)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: discordUser.AvatarURL("")}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Player", Value: discordUser.Mention(), Inline: true},
		{Name: "Balance", Value: fmt.Sprintf("%s %s", FormatChips(user.Chips), ChipsEmoji), Inline: true},
		{Name: "Rank", Value: fmt.Sprintf("%s %s", rank.Icon, rank.Name), Inline: true},
	}

	totalGames := user.Wins + user.Losses
	winRate := 0.0
	if totalGames > 0 {
		winRate = float64(user.Wins) / float64(totalGames) * 100
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Games Won", Value: strconv.Itoa(user.Wins), Inline: true},
		&discordgo.MessageEmbedField{Name: "Games Lost", Value: strconv.Itoa(user.Losses), Inline: true},
		&discordgo.MessageEmbedField{Name: "Win Rate", Value: fmt.Sprintf("%.1f%%", winRate), Inline: true},
		&discordgo.MessageEmbedField{Name: "Total XP", Value: FormatNumber(user.TotalXP), Inline: true},
		&discordgo.MessageEmbedField{Name: "Daily Streak", Value: strconv.Itoa(user.DailyStreak), Inline: true},
		&discordgo.MessageEmbedField{Name: "Achievements", Value: strconv.Itoa(len(user.Achievements)), Inline: true},
	)

	if user.LoanAmount > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Outstanding Loan",
			Value:  fmt.Sprintf("%s %s", FormatChips(user.LoanAmount), ChipsEmoji),
			Inline: true,
		})
	}

	if nextRank != nil {
		progressBar := createProgressBar(user.TotalXP, int64(rank.XPRequired), int64(nextRank.XPRequired), 10)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Progress to %s %s", nextRank.Icon, nextRank.Name),
			Value: fmt.Sprintf("%s\n**%s** / **%s** XP", progressBar,
				FormatNumber(user.TotalXP), FormatNumber(int64(nextRank.XPRequired))),
			Inline: false,
		})
	}

	return embed
}

// FormatChips formats a chip amount with thousands separators.
func FormatChips(amount int64) string {
	return FormatNumber(amount)
}

// FormatNumber adds thousands separators.
func FormatNumber(num int64) string {
	negative := num < 0
	if negative {
		num = -num
	}

	str := strconv.FormatInt(num, 10)
	if len(str) > 3 {
		var b strings.Builder
		for i, r := range str {
			if i > 0 && (len(str)-i)%3 == 0 {
				b.WriteString(",")
			}
			b.WriteRune(r)
		}
		str = b.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func getUserRank(totalXP int64) Rank {
	for level := len(Ranks) - 1; level >= 0; level-- {
		if rank, exists := Ranks[level]; exists && totalXP >= int64(rank.XPRequired) {
			return rank
		}
	}
	return Ranks[0]
}

func getNextRank(totalXP int64) *Rank {
	currentLevel := -1
	for level := len(Ranks) - 1; level >= 0; level-- {
		if rank, exists := Ranks[level]; exists && totalXP >= int64(rank.XPRequired) {
			currentLevel = level
			break
		}
	}

	if nextRank, exists := Ranks[currentLevel+1]; exists {
		return &nextRank
	}
	return nil
}

func createProgressBar(current, min, max int64, length int) string {
	if max <= min {
		return strings.Repeat("█", length)
	}

	progress := float64(current-min) / float64(max-min)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}
