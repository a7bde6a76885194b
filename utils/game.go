package utils

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Game is the interface every casino game satisfies. Timeout is invoked by
// the registry sweep when a player abandons an interactive game.
type Game interface {
	GetUserID() int64
	GetBet() int64
	GetGameType() string
	GetCreatedAt() time.Time
	ValidateBet() error
	EndGame(profit int64) (*User, error)
	IsGameOver() bool
	Timeout()
}

var gameLog = GetLogger("game")

// BaseGame carries the state and settlement logic shared by all games.
type BaseGame struct {
	UserID     int64
	Bet        int64
	GameType   string
	UserData   *User
	JackpotHit bool

	// Set by EndGame for the handler to render.
	EarnedAchievements []Achievement
	CompletedMissions  []Mission
	DroppedItem        string

	IsGameOverFlag bool
	Interaction    *discordgo.InteractionCreate
	Session        *discordgo.Session
	CreatedAt      time.Time
	mu             sync.RWMutex
}

// NewBaseGame creates a base game bound to the invoking interaction.
func NewBaseGame(session *discordgo.Session, interaction *discordgo.InteractionCreate, bet int64, gameType string) *BaseGame {
	return &BaseGame{
		UserID:      InteractionUserID(interaction),
		Bet:         bet,
		GameType:    gameType,
		Interaction: interaction,
		Session:     session,
		CreatedAt:   time.Now(),
	}
}

func (bg *BaseGame) GetUserID() int64        { return bg.UserID }
func (bg *BaseGame) GetBet() int64           { return bg.Bet }
func (bg *BaseGame) GetGameType() string     { return bg.GameType }
func (bg *BaseGame) GetCreatedAt() time.Time { return bg.CreatedAt }

func (bg *BaseGame) IsGameOver() bool {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return bg.IsGameOverFlag
}

// ValidateBet loads the player and checks the balance covers the bet.
func (bg *BaseGame) ValidateBet() error {
	user, err := GetCachedUser(bg.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user data: %w", err)
	}
	bg.UserData = user

	if user.Chips < bg.Bet {
		return fmt.Errorf("insufficient chips: need %d, have %d", bg.Bet, user.Chips)
	}
	return nil
}

// EndGame settles the game: chips and XP, win/loss counters, mission
// progress, achievements, and the item drop roll. Idempotent.
func (bg *BaseGame) EndGame(profit int64) (*User, error) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if bg.IsGameOverFlag {
		return bg.UserData, nil
	}
	bg.IsGameOverFlag = true

	var balanceBefore int64
	if bg.UserData != nil {
		balanceBefore = bg.UserData.Chips
	}

	var xpGain int64
	if profit > 0 {
		xpGain = profit * XPPerProfit
		if bg.UserData != nil && HasItem(bg.UserData, "xp_boost") {
			xpGain *= 2
		}
	}

	updates := UserUpdateData{
		ChipsIncrement:   profit,
		TotalXPIncrement: xpGain,
	}
	if profit > 0 {
		updates.WinsIncrement = 1
	} else if profit < 0 {
		updates.LossesIncrement = 1
	}

	// Mission progress for this game.
	events := map[string]int{bg.GameType + "_plays": 1}
	if profit > 0 {
		events["wins"] = 1
		events[bg.GameType+"_wins"] = 1
	}
	if bg.JackpotHit {
		events["jackpot_wins"] = 1
	}
	if xpGain > 0 && bg.UserData != nil {
		events["rank"] = GetRankLevel(bg.UserData.TotalXP + xpGain)
	}

	var missions JSONB
	if bg.UserData != nil {
		missions = bg.UserData.Missions
	}
	newMissions, missionReward, completed := ApplyMissionEvents(missions, events)
	updates.Missions = newMissions
	updates.ChipsIncrement += missionReward
	bg.CompletedMissions = completed

	// Ingredient drop on a win.
	if profit > 0 {
		if item, ok := RollDrop(bg.GameType); ok {
			bg.DroppedItem = item
			var inv JSONB
			if bg.UserData != nil {
				inv = bg.UserData.Inventory
			}
			updates.Inventory = AddToInventory(inv, item, 1)
		}
	}

	updatedUser, err := UpdateCachedUser(bg.UserID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	bg.UserData = updatedUser

	earned := CheckGameAchievements(updatedUser, GameOutcome{
		GameType:      bg.GameType,
		Bet:           bg.Bet,
		Profit:        profit,
		BalanceBefore: balanceBefore,
		JackpotHit:    bg.JackpotHit,
	})
	if len(earned) > 0 {
		if granted, err := GrantAchievements(bg.UserID, updatedUser.Achievements, earned); err != nil {
			gameLog.Error().Err(err).Int64("user", bg.UserID).Msg("failed to grant achievements")
		} else if granted != nil {
			bg.UserData = granted
			bg.EarnedAchievements = earned
		}
	}

	return bg.UserData, nil
}

// RespondWithError sends an ephemeral error response.
func (bg *BaseGame) RespondWithError(message string) error {
	return bg.Session.InteractionRespond(bg.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{ErrorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// SendFollowup sends a followup message on the game's interaction.
func (bg *BaseGame) SendFollowup(embed *discordgo.MessageEmbed, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_, err := bg.Session.FollowupMessageCreate(bg.Interaction.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  flags,
	})
	return err
}

// UpdateOriginalResponse edits the original interaction response.
func (bg *BaseGame) UpdateOriginalResponse(embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := bg.Session.InteractionResponseEdit(bg.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	return err
}

// AnnounceRewards follows up with achievement, mission and drop notices.
func (bg *BaseGame) AnnounceRewards() {
	if len(bg.EarnedAchievements) > 0 {
		if err := bg.SendFollowup(AchievementEmbed(bg.EarnedAchievements), false); err != nil {
			gameLog.Error().Err(err).Msg("failed to announce achievements")
		}
	}
	for _, m := range bg.CompletedMissions {
		embed := CreateBrandedEmbed("📜 Mission Complete!",
			fmt.Sprintf("**%s** — %s\nReward: **%s** %s", m.Name, m.Description, FormatChips(m.Reward), ChipsEmoji),
			0x2ECC71)
		if err := bg.SendFollowup(embed, false); err != nil {
			gameLog.Error().Err(err).Msg("failed to announce mission")
		}
	}
	if bg.DroppedItem != "" {
		embed := CreateBrandedEmbed("🎁 Item Drop!",
			fmt.Sprintf("You found a **%s**!", bg.DroppedItem), 0x9B59B6)
		if err := bg.SendFollowup(embed, true); err != nil {
			gameLog.Error().Err(err).Msg("failed to announce drop")
		}
	}
}

// InteractionUserID extracts the numeric user id from an interaction, whether
// it came from a guild or a DM.
func InteractionUserID(i *discordgo.InteractionCreate) int64 {
	var idStr string
	if i.Member != nil && i.Member.User != nil {
		idStr = i.Member.User.ID
	} else if i.User != nil {
		idStr = i.User.ID
	}
	id, _ := strconv.ParseInt(idStr, 10, 64)
	return id
}

// InteractionUser returns the discord user behind an interaction.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// GameManager tracks active interactive games keyed by user id and sweeps
// out abandoned ones.
type GameManager struct {
	games         map[int64]Game
	mutex         sync.RWMutex
	cleanupTicker *time.Ticker
	done          chan struct{}
}

// Games is the global registry of in-flight interactive games.
var Games = &GameManager{games: make(map[int64]Game)}

func (gm *GameManager) AddGame(userID int64, game Game) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()
	gm.games[userID] = game
}

func (gm *GameManager) GetGame(userID int64) (Game, bool) {
	gm.mutex.RLock()
	defer gm.mutex.RUnlock()
	game, exists := gm.games[userID]
	return game, exists
}

func (gm *GameManager) RemoveGame(userID int64) {
	gm.mutex.Lock()
	defer gm.mutex.Unlock()
	delete(gm.games, userID)
}

// StartCleanup begins the periodic sweep of expired games.
func (gm *GameManager) StartCleanup() {
	gm.cleanupTicker = time.NewTicker(GameSweepPeriod)
	gm.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-gm.cleanupTicker.C:
				gm.sweepExpired(time.Now())
			case <-gm.done:
				return
			}
		}
	}()
}

// StopCleanup stops the sweep goroutine.
func (gm *GameManager) StopCleanup() {
	if gm.cleanupTicker != nil {
		gm.cleanupTicker.Stop()
		close(gm.done)
	}
}

// sweepExpired removes games older than GameExpiry and times each one out.
// Removal happens before Timeout so a late button press finds no game rather
// than racing the forfeit.
func (gm *GameManager) sweepExpired(now time.Time) {
	var expired []Game

	gm.mutex.Lock()
	for userID, game := range gm.games {
		if now.Sub(game.GetCreatedAt()) > GameExpiry {
			delete(gm.games, userID)
			expired = append(expired, game)
		}
	}
	gm.mutex.Unlock()

	for _, game := range expired {
		gameLog.Info().
			Int64("user", game.GetUserID()).
			Str("game", game.GetGameType()).
			Msg("expiring abandoned game")
		game.Timeout()
	}
}
