package utils

import (
	"sync"
)

// Achievement is a badge with a one-time chip reward.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Reward      int64
}

var Achievements = map[string]Achievement{
	"first_win":    {"first_win", "Paradox Novice", "Win your first game", "🏆", 100},
	"big_winner":   {"big_winner", "Paradox Master", "Win over 1,000 chips in one game", "💎", 250},
	"jackpot":      {"jackpot", "Paradox Breaker", "Hit the jackpot", "🎯", 500},
	"broke":        {"broke", "Rock Bottom", "Lose all your chips", "📉", 50},
	"comeback":     {"comeback", "Phoenix Rising", "Win with less than 100 chips", "🔄", 200},
	"high_roller":  {"high_roller", "Paradox Whale", "Bet the maximum amount", "💵", 150},
	"daily_streak": {"daily_streak", "Time Traveler", "Claim rewards for 7 days in a row", "⏰", 300},
	"legendary":    {"legendary", "Legendary Gambler", "Win 5 games in a row", "👑", 1000},
	"debt_free":    {"debt_free", "Debt Free", "Repay a loan in full", "🧾", 100},
	"craftsman":    {"craftsman", "Craftsman", "Craft your first item", "⚒️", 150},
	"trader":       {"trader", "Trader", "Complete a trade with another player", "🤝", 150},
}

// GameOutcome is the context a finished game hands to the achievement check.
type GameOutcome struct {
	GameType      string
	Bet           int64
	Profit        int64
	BalanceBefore int64
	JackpotHit    bool
}

// Win streaks are tracked in memory only; a restart resets them.
var (
	winStreaks   = make(map[int64]int)
	streaksMutex sync.Mutex
)

// CheckGameAchievements returns achievements newly earned by a finished game.
// user must be the post-update row.
func CheckGameAchievements(user *User, outcome GameOutcome) []Achievement {
	streaksMutex.Lock()
	if outcome.Profit > 0 {
		winStreaks[user.UserID]++
	} else if outcome.Profit < 0 {
		winStreaks[user.UserID] = 0
	}
	streak := winStreaks[user.UserID]
	streaksMutex.Unlock()

	var earned []Achievement
	award := func(id string) {
		a, ok := Achievements[id]
		if !ok || user.Achievements.Contains(a.ID) {
			return
		}
		for _, e := range earned {
			if e.ID == a.ID {
				return
			}
		}
		earned = append(earned, a)
	}

	if outcome.Profit > 0 && user.Wins >= 1 {
		award("first_win")
	}
	if outcome.Profit >= 1000 {
		award("big_winner")
	}
	if outcome.JackpotHit {
		award("jackpot")
	}
	if user.Chips <= 0 {
		award("broke")
	}
	if outcome.Profit > 0 && outcome.BalanceBefore < 100 {
		award("comeback")
	}
	if outcome.Bet >= MaxBet {
		award("high_roller")
	}
	if streak >= 5 {
		award("legendary")
	}

	return earned
}

// GrantAchievements appends the earned badges and credits their rewards.
func GrantAchievements(userID int64, current StringList, earned []Achievement) (*User, error) {
	if len(earned) == 0 {
		return nil, nil
	}

	updated := make(StringList, len(current), len(current)+len(earned))
	copy(updated, current)

	var reward int64
	for _, a := range earned {
		if !updated.Contains(a.ID) {
			updated = append(updated, a.ID)
			reward += a.Reward
		}
	}

	return UpdateCachedUser(userID, UserUpdateData{
		ChipsIncrement: reward,
		Achievements:   &updated,
	})
}

// AwardAchievement grants a single achievement by id if the user does not
// already hold it. Used by economy events (loans, crafting, trading, streaks).
func AwardAchievement(userID int64, id string) (*Achievement, error) {
	a, ok := Achievements[id]
	if !ok {
		return nil, nil
	}

	user, err := GetCachedUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Achievements.Contains(id) {
		return nil, nil
	}

	if _, err := GrantAchievements(userID, user.Achievements, []Achievement{a}); err != nil {
		return nil, err
	}
	return &a, nil
}

// ResetWinStreak clears the in-memory streak, for tests.
func ResetWinStreak(userID int64) {
	streaksMutex.Lock()
	delete(winStreaks, userID)
	streaksMutex.Unlock()
}
