package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomeUser(userID int64) *User {
	user := newDefaultUser(userID)
	user.Wins = 1
	return user
}

func TestFirstWinAchievement(t *testing.T) {
	user := outcomeUser(2001)
	defer ResetWinStreak(user.UserID)

	earned := CheckGameAchievements(user, GameOutcome{
		GameType: "slots", Bet: 100, Profit: 200, BalanceBefore: 7000,
	})

	require.Len(t, earned, 1)
	assert.Equal(t, "first_win", earned[0].ID)
}

func TestAlreadyHeldAchievementsAreSkipped(t *testing.T) {
	user := outcomeUser(2002)
	user.Achievements = StringList{"first_win"}
	defer ResetWinStreak(user.UserID)

	earned := CheckGameAchievements(user, GameOutcome{
		GameType: "slots", Bet: 100, Profit: 200, BalanceBefore: 7000,
	})
	assert.Empty(t, earned)
}

func TestBigWinnerAndJackpot(t *testing.T) {
	user := outcomeUser(2003)
	user.Achievements = StringList{"first_win"}
	defer ResetWinStreak(user.UserID)

	earned := CheckGameAchievements(user, GameOutcome{
		GameType: "slots", Bet: 1000, Profit: 1500, BalanceBefore: 7000, JackpotHit: true,
	})

	ids := make([]string, len(earned))
	for i, a := range earned {
		ids[i] = a.ID
	}
	assert.Contains(t, ids, "big_winner")
	assert.Contains(t, ids, "jackpot")
	assert.Contains(t, ids, "high_roller")
}

func TestBrokeAndComeback(t *testing.T) {
	broke := newDefaultUser(2004)
	broke.Chips = 0
	defer ResetWinStreak(broke.UserID)

	earned := CheckGameAchievements(broke, GameOutcome{
		GameType: "roulette", Bet: 50, Profit: -50, BalanceBefore: 50,
	})
	require.Len(t, earned, 1)
	assert.Equal(t, "broke", earned[0].ID)

	comeback := outcomeUser(2005)
	comeback.Achievements = StringList{"first_win"}
	defer ResetWinStreak(comeback.UserID)

	earned = CheckGameAchievements(comeback, GameOutcome{
		GameType: "roulette", Bet: 50, Profit: 50, BalanceBefore: 80,
	})
	require.Len(t, earned, 1)
	assert.Equal(t, "comeback", earned[0].ID)
}

func TestLegendaryStreak(t *testing.T) {
	user := outcomeUser(2006)
	user.Achievements = StringList{"first_win"}
	defer ResetWinStreak(user.UserID)

	for i := 0; i < 4; i++ {
		earned := CheckGameAchievements(user, GameOutcome{
			GameType: "slots", Bet: 100, Profit: 100, BalanceBefore: 7000,
		})
		assert.Empty(t, earned)
	}

	earned := CheckGameAchievements(user, GameOutcome{
		GameType: "slots", Bet: 100, Profit: 100, BalanceBefore: 7000,
	})
	require.Len(t, earned, 1)
	assert.Equal(t, "legendary", earned[0].ID)
}

func TestLossResetsStreak(t *testing.T) {
	user := outcomeUser(2007)
	user.Achievements = StringList{"first_win"}
	defer ResetWinStreak(user.UserID)

	for i := 0; i < 4; i++ {
		CheckGameAchievements(user, GameOutcome{GameType: "slots", Bet: 100, Profit: 100, BalanceBefore: 7000})
	}
	CheckGameAchievements(user, GameOutcome{GameType: "slots", Bet: 100, Profit: -100, BalanceBefore: 7000})

	earned := CheckGameAchievements(user, GameOutcome{
		GameType: "slots", Bet: 100, Profit: 100, BalanceBefore: 7000,
	})
	assert.Empty(t, earned)
}

func TestGrantAchievementsCreditsRewards(t *testing.T) {
	InitializeCache(time.Minute)
	defer func() {
		CloseCache()
		Cache = nil
	}()
	userID := int64(2008)

	first := Achievements["first_win"]
	jackpot := Achievements["jackpot"]

	user, err := GrantAchievements(userID, nil, []Achievement{first, jackpot})
	require.NoError(t, err)
	assert.Equal(t, int64(StartingChips)+first.Reward+jackpot.Reward, user.Chips)
	assert.True(t, user.Achievements.Contains("first_win"))
	assert.True(t, user.Achievements.Contains("jackpot"))
}

func TestGrantAchievementsEmptyIsNoop(t *testing.T) {
	user, err := GrantAchievements(2009, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAwardAchievementIdempotent(t *testing.T) {
	InitializeCache(time.Minute)
	defer func() {
		CloseCache()
		Cache = nil
	}()
	userID := int64(2010)

	a, err := AwardAchievement(userID, "debt_free")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "debt_free", a.ID)

	a, err = AwardAchievement(userID, "debt_free")
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = AwardAchievement(userID, "not_a_real_badge")
	require.NoError(t, err)
	assert.Nil(t, a)
}
