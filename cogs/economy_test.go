package cogs

import (
	"testing"
	"time"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOffline(t *testing.T) {
	t.Helper()
	utils.InitializeCache(time.Minute)
	t.Cleanup(func() {
		utils.CloseCache()
		utils.Cache = nil
	})
}

func TestClaimDailyFirstClaim(t *testing.T) {
	setupOffline(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	user, reward, err := ClaimDaily(3001, now)
	require.NoError(t, err)
	assert.Equal(t, int64(utils.DailyReward), reward)
	assert.Equal(t, 1, user.DailyStreak)
	assert.Equal(t, int64(utils.StartingChips+utils.DailyReward), user.Chips)
	require.NotNil(t, user.LastDaily)
	assert.Equal(t, now, *user.LastDaily)
}

func TestClaimDailyCooldown(t *testing.T) {
	setupOffline(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, _, err := ClaimDaily(3002, now)
	require.NoError(t, err)

	_, _, err = ClaimDaily(3002, now.Add(6*time.Hour))
	assert.Error(t, err)
}

func TestClaimDailyStreakContinuesWithinGrace(t *testing.T) {
	setupOffline(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, _, err := ClaimDaily(3003, now)
	require.NoError(t, err)

	user, _, err := ClaimDaily(3003, now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, user.DailyStreak)

	// Missing the 48 hour window resets the streak.
	user, _, err = ClaimDaily(3003, now.Add(25*time.Hour).Add(72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, user.DailyStreak)
}

func TestClaimDailyBoostDoublesReward(t *testing.T) {
	setupOffline(t)
	userID := int64(3004)

	_, _, err := utils.BuyItem(userID, "daily_boost")
	require.NoError(t, err)

	_, reward, err := ClaimDaily(userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2*utils.DailyReward), reward)
}

func TestMissionLinesShowProgressAndCompletion(t *testing.T) {
	missions := utils.InitializeMissions()
	missions, _, _ = utils.ApplyMissionEvents(missions, map[string]int{"slots_plays": 2})

	daily := missionLines(missions, "daily")
	assert.Contains(t, daily, "Slot Enthusiast")
	assert.Contains(t, daily, "2/5")

	missions, _, _ = utils.ApplyMissionEvents(missions, map[string]int{"slots_plays": 3})
	assert.Contains(t, missionLines(missions, "daily"), "✅")
}

func TestMissionLinesHandleEmptyBlob(t *testing.T) {
	lines := missionLines(nil, "one_time")
	assert.Contains(t, lines, "Level Up")
	assert.Contains(t, lines, "0/5")
}
