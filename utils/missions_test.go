package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeMissionsCoversCatalog(t *testing.T) {
	missions := InitializeMissions()

	for missionType, catalog := range MissionCatalog {
		for _, m := range catalog {
			progress, completed := MissionProgress(missions, missionType, m.ID)
			assert.Zero(t, progress, "%s/%s", missionType, m.ID)
			assert.False(t, completed)
		}
	}
}

func TestApplyMissionEventsDoesNotMutateInput(t *testing.T) {
	original := InitializeMissions()

	updated, _, _ := ApplyMissionEvents(original, map[string]int{"slots_plays": 2})

	progress, _ := MissionProgress(original, "daily", "play_slots")
	assert.Zero(t, progress, "caller's blob must stay untouched")
	progress, _ = MissionProgress(updated, "daily", "play_slots")
	assert.Equal(t, 2, progress)
}

func TestApplyMissionEventsAccumulates(t *testing.T) {
	missions := InitializeMissions()

	missions, reward, completed := ApplyMissionEvents(missions, map[string]int{"slots_plays": 3})
	assert.Zero(t, reward)
	assert.Empty(t, completed)

	progress, done := MissionProgress(missions, "daily", "play_slots")
	assert.Equal(t, 3, progress)
	assert.False(t, done)

	missions, reward, completed = ApplyMissionEvents(missions, map[string]int{"slots_plays": 2})
	assert.Equal(t, int64(100), reward)
	require.Len(t, completed, 1)
	assert.Equal(t, "play_slots", completed[0].ID)

	_, done = MissionProgress(missions, "daily", "play_slots")
	assert.True(t, done)
}

func TestApplyMissionEventsDoesNotPayTwice(t *testing.T) {
	missions := InitializeMissions()

	missions, reward, _ := ApplyMissionEvents(missions, map[string]int{"slots_plays": 5})
	assert.Equal(t, int64(100), reward)

	_, reward, completed := ApplyMissionEvents(missions, map[string]int{"slots_plays": 5})
	assert.Zero(t, reward)
	assert.Empty(t, completed)
}

func TestApplyMissionEventsRankIsHighWater(t *testing.T) {
	missions := InitializeMissions()

	missions, _, _ = ApplyMissionEvents(missions, map[string]int{"rank": 3})
	progress, _ := MissionProgress(missions, "one_time", "level_5")
	assert.Equal(t, 3, progress)

	// A lower rank report never regresses progress.
	missions, _, _ = ApplyMissionEvents(missions, map[string]int{"rank": 2})
	progress, _ = MissionProgress(missions, "one_time", "level_5")
	assert.Equal(t, 3, progress)

	missions, reward, completed := ApplyMissionEvents(missions, map[string]int{"rank": 5})
	assert.Equal(t, int64(1000), reward)
	require.Len(t, completed, 1)
	assert.Equal(t, "level_5", completed[0].ID)
}

func TestApplyMissionEventsHandlesEmptyBlob(t *testing.T) {
	missions, reward, completed := ApplyMissionEvents(nil, map[string]int{"jackpot_wins": 1})
	assert.Equal(t, int64(2000), reward)
	require.Len(t, completed, 1)
	assert.Equal(t, "jackpot", completed[0].ID)

	_, done := MissionProgress(missions, "one_time", "jackpot")
	assert.True(t, done)
}

func TestApplyMissionEventsMultipleAtOnce(t *testing.T) {
	missions := InitializeMissions()

	_, reward, completed := ApplyMissionEvents(missions, map[string]int{
		"slots_plays": 5,
		"wins":        3,
	})
	assert.Equal(t, int64(250), reward)
	assert.Len(t, completed, 2)
}

func TestResetMissionsClearsOnlyOneClass(t *testing.T) {
	missions := InitializeMissions()
	missions, _, _ = ApplyMissionEvents(missions, map[string]int{
		"slots_plays": 5,
		"slots_wins":  4,
	})

	missions = ResetMissions(missions, "daily")

	progress, done := MissionProgress(missions, "daily", "play_slots")
	assert.Zero(t, progress)
	assert.False(t, done)

	progress, _ = MissionProgress(missions, "weekly", "slot_master")
	assert.Equal(t, 4, progress)
}

func TestResetMissionsUnknownClassIsNoop(t *testing.T) {
	missions := InitializeMissions()
	assert.Equal(t, missions, ResetMissions(missions, "monthly"))
}
