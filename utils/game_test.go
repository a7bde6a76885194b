package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndGameAdvancesRankMission(t *testing.T) {
	setupOffline(t)
	userID := int64(4001)

	// Park the player just under the Pit Boss threshold.
	_, err := UpdateCachedUser(userID, UserUpdateData{TotalXPIncrement: 99900})
	require.NoError(t, err)

	bg := &BaseGame{UserID: userID, Bet: 50, GameType: "slots", CreatedAt: time.Now()}
	require.NoError(t, bg.ValidateBet())

	user, err := bg.EndGame(100)
	require.NoError(t, err)

	progress, completed := MissionProgress(user.Missions, "one_time", "level_5")
	assert.Equal(t, 5, progress)
	assert.True(t, completed)

	ids := make([]string, 0, len(bg.CompletedMissions))
	for _, m := range bg.CompletedMissions {
		ids = append(ids, m.ID)
	}
	assert.Contains(t, ids, "level_5")
}

func TestEndGameRankMissionTracksHighWater(t *testing.T) {
	setupOffline(t)
	userID := int64(4002)

	bg := &BaseGame{UserID: userID, Bet: 50, GameType: "slots", CreatedAt: time.Now()}
	require.NoError(t, bg.ValidateBet())

	// 500 XP is still rank 0, the mission must not complete.
	user, err := bg.EndGame(250)
	require.NoError(t, err)

	progress, completed := MissionProgress(user.Missions, "one_time", "level_5")
	assert.Zero(t, progress)
	assert.False(t, completed)
}

type stubTimedGame struct {
	userID    int64
	createdAt time.Time
	timedOut  bool
}

func (g *stubTimedGame) GetUserID() int64             { return g.userID }
func (g *stubTimedGame) GetBet() int64                { return 10 }
func (g *stubTimedGame) GetGameType() string          { return "stub" }
func (g *stubTimedGame) GetCreatedAt() time.Time      { return g.createdAt }
func (g *stubTimedGame) ValidateBet() error           { return nil }
func (g *stubTimedGame) EndGame(int64) (*User, error) { return nil, nil }
func (g *stubTimedGame) IsGameOver() bool             { return g.timedOut }
func (g *stubTimedGame) Timeout()                     { g.timedOut = true }

func TestSweepExpiredForfeitsAbandonedGames(t *testing.T) {
	gm := &GameManager{games: make(map[int64]Game)}
	now := time.Now()

	stale := &stubTimedGame{userID: 1, createdAt: now.Add(-GameExpiry - time.Minute)}
	fresh := &stubTimedGame{userID: 2, createdAt: now}
	gm.AddGame(stale.userID, stale)
	gm.AddGame(fresh.userID, fresh)

	gm.sweepExpired(now)

	_, exists := gm.GetGame(stale.userID)
	assert.False(t, exists)
	assert.True(t, stale.timedOut)

	_, exists = gm.GetGame(fresh.userID)
	assert.True(t, exists)
	assert.False(t, fresh.timedOut)
}
