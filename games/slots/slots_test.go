package slots

import (
	"math/rand"
	"testing"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinDimensions(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for _, lines := range []int{1, 2, 3} {
		grid := Spin(r, lines)
		require.Len(t, grid, lines)
		for _, row := range grid {
			require.Len(t, row, utils.SlotReelsPerLine)
			for _, sym := range row {
				assert.Contains(t, utils.SlotSymbols, sym)
			}
		}
	}
}

func TestSpinClampsLines(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	assert.Len(t, Spin(r, 0), 1)
	assert.Len(t, Spin(r, -5), 1)
	assert.Len(t, Spin(r, 10), utils.SlotMaxLines)
}

func TestSpinDeterministicUnderSeed(t *testing.T) {
	a := Spin(rand.New(rand.NewSource(42)), 3)
	b := Spin(rand.New(rand.NewSource(42)), 3)
	assert.Equal(t, a, b)
}

func TestEvaluateJackpotRow(t *testing.T) {
	grid := [][]string{{"7️⃣", "7️⃣", "7️⃣"}}
	result := Evaluate(grid)

	assert.Equal(t, int64(500), result.Winnings)
	assert.True(t, result.JackpotHit)
	require.Len(t, result.WinningLines, 1)
	assert.Equal(t, int64(500), result.WinningLines[0].Payout)
}

func TestEvaluatePlainRow(t *testing.T) {
	grid := [][]string{{"🍒", "🍒", "🍒"}}
	result := Evaluate(grid)

	assert.Equal(t, int64(100), result.Winnings)
	assert.False(t, result.JackpotHit)
}

func TestEvaluateMixedRowsPaysOnlyMatches(t *testing.T) {
	grid := [][]string{
		{"🍒", "🍋", "🍇"},
		{"💎", "💎", "💎"},
		{"7️⃣", "7️⃣", "🍒"},
	}
	result := Evaluate(grid)

	assert.Equal(t, int64(100), result.Winnings)
	assert.False(t, result.JackpotHit)
	require.Len(t, result.WinningLines, 1)
	assert.Equal(t, 1, result.WinningLines[0].Line)
}

func TestEvaluateMultipleWinningRowsAccumulate(t *testing.T) {
	grid := [][]string{
		{"🍋", "🍋", "🍋"},
		{"7️⃣", "7️⃣", "7️⃣"},
	}
	result := Evaluate(grid)

	assert.Equal(t, int64(600), result.Winnings)
	assert.True(t, result.JackpotHit)
	assert.Len(t, result.WinningLines, 2)
}

func TestEvaluateEmptyGrid(t *testing.T) {
	result := Evaluate(nil)
	assert.Zero(t, result.Winnings)
	assert.False(t, result.JackpotHit)
	assert.Empty(t, result.WinningLines)
}
