package utils

import "time"

// General configuration
const (
	BotColor   = 0x5865F2
	ChipsEmoji = "🪙"
)

// Bet limits. Defaults, overridable through configuration.
var (
	MinBet int64 = 10
	MaxBet int64 = 1000
)

// Economy
const (
	StartingChips = 7000
	DailyReward   = 500
	XPPerProfit   = 2

	LotteryTicketPrice  = 50
	LotterySeedPot      = 1000
	LotteryPotCut       = 0.10 // share of each ticket that feeds the pot
	LotteryOddsPerEntry = 100  // 1-in-N win chance per ticket each draw

	MaxLoan          = 5000
	LoanInterestRate = 0.10
)

// Rank carries the XP threshold and display styling for a player rank.
type Rank struct {
	Name       string
	Icon       string
	XPRequired int
	Color      int
}

var Ranks = map[int]Rank{
	0: {"Novice", "🥉", 0, 0xcd7f32},
	1: {"Apprentice", "🥈", 1000, 0xc0c0c0},
	2: {"Gambler", "🥇", 5000, 0xffd700},
	3: {"High Roller", "💰", 15000, 0x22a7f0},
	4: {"Card Shark", "🦈", 40000, 0x1f3a93},
	5: {"Pit Boss", "👑", 100000, 0x9b59b6},
	6: {"Legend", "🌟", 250000, 0xf1c40f},
	7: {"Casino Elite", "💎", 600000, 0x1abc9c},
}

// Card system
var (
	CardSuits = []string{"♠", "♥", "♦", "♣"}

	// Blackjack values. Aces start at 11 and are reduced by Hand scoring.
	CardRanks = map[string]int{
		"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
		"J": 10, "Q": 10, "K": 10, "A": 11,
	}

	// Poker values. Aces are high; the wheel straight is special-cased by the
	// evaluator.
	PokerRanks = map[string]int{
		"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
		"J": 11, "Q": 12, "K": 13, "A": 14,
	}
)

// Slots
var (
	SlotSymbols = []string{"🍒", "🍋", "🍇", "🔔", "💎", "7️⃣"}
)

const (
	SlotJackpotSymbol     = "7️⃣"
	SlotLinePayout        = 100
	SlotJackpotMultiplier = 5
	SlotMaxLines          = 3
	SlotReelsPerLine      = 3
)

// Blackjack
const (
	DealerStandValue = 17
)

// Baccarat payout multipliers, applied to the stake when the chosen side wins.
const (
	BaccaratPlayerPayout = 1.0
	BaccaratBankerPayout = 0.95
	BaccaratTiePayout    = 8.0
)

// Interactive game lifetime. Abandoned games are forfeited by the registry
// sweep.
const (
	GameExpiry      = 3 * time.Minute
	GameSweepPeriod = 90 * time.Second
)

// UI messages
const (
	TimeoutMessage     = "You did not respond in time. The interaction has timed out."
	GameTimeoutMessage = "You did not respond in time. Your game has timed out and you have forfeited your bet of %d 🪙."
)
