package utils

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LotteryManager owns the persistent lottery pot and the tickets sold for the
// current draw. State is mirrored to the lottery table when a database is
// connected.
type LotteryManager struct {
	mu      sync.Mutex
	jackpot int64
	tickets map[string]int
	rng     *rand.Rand
	log     zerolog.Logger
}

// Lottery is the global lottery manager.
var Lottery *LotteryManager

// InitializeLottery loads persisted lottery state or seeds a fresh pot.
func InitializeLottery() error {
	Lottery = &LotteryManager{
		jackpot: LotterySeedPot,
		tickets: make(map[string]int),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     GetLogger("lottery"),
	}

	if DB == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var jackpot int64
	var tickets JSONB
	err := DB.QueryRow(ctx, `SELECT jackpot, tickets FROM lottery WHERE id = 1`).Scan(&jackpot, &tickets)
	if err != nil {
		if err == pgx.ErrNoRows {
			_, err = DB.Exec(ctx,
				`INSERT INTO lottery (id, jackpot, tickets) VALUES (1, $1, '{}') ON CONFLICT (id) DO NOTHING`,
				int64(LotterySeedPot))
			if err != nil {
				return fmt.Errorf("failed to seed lottery: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to load lottery: %w", err)
	}

	Lottery.jackpot = jackpot
	for userID, count := range tickets {
		if n, ok := count.(float64); ok {
			Lottery.tickets[userID] = int(n)
		}
	}
	Lottery.log.Info().Int64("jackpot", jackpot).Int("holders", len(Lottery.tickets)).Msg("lottery loaded")
	return nil
}

func (lm *LotteryManager) persist() {
	if DB == nil {
		return
	}

	tickets := make(JSONB, len(lm.tickets))
	for userID, count := range lm.tickets {
		tickets[userID] = float64(count)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := DB.Exec(ctx,
		`INSERT INTO lottery (id, jackpot, tickets) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET jackpot = EXCLUDED.jackpot, tickets = EXCLUDED.tickets`,
		lm.jackpot, tickets)
	if err != nil {
		lm.log.Error().Err(err).Msg("failed to persist lottery")
	}
}

// Jackpot returns the current pot.
func (lm *LotteryManager) Jackpot() int64 {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.jackpot
}

// TicketCount returns how many tickets a user holds for the next draw.
func (lm *LotteryManager) TicketCount(userID int64) int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.tickets[strconv.FormatInt(userID, 10)]
}

// BuyTickets charges the player and registers tickets for the next draw. A
// share of every ticket feeds the pot.
func (lm *LotteryManager) BuyTickets(userID int64, count int) (int64, int64, error) {
	if count <= 0 {
		return 0, 0, fmt.Errorf("ticket count must be positive")
	}

	cost := int64(count) * LotteryTicketPrice
	user, err := GetCachedUser(userID)
	if err != nil {
		return 0, 0, err
	}
	if user.Chips < cost {
		return 0, 0, fmt.Errorf("insufficient chips: need %d, have %d", cost, user.Chips)
	}

	if _, err := UpdateCachedUser(userID, UserUpdateData{ChipsIncrement: -cost}); err != nil {
		return 0, 0, err
	}

	lm.mu.Lock()
	lm.tickets[strconv.FormatInt(userID, 10)] += count
	lm.jackpot += int64(float64(cost) * LotteryPotCut)
	jackpot := lm.jackpot
	lm.persist()
	lm.mu.Unlock()

	return cost, jackpot, nil
}

// Draw runs one lottery draw. Every ticket gives its holder a
// 1-in-LotteryOddsPerEntry chance; when the draw hits, a ticket is picked
// uniformly, the holder is paid the pot, and the pot reseeds. Tickets only
// count for the draw they were bought for.
func (lm *LotteryManager) Draw() (int64, int64, bool, error) {
	lm.mu.Lock()

	total := 0
	for _, count := range lm.tickets {
		total += count
	}
	if total == 0 {
		lm.mu.Unlock()
		return 0, 0, false, nil
	}

	won := lm.rng.Intn(LotteryOddsPerEntry) < total
	if !won {
		lm.tickets = make(map[string]int)
		lm.persist()
		lm.mu.Unlock()
		return 0, 0, false, nil
	}

	// Pick the winning ticket uniformly across holders.
	pick := lm.rng.Intn(total)
	var winnerStr string
	for userID, count := range lm.tickets {
		if pick < count {
			winnerStr = userID
			break
		}
		pick -= count
	}

	amount := lm.jackpot
	lm.jackpot = LotterySeedPot
	lm.tickets = make(map[string]int)
	lm.persist()
	lm.mu.Unlock()

	winnerID, err := strconv.ParseInt(winnerStr, 10, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("corrupt ticket holder id %q: %w", winnerStr, err)
	}

	if _, err := UpdateCachedUser(winnerID, UserUpdateData{ChipsIncrement: amount}); err != nil {
		return 0, 0, false, fmt.Errorf("failed to pay lottery winner: %w", err)
	}

	lm.log.Info().Int64("winner", winnerID).Int64("amount", amount).Msg("lottery won")
	return winnerID, amount, true, nil
}
