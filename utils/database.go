package utils

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User is the persistent profile of a player.
type User struct {
	UserID       int64
	Chips        int64
	TotalXP      int64
	Wins         int
	Losses       int
	DailyStreak  int
	LastDaily    *time.Time
	LoanAmount   int64
	Inventory    JSONB
	Achievements StringList
	Missions     JSONB
	CreatedAt    time.Time
}

// UserUpdateData describes a partial update. Increment fields are applied as
// `col = col + $n` so concurrent games never clobber each other; pointer and
// collection fields replace the column when non-nil.
type UserUpdateData struct {
	ChipsIncrement   int64
	TotalXPIncrement int64
	WinsIncrement    int
	LossesIncrement  int
	DailyStreak      *int
	LastDaily        *time.Time
	LoanAmount       *int64
	Inventory        JSONB
	Achievements     *StringList
	Missions         JSONB
}

// JSONB maps a PostgreSQL jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONB)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}

	if len(bytes) == 0 {
		*j = make(JSONB)
		return nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(bytes, &data); err != nil {
		*j = make(JSONB)
		return nil
	}
	*j = JSONB(data)
	return nil
}

// StringList maps a jsonb array of strings (earned achievement ids).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	var data []string
	if err := json.Unmarshal(bytes, &data); err != nil {
		*s = StringList{}
		return nil
	}
	*s = StringList(data)
	return nil
}

// Contains reports whether id is in the list.
func (s StringList) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

var (
	DB            *pgxpool.Pool
	dbInitialized = false
	dbMutex       sync.RWMutex
	dbLog         = GetLogger("db")
)

// SetupDatabase initializes the connection pool and core tables. An empty URL
// leaves DB nil and the bot runs with in-memory defaults.
func SetupDatabase(databaseURL string) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if dbInitialized {
		return nil
	}
	if databaseURL == "" {
		dbLog.Warn().Msg("DATABASE_URL not set, running without persistence")
		return nil
	}

	ctx := context.Background()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 4
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name":  "paradox-casino-bot",
		"timezone":          "UTC",
		"statement_timeout": "30s",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	DB = pool
	dbInitialized = true

	if err := createTables(); err != nil {
		return err
	}

	dbLog.Info().Msg("database ready")
	return nil
}

// CloseDatabase closes the connection pool.
func CloseDatabase() {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if DB != nil {
		DB.Close()
		DB = nil
		dbInitialized = false
	}
}

func createTables() error {
	query := `CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		chips BIGINT NOT NULL DEFAULT 0,
		total_xp BIGINT NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		daily_streak INTEGER NOT NULL DEFAULT 0,
		last_daily TIMESTAMPTZ,
		loan_amount BIGINT NOT NULL DEFAULT 0,
		inventory JSONB NOT NULL DEFAULT '{}',
		achievements JSONB NOT NULL DEFAULT '[]',
		missions JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_chips ON users(chips DESC, user_id);
	CREATE INDEX IF NOT EXISTS idx_users_total_xp ON users(total_xp DESC, user_id);

	CREATE TABLE IF NOT EXISTS lottery (
		id INTEGER PRIMARY KEY,
		jackpot BIGINT NOT NULL,
		tickets JSONB NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS trade_offers (
		id UUID PRIMARY KEY,
		sender_id BIGINT NOT NULL,
		receiver_id BIGINT NOT NULL,
		offered JSONB NOT NULL,
		requested JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trade_offers_receiver ON trade_offers(receiver_id) WHERE status = 'pending';`

	if _, err := DB.Exec(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func newDefaultUser(userID int64) *User {
	return &User{
		UserID:       userID,
		Chips:        StartingChips,
		Inventory:    make(JSONB),
		Achievements: StringList{},
		Missions:     make(JSONB),
		CreatedAt:    time.Now(),
	}
}

const userColumns = `user_id, chips, total_xp, wins, losses, daily_streak,
	last_daily, loan_amount, inventory, achievements, missions, created_at`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.UserID,
		&user.Chips,
		&user.TotalXP,
		&user.Wins,
		&user.Losses,
		&user.DailyStreak,
		&user.LastDaily,
		&user.LoanAmount,
		&user.Inventory,
		&user.Achievements,
		&user.Missions,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads a user, creating the row on first contact.
func GetUser(userID int64) (*User, error) {
	if DB == nil {
		return newDefaultUser(userID), nil
	}

	ctx := context.Background()
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(DB.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return CreateUser(userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a fresh profile with the starting balance.
func CreateUser(userID int64) (*User, error) {
	user := newDefaultUser(userID)
	if DB == nil {
		return user, nil
	}

	ctx := context.Background()
	query := `
		INSERT INTO users (user_id, chips, inventory, achievements, missions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := DB.Exec(ctx, query,
		user.UserID, user.Chips, user.Inventory, user.Achievements, user.Missions, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a partial update and returns the resulting row.
func UpdateUser(userID int64, updates UserUpdateData) (*User, error) {
	if DB == nil {
		user := newDefaultUser(userID)
		if Cache != nil {
			if cached, found := Cache.Get(userID); found {
				user = cached
			}
		}
		user.Chips += updates.ChipsIncrement
		user.TotalXP += updates.TotalXPIncrement
		user.Wins += updates.WinsIncrement
		user.Losses += updates.LossesIncrement
		if updates.DailyStreak != nil {
			user.DailyStreak = *updates.DailyStreak
		}
		if updates.LastDaily != nil {
			user.LastDaily = updates.LastDaily
		}
		if updates.LoanAmount != nil {
			user.LoanAmount = *updates.LoanAmount
		}
		if updates.Inventory != nil {
			user.Inventory = updates.Inventory
		}
		if updates.Achievements != nil {
			user.Achievements = *updates.Achievements
		}
		if updates.Missions != nil {
			user.Missions = updates.Missions
		}
		return user, nil
	}

	ctx := context.Background()

	setParts := []string{}
	args := []interface{}{userID}
	argIndex := 2

	addSet := func(clause string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf(clause, argIndex))
		args = append(args, value)
		argIndex++
	}

	if updates.ChipsIncrement != 0 {
		addSet("chips = chips + $%d", updates.ChipsIncrement)
	}
	if updates.TotalXPIncrement != 0 {
		addSet("total_xp = total_xp + $%d", updates.TotalXPIncrement)
	}
	if updates.WinsIncrement != 0 {
		addSet("wins = wins + $%d", updates.WinsIncrement)
	}
	if updates.LossesIncrement != 0 {
		addSet("losses = losses + $%d", updates.LossesIncrement)
	}
	if updates.DailyStreak != nil {
		addSet("daily_streak = $%d", *updates.DailyStreak)
	}
	if updates.LastDaily != nil {
		addSet("last_daily = $%d", *updates.LastDaily)
	}
	if updates.LoanAmount != nil {
		addSet("loan_amount = $%d", *updates.LoanAmount)
	}
	if updates.Inventory != nil {
		addSet("inventory = $%d", updates.Inventory)
	}
	if updates.Achievements != nil {
		addSet("achievements = $%d", *updates.Achievements)
	}
	if updates.Missions != nil {
		addSet("missions = $%d", updates.Missions)
	}

	if len(setParts) == 0 {
		return GetUser(userID)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = $1 RETURNING `+userColumns,
		strings.Join(setParts, ", "))

	user, err := scanUser(DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// LeaderboardEntry is one row of the chip leaderboard.
type LeaderboardEntry struct {
	UserID int64
	Chips  int64
}

// GetLeaderboard returns the top chip holders.
func GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if DB == nil {
		return nil, nil
	}

	ctx := context.Background()
	rows, err := DB.Query(ctx,
		`SELECT user_id, chips FROM users ORDER BY chips DESC, user_id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Chips); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TradeOffer is a pending item exchange between two players.
type TradeOffer struct {
	ID         string
	SenderID   int64
	ReceiverID int64
	Offered    JSONB
	Requested  JSONB
	Status     string
	CreatedAt  time.Time
}

// CreateTradeOffer persists a new pending offer.
func CreateTradeOffer(offer *TradeOffer) error {
	if DB == nil {
		return fmt.Errorf("trading requires a database")
	}

	ctx := context.Background()
	_, err := DB.Exec(ctx,
		`INSERT INTO trade_offers (id, sender_id, receiver_id, offered, requested, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		offer.ID, offer.SenderID, offer.ReceiverID, offer.Offered, offer.Requested, offer.Status, offer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade offer: %w", err)
	}
	return nil
}

// GetTradeOffer loads an offer by id.
func GetTradeOffer(id string) (*TradeOffer, error) {
	if DB == nil {
		return nil, fmt.Errorf("trading requires a database")
	}

	ctx := context.Background()
	offer := &TradeOffer{}
	err := DB.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, offered, requested, status, created_at
		 FROM trade_offers WHERE id = $1`, id).Scan(
		&offer.ID, &offer.SenderID, &offer.ReceiverID,
		&offer.Offered, &offer.Requested, &offer.Status, &offer.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("trade offer %s not found", id)
		}
		return nil, fmt.Errorf("failed to get trade offer: %w", err)
	}
	return offer, nil
}

// PendingTradeOffers lists offers waiting on a receiver.
func PendingTradeOffers(receiverID int64) ([]*TradeOffer, error) {
	if DB == nil {
		return nil, fmt.Errorf("trading requires a database")
	}

	ctx := context.Background()
	rows, err := DB.Query(ctx,
		`SELECT id, sender_id, receiver_id, offered, requested, status, created_at
		 FROM trade_offers WHERE receiver_id = $1 AND status = 'pending'
		 ORDER BY created_at`, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade offers: %w", err)
	}
	defer rows.Close()

	var offers []*TradeOffer
	for rows.Next() {
		offer := &TradeOffer{}
		if err := rows.Scan(&offer.ID, &offer.SenderID, &offer.ReceiverID,
			&offer.Offered, &offer.Requested, &offer.Status, &offer.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade offer: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// SetTradeOfferStatus transitions an offer to accepted/declined.
func SetTradeOfferStatus(id, status string) error {
	if DB == nil {
		return fmt.Errorf("trading requires a database")
	}

	ctx := context.Background()
	tag, err := DB.Exec(ctx,
		`UPDATE trade_offers SET status = $2 WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update trade offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade offer %s is not pending", id)
	}
	return nil
}

// ParseBet parses a bet string ("500", "5k", "half", "all", "25%") against the
// player's balance.
func ParseBet(betStr string, userChips int64) (int64, error) {
	betStr = strings.TrimSpace(strings.ToLower(betStr))
	betStr = strings.ReplaceAll(betStr, ",", "")
	betStr = strings.ReplaceAll(betStr, "_", "")

	switch betStr {
	case "all", "allin", "max":
		return userChips, nil
	case "half":
		return userChips / 2, nil
	}

	if strings.HasSuffix(betStr, "%") {
		percentStr := strings.TrimSuffix(betStr, "%")
		percent, err := strconv.ParseFloat(percentStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage: %s", betStr)
		}
		if percent < 0 || percent > 100 {
			return 0, fmt.Errorf("percentage must be between 0 and 100")
		}
		return int64(float64(userChips) * percent / 100), nil
	}

	multiplier := int64(1)
	if strings.HasSuffix(betStr, "k") {
		multiplier = 1000
		betStr = strings.TrimSuffix(betStr, "k")
	} else if strings.HasSuffix(betStr, "m") {
		multiplier = 1000000
		betStr = strings.TrimSuffix(betStr, "m")
	}

	bet, err := strconv.ParseInt(betStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bet amount: %s", betStr)
	}
	return bet * multiplier, nil
}

// GetRank returns the rank name, icon, color and next-rank XP threshold for a
// total XP amount.
func GetRank(totalXP int64) (string, string, int, int64) {
	best := Ranks[0]
	bestIdx := 0
	for i := 0; i < len(Ranks); i++ {
		if totalXP >= int64(Ranks[i].XPRequired) {
			best = Ranks[i]
			bestIdx = i
		}
	}

	nextXP := totalXP
	if next, ok := Ranks[bestIdx+1]; ok {
		nextXP = int64(next.XPRequired)
	}
	return best.Name, best.Icon, best.Color, nextXP
}

// GetRankLevel returns the numeric rank index reached at the given XP.
func GetRankLevel(totalXP int64) int {
	level := 0
	for i := 0; i < len(Ranks); i++ {
		if totalXP >= int64(Ranks[i].XPRequired) {
			level = i
		}
	}
	return level
}
