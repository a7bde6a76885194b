package utils

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ShopItem is a purchasable inventory item.
type ShopItem struct {
	ID          string
	Name        string
	Description string
	Price       int64
}

var ShopItems = map[string]ShopItem{
	"profile_bg1":      {"profile_bg1", "Cosmic Sky", "Starry backdrop", 1000},
	"profile_bg2":      {"profile_bg2", "Golden Vault", "Gold shine", 1000},
	"title_gambler":    {"title_gambler", "Gambler", "For risk-takers", 500},
	"title_highroller": {"title_highroller", "High Roller", "Big spender", 750},
	"daily_boost":      {"daily_boost", "Daily Boost", "2x daily reward", 200},
	"xp_boost":         {"xp_boost", "XP Boost", "2x XP gain", 300},
	"loan_pass":        {"loan_pass", "Loan Pass", "Allows taking a loan", 100},
	"crafting_kit":     {"crafting_kit", "Crafting Kit", "Unlocks crafting recipes", 800},
}

// Recipe consumes dropped ingredients to produce a crafted item.
type Recipe struct {
	ID          string
	Description string
	Ingredients map[string]int
}

var CraftingRecipes = map[string]Recipe{
	"lucky_charm": {
		ID:          "lucky_charm",
		Description: "Increases win chance by 5% for 1 hour",
		Ingredients: map[string]int{"gold_coin": 5, "four_leaf_clover": 1},
	},
	"mega_jackpot": {
		ID:          "mega_jackpot",
		Description: "Triples jackpot winnings once",
		Ingredients: map[string]int{"gold_bar": 3, "diamond": 2},
	},
	"fortune_charm": {
		ID:          "fortune_charm",
		Description: "Increases slot machine winnings by 10% for 1 hour",
		Ingredients: map[string]int{"gold_coin": 10, "four_leaf_clover": 2},
	},
}

// ItemDrop is a chance for an ingredient to drop after winning a game.
type ItemDrop struct {
	Item   string
	Chance float64
}

var ItemDropTable = map[string]ItemDrop{
	"slots":     {"gold_coin", 0.5},
	"roulette":  {"four_leaf_clover", 0.1},
	"poker":     {"gold_bar", 0.05},
	"blackjack": {"diamond", 0.02},
}

var (
	dropRng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	dropMutex sync.Mutex
)

// RollItemDrop rolls the drop table for a game using the provided source.
func RollItemDrop(r *rand.Rand, gameType string) (string, bool) {
	drop, ok := ItemDropTable[gameType]
	if !ok {
		return "", false
	}
	if r.Float64() < drop.Chance {
		return drop.Item, true
	}
	return "", false
}

// RollDrop rolls the drop table with the shared economy source.
func RollDrop(gameType string) (string, bool) {
	dropMutex.Lock()
	defer dropMutex.Unlock()
	return RollItemDrop(dropRng, gameType)
}

// InventoryCount returns how many of an item the inventory holds.
func InventoryCount(inv JSONB, item string) int {
	if inv == nil {
		return 0
	}
	switch v := inv[item].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// HasItem reports whether the user owns at least one of the item.
func HasItem(user *User, item string) bool {
	return InventoryCount(user.Inventory, item) > 0
}

// AddToInventory returns a copy of the inventory with n more of the item.
func AddToInventory(inv JSONB, item string, n int) JSONB {
	updated := make(JSONB, len(inv)+1)
	for k, v := range inv {
		updated[k] = v
	}
	updated[item] = float64(InventoryCount(inv, item) + n)
	return updated
}

// RemoveFromInventory returns a copy with n fewer of the item, deleting the
// key when the count reaches zero. Fails if the inventory cannot cover n.
func RemoveFromInventory(inv JSONB, item string, n int) (JSONB, error) {
	have := InventoryCount(inv, item)
	if have < n {
		return nil, fmt.Errorf("not enough %s: have %d, need %d", item, have, n)
	}

	updated := make(JSONB, len(inv))
	for k, v := range inv {
		updated[k] = v
	}
	if have == n {
		delete(updated, item)
	} else {
		updated[item] = float64(have - n)
	}
	return updated, nil
}

// SortedShopItems returns the catalog in a stable display order.
func SortedShopItems() []ShopItem {
	items := make([]ShopItem, 0, len(ShopItems))
	for _, item := range ShopItems {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// BuyItem purchases a shop item into the user's inventory.
func BuyItem(userID int64, itemID string) (*User, *ShopItem, error) {
	item, ok := ShopItems[itemID]
	if !ok {
		return nil, nil, fmt.Errorf("unknown item: %s", itemID)
	}

	user, err := GetCachedUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if user.Chips < item.Price {
		return nil, nil, fmt.Errorf("insufficient chips: need %d, have %d", item.Price, user.Chips)
	}

	inv := AddToInventory(user.Inventory, itemID, 1)
	updated, err := UpdateCachedUser(userID, UserUpdateData{
		ChipsIncrement: -item.Price,
		Inventory:      inv,
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, &item, nil
}

// CraftItem consumes a recipe's ingredients and adds the crafted item.
// Requires a crafting kit.
func CraftItem(userID int64, recipeID string) (*User, *Recipe, error) {
	recipe, ok := CraftingRecipes[recipeID]
	if !ok {
		return nil, nil, fmt.Errorf("unknown recipe: %s", recipeID)
	}

	user, err := GetCachedUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if !HasItem(user, "crafting_kit") {
		return nil, nil, fmt.Errorf("crafting requires a crafting kit")
	}

	inv := user.Inventory
	for item, count := range recipe.Ingredients {
		inv, err = RemoveFromInventory(inv, item, count)
		if err != nil {
			return nil, nil, err
		}
	}
	inv = AddToInventory(inv, recipeID, 1)

	updated, err := UpdateCachedUser(userID, UserUpdateData{Inventory: inv})
	if err != nil {
		return nil, nil, err
	}
	return updated, &recipe, nil
}

// TakeLoan credits chips against an outstanding balance with interest.
// Requires a loan pass and no existing loan.
func TakeLoan(userID, amount int64) (*User, int64, error) {
	if amount <= 0 || amount > MaxLoan {
		return nil, 0, fmt.Errorf("loan amount must be between 1 and %d", MaxLoan)
	}

	user, err := GetCachedUser(userID)
	if err != nil {
		return nil, 0, err
	}
	if !HasItem(user, "loan_pass") {
		return nil, 0, fmt.Errorf("taking a loan requires a loan pass")
	}
	if user.LoanAmount > 0 {
		return nil, 0, fmt.Errorf("you already have an outstanding loan of %d", user.LoanAmount)
	}

	owed := amount + int64(float64(amount)*LoanInterestRate)
	updated, err := UpdateCachedUser(userID, UserUpdateData{
		ChipsIncrement: amount,
		LoanAmount:     &owed,
	})
	if err != nil {
		return nil, 0, err
	}
	return updated, owed, nil
}

// RepayLoan settles the outstanding loan in full.
func RepayLoan(userID int64) (*User, int64, error) {
	user, err := GetCachedUser(userID)
	if err != nil {
		return nil, 0, err
	}
	if user.LoanAmount == 0 {
		return nil, 0, fmt.Errorf("you have no outstanding loan")
	}
	if user.Chips < user.LoanAmount {
		return nil, 0, fmt.Errorf("insufficient chips: need %d, have %d", user.LoanAmount, user.Chips)
	}

	repaid := user.LoanAmount
	zero := int64(0)
	updated, err := UpdateCachedUser(userID, UserUpdateData{
		ChipsIncrement: -repaid,
		LoanAmount:     &zero,
	})
	if err != nil {
		return nil, 0, err
	}
	return updated, repaid, nil
}
