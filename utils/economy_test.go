package utils

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOffline(t *testing.T) {
	t.Helper()
	InitializeCache(time.Minute)
	t.Cleanup(func() {
		CloseCache()
		Cache = nil
	})
}

func TestInventoryCount(t *testing.T) {
	inv := JSONB{"gold_coin": float64(3), "diamond": 1}
	assert.Equal(t, 3, InventoryCount(inv, "gold_coin"))
	assert.Equal(t, 1, InventoryCount(inv, "diamond"))
	assert.Zero(t, InventoryCount(inv, "gold_bar"))
	assert.Zero(t, InventoryCount(nil, "gold_coin"))
}

func TestAddToInventoryCopies(t *testing.T) {
	inv := JSONB{"gold_coin": float64(2)}
	updated := AddToInventory(inv, "gold_coin", 3)

	assert.Equal(t, 5, InventoryCount(updated, "gold_coin"))
	assert.Equal(t, 2, InventoryCount(inv, "gold_coin"))
}

func TestRemoveFromInventory(t *testing.T) {
	inv := JSONB{"gold_coin": float64(5), "diamond": float64(2)}

	updated, err := RemoveFromInventory(inv, "gold_coin", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, InventoryCount(updated, "gold_coin"))

	// Removing the last of an item deletes the key.
	updated, err = RemoveFromInventory(updated, "diamond", 2)
	require.NoError(t, err)
	_, exists := updated["diamond"]
	assert.False(t, exists)

	_, err = RemoveFromInventory(updated, "gold_bar", 1)
	assert.Error(t, err)
}

func TestRollItemDropRespectsTable(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		item, dropped := RollItemDrop(r, "slots")
		if dropped {
			assert.Equal(t, "gold_coin", item)
		}
	}

	_, dropped := RollItemDrop(r, "craps")
	assert.False(t, dropped)
}

func TestRollItemDropFrequency(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	hits := 0
	for i := 0; i < 10000; i++ {
		if _, dropped := RollItemDrop(r, "slots"); dropped {
			hits++
		}
	}
	// The slots drop chance is 0.5.
	assert.InDelta(t, 5000, hits, 300)
}

func TestSortedShopItemsStableOrder(t *testing.T) {
	items := SortedShopItems()
	require.Len(t, items, len(ShopItems))
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
}

func TestBuyItemOffline(t *testing.T) {
	setupOffline(t)
	userID := int64(1001)

	user, item, err := BuyItem(userID, "loan_pass")
	require.NoError(t, err)
	assert.Equal(t, "Loan Pass", item.Name)
	assert.Equal(t, int64(StartingChips-100), user.Chips)
	assert.True(t, HasItem(user, "loan_pass"))

	_, _, err = BuyItem(userID, "bogus_item")
	assert.Error(t, err)
}

func TestLoanLifecycleOffline(t *testing.T) {
	setupOffline(t)
	userID := int64(1002)

	// No loan pass yet.
	_, _, err := TakeLoan(userID, 1000)
	assert.Error(t, err)

	_, _, err = BuyItem(userID, "loan_pass")
	require.NoError(t, err)

	user, owed, err := TakeLoan(userID, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), owed)
	assert.Equal(t, owed, user.LoanAmount)

	// A second loan is refused while one is outstanding.
	_, _, err = TakeLoan(userID, 500)
	assert.Error(t, err)

	user, repaid, err := RepayLoan(userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), repaid)
	assert.Zero(t, user.LoanAmount)

	_, _, err = RepayLoan(userID)
	assert.Error(t, err)
}

func TestTakeLoanBounds(t *testing.T) {
	setupOffline(t)
	userID := int64(1003)

	_, _, err := BuyItem(userID, "loan_pass")
	require.NoError(t, err)

	_, _, err = TakeLoan(userID, 0)
	assert.Error(t, err)
	_, _, err = TakeLoan(userID, MaxLoan+1)
	assert.Error(t, err)
}

func TestCraftItemOffline(t *testing.T) {
	setupOffline(t)
	userID := int64(1004)

	// Crafting requires the kit.
	_, _, err := CraftItem(userID, "lucky_charm")
	assert.Error(t, err)

	_, _, err = BuyItem(userID, "crafting_kit")
	require.NoError(t, err)

	// Still missing ingredients.
	_, _, err = CraftItem(userID, "lucky_charm")
	assert.Error(t, err)

	user, err := GetCachedUser(userID)
	require.NoError(t, err)
	inv := AddToInventory(user.Inventory, "gold_coin", 5)
	inv = AddToInventory(inv, "four_leaf_clover", 1)
	_, err = UpdateCachedUser(userID, UserUpdateData{Inventory: inv})
	require.NoError(t, err)

	user, recipe, err := CraftItem(userID, "lucky_charm")
	require.NoError(t, err)
	assert.Equal(t, "lucky_charm", recipe.ID)
	assert.True(t, HasItem(user, "lucky_charm"))
	assert.Zero(t, InventoryCount(user.Inventory, "gold_coin"))
	assert.Zero(t, InventoryCount(user.Inventory, "four_leaf_clover"))
	assert.True(t, HasItem(user, "crafting_kit"))
}
