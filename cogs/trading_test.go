package cogs

import (
	"testing"

	"paradox-go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemList(t *testing.T) {
	items, err := parseItemList("gold_coin:2, diamond:1")
	require.NoError(t, err)
	assert.Equal(t, 2, utils.InventoryCount(items, "gold_coin"))
	assert.Equal(t, 1, utils.InventoryCount(items, "diamond"))
}

func TestParseItemListDefaultsToOne(t *testing.T) {
	items, err := parseItemList("gold_bar")
	require.NoError(t, err)
	assert.Equal(t, 1, utils.InventoryCount(items, "gold_bar"))
}

func TestParseItemListMergesDuplicates(t *testing.T) {
	items, err := parseItemList("gold_coin:1, gold_coin:2")
	require.NoError(t, err)
	assert.Equal(t, 3, utils.InventoryCount(items, "gold_coin"))
}

func TestParseItemListRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "gold_coin:0", "gold_coin:x", ":3"} {
		_, err := parseItemList(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestHasAllItems(t *testing.T) {
	inv := utils.JSONB{"gold_coin": float64(5), "diamond": float64(1)}

	assert.True(t, hasAllItems(inv, utils.JSONB{"gold_coin": float64(5)}))
	assert.False(t, hasAllItems(inv, utils.JSONB{"gold_coin": float64(6)}))
	assert.False(t, hasAllItems(inv, utils.JSONB{"gold_bar": float64(1)}))
}

func TestTransferItems(t *testing.T) {
	from := utils.JSONB{"gold_coin": float64(5)}
	to := utils.JSONB{}

	from, to, err := transferItems(from, to, utils.JSONB{"gold_coin": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, 2, utils.InventoryCount(from, "gold_coin"))
	assert.Equal(t, 3, utils.InventoryCount(to, "gold_coin"))

	_, _, err = transferItems(from, to, utils.JSONB{"gold_coin": float64(10)})
	assert.Error(t, err)
}

func TestFormatItemListStableOrder(t *testing.T) {
	items := utils.JSONB{"diamond": float64(1), "gold_coin": float64(2)}
	assert.Equal(t, "1x diamond, 2x gold_coin", formatItemList(items))
}
