package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/coffee-order-service/internal/model"
)

var catalog = []model.Topping{
	{ID: 1, Name: "Milk", Price: 2},
	{ID: 2, Name: "Hazelnut syrup", Price: 3},
	{ID: 3, Name: "Chocolate sauce", Price: 5},
	{ID: 4, Name: "Lemon", Price: 2},
}

func orderWithToppings(groups ...[]int) model.Order {
	return model.Order{ToppingIDs: groups}
}

func ids(toppings []model.Topping) []int {
	out := make([]int, 0, len(toppings))
	for _, t := range toppings {
		out = append(out, t.ID)
	}
	return out
}

func TestRankToppings_ByFrequency(t *testing.T) {
	orders := []model.Order{
		orderWithToppings([]int{1, 2}),
		orderWithToppings([]int{2}),
	}

	assert.Equal(t, []int{2, 1}, ids(RankToppings(orders, catalog)))
}

func TestRankToppings_CountsEveryGroup(t *testing.T) {
	orders := []model.Order{
		orderWithToppings([]int{3}, []int{}, []int{4, 4}),
		orderWithToppings([]int{3}, []int{4}),
	}

	assert.Equal(t, []int{4, 3}, ids(RankToppings(orders, catalog)))
}

func TestRankToppings_TiesKeepFirstAppearance(t *testing.T) {
	orders := []model.Order{
		orderWithToppings([]int{3, 1}),
		orderWithToppings([]int{2, 1, 3}),
	}

	// 3 и 1 встречаются по два раза, 3 появилась первой
	assert.Equal(t, []int{3, 1, 2}, ids(RankToppings(orders, catalog)))
}

func TestRankToppings_DropsDeletedToppings(t *testing.T) {
	orders := []model.Order{
		orderWithToppings([]int{9, 9, 1}),
	}

	assert.Equal(t, []int{1}, ids(RankToppings(orders, catalog)))
}

func TestRankToppings_EmptyHistory(t *testing.T) {
	ranked := RankToppings(nil, catalog)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestCountToppingUsage(t *testing.T) {
	usage := CountToppingUsage([]model.Order{
		orderWithToppings([]int{1, 2}),
		orderWithToppings([]int{2}),
	})

	assert.Equal(t, []ToppingUsage{{ToppingID: 2, Count: 2}, {ToppingID: 1, Count: 1}}, usage)
}
