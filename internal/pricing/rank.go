package pricing

import (
	"slices"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// ToppingUsage число использований топпинга во всех заказах
type ToppingUsage struct {
	ToppingID int
	Count     int
}

// CountToppingUsage считает, сколько раз каждый id топпинга встречается в заказах
// результат упорядочен по убыванию счётчика, при равенстве сохраняется порядок первого появления
func CountToppingUsage(orders []model.Order) []ToppingUsage {
	index := make(map[int]int)
	var usage []ToppingUsage

	for _, o := range orders {
		for _, group := range o.ToppingIDs {
			for _, id := range group {
				i, ok := index[id]
				if !ok {
					i = len(usage)
					index[id] = i
					usage = append(usage, ToppingUsage{ToppingID: id})
				}
				usage[i].Count++
			}
		}
	}

	slices.SortStableFunc(usage, func(a, b ToppingUsage) int {
		return b.Count - a.Count
	})
	return usage
}

// RankToppings возвращает топпинги каталога от самого популярного к наименее популярному
// id, которых больше нет в каталоге, отбрасываются
func RankToppings(orders []model.Order, catalog []model.Topping) []model.Topping {
	byID := make(map[int]model.Topping, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}

	ranked := make([]model.Topping, 0)
	for _, u := range CountToppingUsage(orders) {
		if t, ok := byID[u.ToppingID]; ok {
			ranked = append(ranked, t)
		}
	}
	return ranked
}
