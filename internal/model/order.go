package model

import (
	"slices"
	"time"
)

// EntityOrder используется в сообщениях об ошибках
const EntityOrder = "order"

// Order представляет размещённый заказ
// DrinkIDs[i] и ToppingIDs[i] вместе описывают i-ю группу заказа
type Order struct {
	ID               int       `json:"id"`
	DrinkIDs         [][]int   `json:"drink_ids"`
	ToppingIDs       [][]int   `json:"topping_ids"`
	TotalAmount      float64   `json:"total_amount"`
	DiscountedAmount float64   `json:"discounted_amount"`
	CreatedAt        time.Time `json:"created_at"`
}

// OrderCreate содержит группы напитков и топпингов для нового заказа
type OrderCreate struct {
	DrinkIDs   [][]int `json:"drink_ids" validate:"required,gt=0,dive,gt=0"`
	ToppingIDs [][]int `json:"topping_ids" validate:"required"`
}

// Validate проверяет, что заказ содержит хотя бы одну группу,
// в каждой группе есть напиток, а число групп напитков и топпингов совпадает
func (o *OrderCreate) Validate() error {
	if len(o.DrinkIDs) == 0 || slices.ContainsFunc(o.DrinkIDs, func(g []int) bool { return len(g) == 0 }) {
		return NewInvalidRequest("drink ids cannot be empty")
	}
	if len(o.DrinkIDs) != len(o.ToppingIDs) {
		return NewInvalidRequest("got %d drink groups and %d topping groups", len(o.DrinkIDs), len(o.ToppingIDs))
	}
	return validateStruct(o)
}

// Clone возвращает глубокую копию заказа
func (o Order) Clone() Order {
	o.DrinkIDs = cloneGroups(o.DrinkIDs)
	o.ToppingIDs = cloneGroups(o.ToppingIDs)
	return o
}

func cloneGroups(groups [][]int) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = slices.Clone(g)
		if out[i] == nil {
			out[i] = []int{}
		}
	}
	return out
}
