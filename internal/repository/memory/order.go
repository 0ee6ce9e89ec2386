package memory

import (
	"context"
	"time"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// OrderRepository хранит размещённые заказы
// заказы никогда не удаляются, поэтому их id стабильны
type OrderRepository struct {
	orders *collection[model.Order]
	now    func() time.Time
}

// NewOrderRepository создаёт пустое хранилище заказов
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: newCollection(model.EntityOrder,
			func(o model.Order) int { return o.ID },
			model.Order.Clone,
		),
		now: time.Now,
	}
}

// CreateOrder сохраняет копии групп id и рассчитанные суммы
func (r *OrderRepository) CreateOrder(_ context.Context, drinkIDs, toppingIDs [][]int, total, discounted float64) (model.Order, error) {
	return r.orders.insert(func(id int) model.Order {
		return model.Order{
			ID:               id,
			DrinkIDs:         drinkIDs,
			ToppingIDs:       toppingIDs,
			TotalAmount:      total,
			DiscountedAmount: discounted,
			CreatedAt:        r.now().UTC(),
		}.Clone()
	}), nil
}

func (r *OrderRepository) GetOrder(_ context.Context, id int) (model.Order, error) {
	return r.orders.get(id)
}

func (r *OrderRepository) ListOrders(_ context.Context, skip, limit int) ([]model.Order, error) {
	return r.orders.list(skip, limit)
}

// AllOrders возвращает всю историю заказов, используется для отчётов
func (r *OrderRepository) AllOrders(_ context.Context) ([]model.Order, error) {
	return r.orders.all(), nil
}

func (r *OrderRepository) Count(_ context.Context) int {
	return r.orders.size()
}
