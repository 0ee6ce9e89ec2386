package memory

import (
	"context"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// ToppingRepository хранит топпинги каталога
type ToppingRepository struct {
	toppings *collection[model.Topping]
}

// NewToppingRepository создаёт пустое хранилище топпингов
func NewToppingRepository() *ToppingRepository {
	return &ToppingRepository{
		toppings: newCollection(model.EntityTopping,
			func(t model.Topping) int { return t.ID },
			func(t model.Topping) model.Topping { return t },
		),
	}
}

func (r *ToppingRepository) CreateTopping(_ context.Context, in model.ToppingCreate) (model.Topping, error) {
	return r.toppings.insert(func(id int) model.Topping {
		return model.Topping{ID: id, Name: in.Name, Price: in.Price}
	}), nil
}

func (r *ToppingRepository) GetTopping(_ context.Context, id int) (model.Topping, error) {
	return r.toppings.get(id)
}

func (r *ToppingRepository) ListToppings(_ context.Context, skip, limit int) ([]model.Topping, error) {
	return r.toppings.list(skip, limit)
}

func (r *ToppingRepository) AllToppings(_ context.Context) ([]model.Topping, error) {
	return r.toppings.all(), nil
}

func (r *ToppingRepository) UpdateTopping(_ context.Context, id int, upd model.ToppingUpdate) (model.Topping, error) {
	return r.toppings.update(id, upd.Apply)
}

func (r *ToppingRepository) DeleteTopping(_ context.Context, id int) (model.Topping, error) {
	return r.toppings.remove(id)
}

func (r *ToppingRepository) Count(_ context.Context) int {
	return r.toppings.size()
}
