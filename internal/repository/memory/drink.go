package memory

import (
	"context"
	"slices"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// DrinkRepository хранит напитки каталога
type DrinkRepository struct {
	drinks *collection[model.Drink]
}

// NewDrinkRepository создаёт пустое хранилище напитков
func NewDrinkRepository() *DrinkRepository {
	return &DrinkRepository{
		drinks: newCollection(model.EntityDrink,
			func(d model.Drink) int { return d.ID },
			model.Drink.Clone,
		),
	}
}

// CreateDrink добавляет напиток и присваивает ему следующий id
func (r *DrinkRepository) CreateDrink(_ context.Context, in model.DrinkCreate) (model.Drink, error) {
	return r.drinks.insert(func(id int) model.Drink {
		return model.Drink{
			ID:       id,
			Name:     in.Name,
			Price:    in.Price,
			Toppings: slices.Clone(in.Toppings),
		}
	}), nil
}

// GetDrink возвращает напиток по id или model.ErrNotFound
func (r *DrinkRepository) GetDrink(_ context.Context, id int) (model.Drink, error) {
	return r.drinks.get(id)
}

// ListDrinks возвращает страницу напитков в порядке добавления
func (r *DrinkRepository) ListDrinks(_ context.Context, skip, limit int) ([]model.Drink, error) {
	return r.drinks.list(skip, limit)
}

// UpdateDrink выполняет слияние непустых полей обновления с найденным напитком
func (r *DrinkRepository) UpdateDrink(_ context.Context, id int, upd model.DrinkUpdate) (model.Drink, error) {
	return r.drinks.update(id, upd.Apply)
}

// DeleteDrink удаляет напиток и возвращает его
func (r *DrinkRepository) DeleteDrink(_ context.Context, id int) (model.Drink, error) {
	return r.drinks.remove(id)
}

// Count возвращает текущее число напитков
func (r *DrinkRepository) Count(_ context.Context) int {
	return r.drinks.size()
}
