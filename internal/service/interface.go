package service

import (
	"context"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// DrinkRepository определяет контракт для хранилища напитков
type DrinkRepository interface {
	CreateDrink(ctx context.Context, in model.DrinkCreate) (model.Drink, error)
	GetDrink(ctx context.Context, id int) (model.Drink, error)
	ListDrinks(ctx context.Context, skip, limit int) ([]model.Drink, error)
	UpdateDrink(ctx context.Context, id int, upd model.DrinkUpdate) (model.Drink, error)
	DeleteDrink(ctx context.Context, id int) (model.Drink, error)
	Count(ctx context.Context) int
}

// ToppingRepository определяет контракт для хранилища топпингов
type ToppingRepository interface {
	CreateTopping(ctx context.Context, in model.ToppingCreate) (model.Topping, error)
	GetTopping(ctx context.Context, id int) (model.Topping, error)
	ListToppings(ctx context.Context, skip, limit int) ([]model.Topping, error)
	AllToppings(ctx context.Context) ([]model.Topping, error)
	UpdateTopping(ctx context.Context, id int, upd model.ToppingUpdate) (model.Topping, error)
	DeleteTopping(ctx context.Context, id int) (model.Topping, error)
	Count(ctx context.Context) int
}

// DrinkGetter нужен сервису заказов только для поиска напитков по id
type DrinkGetter interface {
	GetDrink(ctx context.Context, id int) (model.Drink, error)
}

// ToppingReader нужен сервису заказов для поиска топпингов и построения рейтинга
type ToppingReader interface {
	GetTopping(ctx context.Context, id int) (model.Topping, error)
	AllToppings(ctx context.Context) ([]model.Topping, error)
}

// OrderRepository определяет контракт для хранилища заказов
type OrderRepository interface {
	CreateOrder(ctx context.Context, drinkIDs, toppingIDs [][]int, total, discounted float64) (model.Order, error)
	GetOrder(ctx context.Context, id int) (model.Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error)
	AllOrders(ctx context.Context) ([]model.Order, error)
}

// OrderPublisher публикует размещённые заказы во внешние системы
type OrderPublisher interface {
	PublishOrder(ctx context.Context, order model.Order) error
}

// NopPublisher ничего не публикует, используется при выключенной кафке
type NopPublisher struct{}

func (NopPublisher) PublishOrder(context.Context, model.Order) error { return nil }
