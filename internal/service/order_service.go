package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/asquebay/coffee-order-service/internal/lib/tracing"
	"github.com/asquebay/coffee-order-service/internal/model"
	"github.com/asquebay/coffee-order-service/internal/pricing"
)

// OrderService инкапсулирует размещение заказов, их расчёт и отчёты по заказам
type OrderService struct {
	drinks    DrinkGetter
	toppings  ToppingReader
	orders    OrderRepository
	publisher OrderPublisher
	log       *slog.Logger
}

// NewOrderService создаёт новый экземпляр сервиса заказов
// publisher может быть nil, тогда заказы никуда не публикуются
func NewOrderService(drinks DrinkGetter, toppings ToppingReader, orders OrderRepository, publisher OrderPublisher, log *slog.Logger) *OrderService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OrderService{
		drinks:    drinks,
		toppings:  toppings,
		orders:    orders,
		publisher: publisher,
		log:       log,
	}
}

// PlaceOrder проверяет заказ, находит все напитки и топпинги в каталоге,
// считает сумму со скидкой и сохраняет заказ
// при любой ошибке заказ не создаётся
func (s *OrderService) PlaceOrder(ctx context.Context, req model.OrderCreate) (model.Order, error) {
	const op = "service.OrderService.PlaceOrder"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("groups", len(req.DrinkIDs)))
	defer span.End()
	log := s.log.With(slog.String("op", op))

	log.Info("creating new order", slog.Int("groups", len(req.DrinkIDs)))

	if err := req.Validate(); err != nil {
		log.Warn("order rejected", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	groups, err := s.resolve(ctx, req)
	if err != nil {
		log.Warn("order references unknown catalog item", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	quote := pricing.Calculate(groups)
	if !quote.Finite() {
		err := model.NewInvalidRequest("order total exceeds the supported range")
		log.Warn("order rejected", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orders.CreateOrder(ctx, req.DrinkIDs, req.ToppingIDs, quote.TotalAmount(), quote.DiscountedAmount())
	if err != nil {
		log.Error("failed to save order", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.Int("order_id", order.ID))
	span.SetAttributes(attribute.Int("order_id", order.ID))

	// заказ уже сохранён, поэтому ошибка публикации не отменяет его
	if err := s.publisher.PublishOrder(ctx, order); err != nil {
		log.Error("failed to publish order", slog.String("error", err.Error()))
	}

	log.Info("order created",
		slog.Float64("total_amount", order.TotalAmount),
		slog.Float64("discounted_amount", order.DiscountedAmount),
	)
	return order, nil
}

// resolve находит записи каталога для каждой группы заказа
// сначала проверяются все напитки, затем все топпинги
func (s *OrderService) resolve(ctx context.Context, req model.OrderCreate) ([]pricing.Group, error) {
	groups := make([]pricing.Group, len(req.DrinkIDs))

	for i, ids := range req.DrinkIDs {
		groups[i].Drinks = make([]model.Drink, 0, len(ids))
		for _, id := range ids {
			drink, err := s.drinks.GetDrink(ctx, id)
			if err != nil {
				return nil, err
			}
			groups[i].Drinks = append(groups[i].Drinks, drink)
		}
	}

	for i, ids := range req.ToppingIDs {
		groups[i].Toppings = make([]model.Topping, 0, len(ids))
		for _, id := range ids {
			topping, err := s.toppings.GetTopping(ctx, id)
			if err != nil {
				return nil, err
			}
			groups[i].Toppings = append(groups[i].Toppings, topping)
		}
	}

	return groups, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (model.Order, error) {
	const op = "service.OrderService.GetOrder"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("order_id", id))
	defer span.End()

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error) {
	const op = "service.OrderService.ListOrders"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()

	s.log.Debug("fetching orders", slog.String("op", op), slog.Int("skip", skip), slog.Int("limit", limit))

	orders, err := s.orders.ListOrders(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// MostUsedToppings возвращает топпинги каталога, упорядоченные по частоте использования в заказах
func (s *OrderService) MostUsedToppings(ctx context.Context) ([]model.Topping, error) {
	const op = "service.OrderService.MostUsedToppings"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()
	log := s.log.With(slog.String("op", op))

	orders, err := s.orders.AllOrders(ctx)
	if err != nil {
		log.Error("failed to get orders", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	toppings, err := s.toppings.AllToppings(ctx)
	if err != nil {
		log.Error("failed to get toppings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ranked := pricing.RankToppings(orders, toppings)
	log.Debug("most used toppings calculated", slog.Int("orders_count", len(orders)), slog.Int("toppings_count", len(ranked)))

	return ranked, nil
}
