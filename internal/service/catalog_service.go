package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/asquebay/coffee-order-service/internal/lib/tracing"
	"github.com/asquebay/coffee-order-service/internal/model"
)

const tracerScope = "github.com/asquebay/coffee-order-service/internal/service"

// DefaultDrinks напитки, которыми каталог заполняется при старте
var DefaultDrinks = []model.DrinkCreate{
	{Name: "Black Coffee", Price: 4},
	{Name: "Latte", Price: 5},
	{Name: "Mocha", Price: 6},
	{Name: "Tea", Price: 3},
}

// DefaultToppings топпинги, которыми каталог заполняется при старте
var DefaultToppings = []model.ToppingCreate{
	{Name: "Milk", Price: 2},
	{Name: "Hazelnut syrup", Price: 3},
	{Name: "Chocolate sauce", Price: 5},
	{Name: "Lemon", Price: 2},
}

// CatalogService инкапсулирует работу администратора и покупателя с каталогом
type CatalogService struct {
	drinks   DrinkRepository
	toppings ToppingRepository
	log      *slog.Logger
}

// NewCatalogService создаёт новый экземпляр сервиса каталога
func NewCatalogService(drinks DrinkRepository, toppings ToppingRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{
		drinks:   drinks,
		toppings: toppings,
		log:      log,
	}
}

// Seed заполняет пустой каталог напитками и топпингами по умолчанию
// непустые хранилища не трогаются
func (s *CatalogService) Seed(ctx context.Context) error {
	const op = "service.CatalogService.Seed"
	log := s.log.With(slog.String("op", op))

	if s.drinks.Count(ctx) == 0 {
		for _, d := range DefaultDrinks {
			if _, err := s.drinks.CreateDrink(ctx, d); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		log.Info("default drinks created", slog.Int("count", len(DefaultDrinks)))
	}

	if s.toppings.Count(ctx) == 0 {
		for _, t := range DefaultToppings {
			if _, err := s.toppings.CreateTopping(ctx, t); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		log.Info("default toppings created", slog.Int("count", len(DefaultToppings)))
	}

	return nil
}

func (s *CatalogService) CreateDrink(ctx context.Context, in model.DrinkCreate) (model.Drink, error) {
	const op = "service.CatalogService.CreateDrink"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.String("name", in.Name))

	drink, err := s.drinks.CreateDrink(ctx, in)
	if err != nil {
		log.Error("failed to create drink", slog.String("error", err.Error()))
		return model.Drink{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("drink created", slog.Int("drink_id", drink.ID))
	return drink, nil
}

func (s *CatalogService) GetDrink(ctx context.Context, id int) (model.Drink, error) {
	const op = "service.CatalogService.GetDrink"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("drink_id", id))
	defer span.End()

	drink, err := s.drinks.GetDrink(ctx, id)
	if err != nil {
		s.logLookupError(op, err)
		return model.Drink{}, fmt.Errorf("%s: %w", op, err)
	}
	return drink, nil
}

func (s *CatalogService) ListDrinks(ctx context.Context, skip, limit int) ([]model.Drink, error) {
	const op = "service.CatalogService.ListDrinks"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()

	s.log.Debug("fetching drinks", slog.String("op", op), slog.Int("skip", skip), slog.Int("limit", limit))

	drinks, err := s.drinks.ListDrinks(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return drinks, nil
}

// UpdateDrink обновляет только переданные непустые поля напитка
func (s *CatalogService) UpdateDrink(ctx context.Context, id int, upd model.DrinkUpdate) (model.Drink, error) {
	const op = "service.CatalogService.UpdateDrink"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("drink_id", id))
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.Int("drink_id", id))

	drink, err := s.drinks.UpdateDrink(ctx, id, upd)
	if err != nil {
		s.logLookupError(op, err)
		return model.Drink{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("drink updated")
	return drink, nil
}

func (s *CatalogService) DeleteDrink(ctx context.Context, id int) (model.Drink, error) {
	const op = "service.CatalogService.DeleteDrink"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("drink_id", id))
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.Int("drink_id", id))

	drink, err := s.drinks.DeleteDrink(ctx, id)
	if err != nil {
		s.logLookupError(op, err)
		return model.Drink{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("drink deleted")
	return drink, nil
}

func (s *CatalogService) CreateTopping(ctx context.Context, in model.ToppingCreate) (model.Topping, error) {
	const op = "service.CatalogService.CreateTopping"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.String("name", in.Name))

	topping, err := s.toppings.CreateTopping(ctx, in)
	if err != nil {
		log.Error("failed to create topping", slog.String("error", err.Error()))
		return model.Topping{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("topping created", slog.Int("topping_id", topping.ID))
	return topping, nil
}

func (s *CatalogService) GetTopping(ctx context.Context, id int) (model.Topping, error) {
	const op = "service.CatalogService.GetTopping"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("topping_id", id))
	defer span.End()

	topping, err := s.toppings.GetTopping(ctx, id)
	if err != nil {
		s.logLookupError(op, err)
		return model.Topping{}, fmt.Errorf("%s: %w", op, err)
	}
	return topping, nil
}

func (s *CatalogService) ListToppings(ctx context.Context, skip, limit int) ([]model.Topping, error) {
	const op = "service.CatalogService.ListToppings"
	ctx, span := tracing.Start(ctx, tracerScope, op)
	defer span.End()

	s.log.Debug("fetching toppings", slog.String("op", op), slog.Int("skip", skip), slog.Int("limit", limit))

	toppings, err := s.toppings.ListToppings(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toppings, nil
}

// UpdateTopping обновляет только переданные непустые поля топпинга
func (s *CatalogService) UpdateTopping(ctx context.Context, id int, upd model.ToppingUpdate) (model.Topping, error) {
	const op = "service.CatalogService.UpdateTopping"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("topping_id", id))
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.Int("topping_id", id))

	topping, err := s.toppings.UpdateTopping(ctx, id, upd)
	if err != nil {
		s.logLookupError(op, err)
		return model.Topping{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("topping updated")
	return topping, nil
}

func (s *CatalogService) DeleteTopping(ctx context.Context, id int) (model.Topping, error) {
	const op = "service.CatalogService.DeleteTopping"
	ctx, span := tracing.Start(ctx, tracerScope, op, attribute.Int("topping_id", id))
	defer span.End()
	log := s.log.With(slog.String("op", op), slog.Int("topping_id", id))

	topping, err := s.toppings.DeleteTopping(ctx, id)
	if err != nil {
		s.logLookupError(op, err)
		return model.Topping{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("topping deleted")
	return topping, nil
}

// logLookupError не логирует как ошибку, если запись просто не найдена
func (s *CatalogService) logLookupError(op string, err error) {
	if errors.Is(err, model.ErrNotFound) {
		s.log.Debug("record not found", slog.String("op", op), slog.String("error", err.Error()))
		return
	}
	s.log.Error("catalog operation failed", slog.String("op", op), slog.String("error", err.Error()))
}
