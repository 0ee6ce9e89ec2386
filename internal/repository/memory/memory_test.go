package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/coffee-order-service/internal/model"
)

func ptr[T any](v T) *T { return &v }

func seedDrinks(t *testing.T, r *DrinkRepository) {
	t.Helper()
	for _, d := range []model.DrinkCreate{
		{Name: "Black Coffee", Price: 4},
		{Name: "Latte", Price: 5},
		{Name: "Mocha", Price: 6},
		{Name: "Tea", Price: 3},
	} {
		_, err := r.CreateDrink(context.Background(), d)
		require.NoError(t, err)
	}
}

func TestDrinkRepository_CreateAssignsSizePlusOne(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()

	for i := 0; i < 5; i++ {
		before := repo.Count(ctx)
		d, err := repo.CreateDrink(ctx, model.DrinkCreate{Name: "Espresso", Price: 3})
		require.NoError(t, err)
		assert.Equal(t, before+1, d.ID)
	}
}

func TestDrinkRepository_IDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()
	seedDrinks(t, repo)

	_, err := repo.DeleteDrink(ctx, 1)
	require.NoError(t, err)

	d, err := repo.CreateDrink(ctx, model.DrinkCreate{Name: "Espresso", Price: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, d.ID)

	tea, err := repo.GetDrink(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Tea", tea.Name)
}

func TestDrinkRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()
	created, err := repo.CreateDrink(ctx, model.DrinkCreate{Name: "Latte", Price: 5, Toppings: []int{1}})
	require.NoError(t, err)

	created.Toppings[0] = 99

	got, err := repo.GetDrink(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got.Toppings)
}

func TestDrinkRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()
	seedDrinks(t, repo)

	tests := []struct {
		name        string
		skip, limit int
		wantIDs     []int
	}{
		{name: "first page", skip: 0, limit: 2, wantIDs: []int{1, 2}},
		{name: "middle", skip: 1, limit: 2, wantIDs: []int{2, 3}},
		{name: "limit beyond end", skip: 2, limit: 10, wantIDs: []int{3, 4}},
		{name: "skip beyond end", skip: 10, limit: 10, wantIDs: []int{}},
		{name: "zero limit", skip: 0, limit: 0, wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drinks, err := repo.ListDrinks(ctx, tt.skip, tt.limit)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(drinks), tt.limit)

			ids := make([]int, 0, len(drinks))
			for _, d := range drinks {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDrinkRepository_ListRejectsNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()

	_, err := repo.ListDrinks(ctx, -1, 10)
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = repo.ListDrinks(ctx, 0, -1)
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestDrinkRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()
	seedDrinks(t, repo)

	t.Run("merge", func(t *testing.T) {
		d, err := repo.UpdateDrink(ctx, 4, model.DrinkUpdate{Name: ptr("Green Tea"), Price: ptr(4.0)})
		require.NoError(t, err)
		assert.Equal(t, "Green Tea", d.Name)
		assert.Equal(t, 4.0, d.Price)
	})

	t.Run("empty update keeps record", func(t *testing.T) {
		before, err := repo.GetDrink(ctx, 2)
		require.NoError(t, err)

		after, err := repo.UpdateDrink(ctx, 2, model.DrinkUpdate{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("not found mutates nothing", func(t *testing.T) {
		before, err := repo.ListDrinks(ctx, 0, 10)
		require.NoError(t, err)

		_, err = repo.UpdateDrink(ctx, 42, model.DrinkUpdate{Name: ptr("Ghost")})
		assert.ErrorIs(t, err, model.ErrNotFound)

		after, err := repo.ListDrinks(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestDrinkRepository_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDrinkRepository()
	seedDrinks(t, repo)

	deleted, err := repo.DeleteDrink(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Tea", deleted.Name)

	_, err = repo.GetDrink(ctx, 4)
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, model.EntityDrink, notFound.Entity)
	assert.Equal(t, 4, notFound.ID)

	_, err = repo.DeleteDrink(ctx, 4)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 3, repo.Count(ctx))
}

func TestToppingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewToppingRepository()

	milk, err := repo.CreateTopping(ctx, model.ToppingCreate{Name: "Milk", Price: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, milk.ID)

	syrup, err := repo.CreateTopping(ctx, model.ToppingCreate{Name: "Hazelnut syrup", Price: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, syrup.ID)

	updated, err := repo.UpdateTopping(ctx, milk.ID, model.ToppingUpdate{Price: ptr(2.5)})
	require.NoError(t, err)
	assert.Equal(t, model.Topping{ID: 1, Name: "Milk", Price: 2.5}, updated)

	page, err := repo.ListToppings(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Topping{syrup}, page)

	_, err = repo.DeleteTopping(ctx, milk.ID)
	require.NoError(t, err)

	all, err := repo.AllToppings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Topping{syrup}, all)

	_, err = repo.GetTopping(ctx, milk.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	drinkIDs := [][]int{{1}}
	first, err := repo.CreateOrder(ctx, drinkIDs, [][]int{{1}}, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	// заказ хранит копию групп, а не ссылку на срез вызывающего
	drinkIDs[0][0] = 99

	second, err := repo.CreateOrder(ctx, [][]int{{2, 2}}, [][]int{{1, 3}}, 10, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	got, err := repo.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1}}, got.DrinkIDs)

	page, err := repo.ListOrders(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 10.0, page[0].TotalAmount)
	assert.Equal(t, 8.0, page[0].DiscountedAmount)

	all, err := repo.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetOrder(ctx, 3)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCollection_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewToppingRepository()

	const n = 50
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			top, _ := repo.CreateTopping(ctx, model.ToppingCreate{Name: "Milk", Price: 2})
			ids <- top.ID
		}()
	}

	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, n, repo.Count(ctx))
}
