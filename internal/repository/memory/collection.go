// Package memory содержит потокобезопасные in-memory хранилища каталога и заказов
package memory

import (
	"sync"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// collection хранит записи в порядке вставки и выдаёт им id из монотонного счётчика
// id не переиспользуются после удаления, в отличие от схемы "размер + 1"
type collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	nextID int
	entity string
	id     func(T) int
	clone  func(T) T
}

func newCollection[T any](entity string, id func(T) int, clone func(T) T) *collection[T] {
	return &collection[T]{
		nextID: 1,
		entity: entity,
		id:     id,
		clone:  clone,
	}
}

// insert выделяет следующий id, строит запись через build и добавляет её в конец
func (c *collection[T]) insert(build func(id int) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := build(c.nextID)
	c.nextID++
	c.items = append(c.items, item)

	return c.clone(item)
}

// get ищет запись линейным проходом
func (c *collection[T]) get(id int) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, model.NewNotFound(c.entity, id)
	}
	return c.clone(c.items[i]), nil
}

// list возвращает срез [skip, skip+limit), выходящие за границы значения молча обрезаются
func (c *collection[T]) list(skip, limit int) ([]T, error) {
	if skip < 0 || limit < 0 {
		return nil, model.NewInvalidRequest("skip and limit must be non-negative, got skip=%d limit=%d", skip, limit)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	start := min(skip, len(c.items))
	end := start + min(limit, len(c.items)-start)

	out := make([]T, 0, end-start)
	for _, item := range c.items[start:end] {
		out = append(out, c.clone(item))
	}
	return out, nil
}

// all возвращает копию всего содержимого
func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.clone(item))
	}
	return out
}

// update применяет mutate к найденной записи на месте
// если записи нет, ничего не меняется
func (c *collection[T]) update(id int, mutate func(*T)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, model.NewNotFound(c.entity, id)
	}
	mutate(&c.items[i])
	return c.clone(c.items[i]), nil
}

// remove удаляет запись и возвращает её
func (c *collection[T]) remove(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		var zero T
		return zero, model.NewNotFound(c.entity, id)
	}
	item := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.clone(item), nil
}

func (c *collection[T]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// indexOf вызывается под блокировкой
func (c *collection[T]) indexOf(id int) int {
	for i, item := range c.items {
		if c.id(item) == id {
			return i
		}
	}
	return -1
}
