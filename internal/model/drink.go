package model

import "slices"

// EntityDrink используется в сообщениях об ошибках
const EntityDrink = "drink"

// Drink описывает напиток из каталога
// Toppings хранит id топпингов, которые не сверяются с каталогом при создании
type Drink struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Toppings []int   `json:"toppings"`
}

// DrinkCreate содержит поля для создания напитка
type DrinkCreate struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Toppings []int   `json:"toppings"`
}

// Validate проверяет корректность DrinkCreate на основе тегов validate
func (d *DrinkCreate) Validate() error {
	return validateStruct(d)
}

// DrinkUpdate содержит поля для частичного обновления напитка
// пустые и отсутствующие поля оставляют текущее значение без изменений
type DrinkUpdate struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Toppings []int    `json:"toppings"`
}

// Validate проверяет корректность DrinkUpdate на основе тегов validate
func (d *DrinkUpdate) Validate() error {
	return validateStruct(d)
}

// Apply переносит непустые поля обновления в напиток
func (d DrinkUpdate) Apply(drink *Drink) {
	if d.Name != nil && *d.Name != "" {
		drink.Name = *d.Name
	}
	if d.Price != nil && *d.Price != 0 {
		drink.Price = *d.Price
	}
	if len(d.Toppings) > 0 {
		drink.Toppings = slices.Clone(d.Toppings)
	}
}

// Clone возвращает копию напитка, не разделяющую срез Toppings с оригиналом
func (d Drink) Clone() Drink {
	d.Toppings = slices.Clone(d.Toppings)
	if d.Toppings == nil {
		d.Toppings = []int{}
	}
	return d
}
