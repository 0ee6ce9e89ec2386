package model

// EntityTopping используется в сообщениях об ошибках
const EntityTopping = "topping"

// Topping описывает топпинг из каталога
type Topping struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ToppingCreate содержит поля для создания топпинга
type ToppingCreate struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

// Validate проверяет корректность ToppingCreate на основе тегов validate
func (t *ToppingCreate) Validate() error {
	return validateStruct(t)
}

// ToppingUpdate содержит поля для частичного обновления топпинга
type ToppingUpdate struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" validate:"omitempty,gt=0"`
}

// Validate проверяет корректность ToppingUpdate на основе тегов validate
func (t *ToppingUpdate) Validate() error {
	return validateStruct(t)
}

// Apply переносит непустые поля обновления в топпинг
func (t ToppingUpdate) Apply(topping *Topping) {
	if t.Name != nil && *t.Name != "" {
		topping.Name = *t.Name
	}
	if t.Price != nil && *t.Price != 0 {
		topping.Price = *t.Price
	}
}
