package model

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct проверяет структуру по тегам validate
// ошибка валидации приводится к InvalidRequestError, чтобы транспорт мог отдать 422
func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return NewInvalidRequest("%s", err.Error())
	}
	return nil
}
