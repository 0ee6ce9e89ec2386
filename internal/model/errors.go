package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возвращается, когда запись с указанным id не найдена
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest возвращается для некорректных входных данных
	ErrInvalidRequest = errors.New("invalid request")
)

// NotFoundError указывает, какая именно запись не найдена
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// Unwrap позволяет сравнивать ошибку через errors.Is(err, ErrNotFound)
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidRequestError описывает, что именно не так с запросом
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// Unwrap позволяет сравнивать ошибку через errors.Is(err, ErrInvalidRequest)
func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// NewInvalidRequest создаёт ошибку с причиной, отформатированной по format
func NewInvalidRequest(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// NewNotFound создаёт ошибку для сущности entity с идентификатором id
func NewNotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}
