package models

import (
	"errors"
	"fmt"
)

// Categorías de error del dominio. Usar errors.Is contra estos valores.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrActivation  = errors.New("activation required")
)

// ValidationError indica un dato de entrada inválido. Se produce antes de
// tocar el almacenamiento.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError crea un error de validación para un campo
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError indica que el recurso referenciado no existe
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError envuelve una falla del almacenamiento
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError envuelve err indicando la operación que falló
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// ActivationError indica que la aplicación no tiene una licencia válida
type ActivationError struct {
	Reason string
}

func (e *ActivationError) Error() string {
	return "activation required: " + e.Reason
}

func (e *ActivationError) Is(target error) bool {
	return target == ErrActivation
}
