package services

import "context"

// CategoryProvider enumera las categorías de producto disponibles
type CategoryProvider interface {
	ListCategories(ctx context.Context) ([]string, error)
}

// StaticCategories es un CategoryProvider sobre una lista fija
type StaticCategories []string

// ListCategories retorna una copia de la lista
func (c StaticCategories) ListCategories(ctx context.Context) ([]string, error) {
	return append([]string{}, c...), nil
}
