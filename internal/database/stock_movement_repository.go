package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	movementsCollection = "stock_movements"
	productIDIndex      = "productId"
)

// StockMovementRepository guarda el historial de ajustes de stock
type StockMovementRepository struct {
	store  RecordStore
	logger *logrus.Logger
}

// NewStockMovementRepository crea el repositorio y asegura su índice por producto
func NewStockMovementRepository(ctx context.Context, store RecordStore, logger *logrus.Logger) (*StockMovementRepository, error) {
	if err := store.EnsureIndex(ctx, movementsCollection, productIDIndex); err != nil {
		return nil, fmt.Errorf("error ensuring movement index: %w", err)
	}
	return &StockMovementRepository{
		store:  store,
		logger: logger,
	}, nil
}

// Insert guarda un movimiento
func (r *StockMovementRepository) Insert(ctx context.Context, movement *models.StockMovement) error {
	data, err := json.Marshal(movement)
	if err != nil {
		return fmt.Errorf("error encoding stock movement: %w", err)
	}
	record := Record{
		ID:      movement.ID.String(),
		Data:    data,
		Indexes: map[string]string{productIDIndex: movement.ProductID.String()},
	}
	if err := r.store.Insert(ctx, movementsCollection, record); err != nil {
		return fmt.Errorf("error inserting stock movement: %w", err)
	}
	return nil
}

// ListByProduct obtiene los movimientos de un producto, del más reciente al más antiguo
func (r *StockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	rows, err := r.store.FindByIndex(ctx, movementsCollection, productIDIndex, productID.String())
	if err != nil {
		return nil, fmt.Errorf("error listing stock movements: %w", err)
	}

	movements := make([]models.StockMovement, 0, len(rows))
	for _, row := range rows {
		var movement models.StockMovement
		if err := json.Unmarshal(row, &movement); err != nil {
			return nil, fmt.Errorf("error decoding stock movement: %w", err)
		}
		movements = append(movements, movement)
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	return movements, nil
}
