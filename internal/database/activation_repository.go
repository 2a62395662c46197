package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	activationCollection = "activation"
	// ActivationRecordID es el ID fijo del registro único de licencia
	ActivationRecordID = "license"
)

// ActivationRepository persiste el estado de activación como registro único
type ActivationRepository struct {
	store  RecordStore
	logger *logrus.Logger
}

// NewActivationRepository crea una nueva instancia del repositorio
func NewActivationRepository(store RecordStore, logger *logrus.Logger) *ActivationRepository {
	return &ActivationRepository{
		store:  store,
		logger: logger,
	}
}

// Get retorna el estado almacenado o nil si la instalación nunca se activó
func (r *ActivationRepository) Get(ctx context.Context) (*models.ActivationStatus, error) {
	rows, err := r.store.FindAll(ctx, activationCollection)
	if err != nil {
		return nil, fmt.Errorf("error reading activation status: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var status models.ActivationStatus
	if err := json.Unmarshal(rows[0], &status); err != nil {
		return nil, fmt.Errorf("error decoding activation status: %w", err)
	}
	return &status, nil
}

// Save reemplaza el estado almacenado por status
func (r *ActivationRepository) Save(ctx context.Context, status *models.ActivationStatus) error {
	status.ID = ActivationRecordID
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("error encoding activation status: %w", err)
	}
	if err := r.store.ReplaceAll(ctx, activationCollection, Record{ID: status.ID, Data: data}); err != nil {
		return fmt.Errorf("error saving activation status: %w", err)
	}
	return nil
}

// Clear elimina el estado almacenado
func (r *ActivationRepository) Clear(ctx context.Context) error {
	if err := r.store.DeleteAll(ctx, activationCollection); err != nil {
		return fmt.Errorf("error clearing activation status: %w", err)
	}
	return nil
}
