package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

const messagesCollection = "messages"

// MessageRepository maneja el almacenamiento de mensajes del tablero
type MessageRepository struct {
	store  RecordStore
	logger *logrus.Logger
}

// NewMessageRepository crea una nueva instancia del repositorio
func NewMessageRepository(store RecordStore, logger *logrus.Logger) *MessageRepository {
	return &MessageRepository{
		store:  store,
		logger: logger,
	}
}

// Insert guarda uno o más mensajes en una sola transacción
func (r *MessageRepository) Insert(ctx context.Context, messages ...models.MessageRecord) error {
	records := make([]Record, 0, len(messages))
	for _, message := range messages {
		data, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("error encoding message: %w", err)
		}
		records = append(records, Record{ID: message.ID.String(), Data: data})
	}
	if err := r.store.Insert(ctx, messagesCollection, records...); err != nil {
		return fmt.Errorf("error inserting messages: %w", err)
	}
	return nil
}

// List obtiene los mensajes del más reciente al más antiguo
func (r *MessageRepository) List(ctx context.Context) ([]models.MessageRecord, error) {
	rows, err := r.store.FindAll(ctx, messagesCollection)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	messages := make([]models.MessageRecord, 0, len(rows))
	for _, row := range rows {
		var message models.MessageRecord
		if err := json.Unmarshal(row, &message); err != nil {
			return nil, fmt.Errorf("error decoding message: %w", err)
		}
		messages = append(messages, message)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
	return messages, nil
}

// Count retorna la cantidad de mensajes
func (r *MessageRepository) Count(ctx context.Context) (int, error) {
	count, err := r.store.Count(ctx, messagesCollection)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}
