package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

// MessageService maneja el tablero de mensajes
type MessageService struct {
	repo   *database.MessageRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewMessageService crea una nueva instancia del servicio
func NewMessageService(repo *database.MessageRepository, logger *logrus.Logger) *MessageService {
	return &MessageService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save guarda un mensaje nuevo
func (s *MessageService) Save(ctx context.Context, text string) (*models.MessageRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("message", "message cannot be empty")
	}

	message := models.MessageRecord{
		ID:        uuid.New(),
		Message:   text,
		Timestamp: s.now(),
	}
	if err := s.repo.Insert(ctx, message); err != nil {
		s.logger.WithError(err).Error("Error saving message")
		return nil, models.NewPersistenceError("save message", err)
	}

	s.logger.WithField("message_id", message.ID).Info("Message saved")
	return &message, nil
}

// List obtiene los mensajes del más reciente al más antiguo
func (s *MessageService) List(ctx context.Context) ([]models.MessageRecord, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("list messages", err)
	}
	return messages, nil
}
