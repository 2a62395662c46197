package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRecord representa un mensaje del tablero
type MessageRecord struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SaveMessageRequest representa el body de POST /messages
type SaveMessageRequest struct {
	Message string `json:"message"`
}
