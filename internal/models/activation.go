package models

import "time"

// ActivationStatus representa el registro único de licencia de la instalación
type ActivationStatus struct {
	ID                  string     `json:"id"`
	IsActivated         bool       `json:"isActivated"`
	ActivationKey       string     `json:"activationKey,omitempty"`
	ActivatedAt         *time.Time `json:"activatedAt,omitempty"`
	ExpirationDate      *time.Time `json:"expirationDate,omitempty"`
	ComputerFingerprint string     `json:"computerFingerprint,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastUpdatedAt       time.Time  `json:"lastUpdatedAt"`
}

// ActivationRequest representa el body de POST /activation/activate
type ActivationRequest struct {
	ActivationKey       string `json:"activationKey"`
	ComputerFingerprint string `json:"computerFingerprint"`
}

// ActivationResponse representa la respuesta de activación
type ActivationResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ActivatedAt    string `json:"activatedAt,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

// ActivationStatusResponse representa la respuesta de GET /activation/status
type ActivationStatusResponse struct {
	IsActivated         bool    `json:"isActivated"`
	ActivationKey       *string `json:"activationKey"`
	ActivatedAt         *string `json:"activatedAt"`
	ExpirationDate      *string `json:"expirationDate"`
	ComputerFingerprint *string `json:"computerFingerprint"`
}

// ActivationTimeFormat es el formato de fechas expuesto por la API de activación
const ActivationTimeFormat = "2006-01-02T15:04:05Z"
