package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

const activationCacheKey = "activation:status"

// Mensajes expuestos por la API de activación
const (
	msgActivationKeyRequired = "Clave de activación requerida"
	msgActivated             = "Aplicación activada exitosamente"
	msgActivationSaveFailed  = "Error al guardar la licencia"
	msgDeactivated           = "Aplicación desactivada exitosamente"
	msgInternalError         = "Error interno del servidor"
)

// ActivationCache guarda el estado de licencia entre consultas
type ActivationCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ActivationService maneja la licencia de la instalación
type ActivationService struct {
	repo     *database.ActivationRepository
	cache    ActivationCache
	duration time.Duration
	cacheTTL time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	// mu ordena las escrituras de la licencia con el llenado de la caché;
	// version cambia en cada escritura.
	mu      sync.Mutex
	version uint64
}

// NewActivationService crea una nueva instancia del servicio. cache puede ser nil.
func NewActivationService(repo *database.ActivationRepository, cache ActivationCache, cfg config.LicenseConfig, logger *logrus.Logger) *ActivationService {
	duration := cfg.Duration
	if duration <= 0 {
		duration = 365 * 24 * time.Hour
	}
	return &ActivationService{
		repo:     repo,
		cache:    cache,
		duration: duration,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Activate guarda una licencia nueva con vencimiento now + duración configurada.
// Una falla al guardar se registra y se informa con Success=false.
func (s *ActivationService) Activate(ctx context.Context, req *models.ActivationRequest) (*models.ActivationResponse, error) {
	if req == nil || strings.TrimSpace(req.ActivationKey) == "" {
		return nil, models.NewValidationError("activationKey", msgActivationKeyRequired)
	}

	now := s.now().Truncate(time.Second)
	expiration := now.Add(s.duration)
	status := &models.ActivationStatus{
		IsActivated:         true,
		ActivationKey:       strings.TrimSpace(req.ActivationKey),
		ActivatedAt:         &now,
		ExpirationDate:      &expiration,
		ComputerFingerprint: req.ComputerFingerprint,
		CreatedAt:           now,
		LastUpdatedAt:       now,
	}

	err := s.write(ctx, func() error { return s.repo.Save(ctx, status) })
	if err != nil {
		s.logger.WithError(err).Error("Error saving activation status")
		return &models.ActivationResponse{Success: false, Message: msgActivationSaveFailed}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"expiration_date": expiration,
		"has_fingerprint": status.ComputerFingerprint != "",
	}).Info("Application activated")

	return &models.ActivationResponse{
		Success:        true,
		Message:        msgActivated,
		ActivatedAt:    now.Format(models.ActivationTimeFormat),
		ExpirationDate: expiration.Format(models.ActivationTimeFormat),
	}, nil
}

// Deactivate elimina la licencia guardada
func (s *ActivationService) Deactivate(ctx context.Context) *models.ActivationResponse {
	err := s.write(ctx, func() error { return s.repo.Clear(ctx) })
	if err != nil {
		s.logger.WithError(err).Error("Error clearing activation status")
		return &models.ActivationResponse{Success: false, Message: msgInternalError}
	}

	s.logger.Info("Application deactivated")
	return &models.ActivationResponse{Success: true, Message: msgDeactivated}
}

// Status retorna el estado de licencia. Una licencia vencida o ilegible se
// informa como no activada.
func (s *ActivationService) Status(ctx context.Context) *models.ActivationStatusResponse {
	status, err := s.load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error checking activation status")
		return &models.ActivationStatusResponse{IsActivated: false}
	}
	if status == nil {
		return &models.ActivationStatusResponse{IsActivated: false}
	}

	response := &models.ActivationStatusResponse{
		IsActivated: status.IsActivated && !s.expired(status),
	}
	if status.ActivationKey != "" {
		response.ActivationKey = &status.ActivationKey
	}
	if status.ComputerFingerprint != "" {
		response.ComputerFingerprint = &status.ComputerFingerprint
	}
	response.ActivatedAt = formatActivationTime(status.ActivatedAt)
	response.ExpirationDate = formatActivationTime(status.ExpirationDate)
	return response
}

// RequireLicense retorna *models.ActivationError si la instalación no tiene
// una licencia válida para fingerprint. Un fingerprint vacío no se compara.
func (s *ActivationService) RequireLicense(ctx context.Context, fingerprint string) error {
	status, err := s.load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error checking activation status")
		return &models.ActivationError{Reason: "license state unavailable"}
	}
	if status == nil || !status.IsActivated {
		return &models.ActivationError{Reason: "application is not activated"}
	}
	if s.expired(status) {
		return &models.ActivationError{Reason: "license expired"}
	}
	if fingerprint != "" && status.ComputerFingerprint != "" && fingerprint != status.ComputerFingerprint {
		return &models.ActivationError{Reason: "license belongs to another device"}
	}
	return nil
}

// IsLicensed indica si la instalación tiene una licencia válida
func (s *ActivationService) IsLicensed(ctx context.Context, fingerprint string) bool {
	return s.RequireLicense(ctx, fingerprint) == nil
}

// expired usa now > expirationDate; la igualdad sigue siendo válida
func (s *ActivationService) expired(status *models.ActivationStatus) bool {
	if status.ExpirationDate == nil {
		return false
	}
	return s.now().After(*status.ExpirationDate)
}

func (s *ActivationService) load(ctx context.Context) (*models.ActivationStatus, error) {
	if s.cache != nil {
		var cached models.ActivationStatus
		err := s.cache.GetJSON(ctx, activationCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Activation cache unavailable")
		}
	}

	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	status, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && status != nil {
		s.fill(ctx, status, version)
	}
	return status, nil
}

// fill guarda status en la caché solo si no hubo escrituras desde que se leyó
func (s *ActivationService) fill(ctx context.Context, status *models.ActivationStatus, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != version {
		return
	}
	if err := s.cache.SetJSON(ctx, activationCacheKey, status, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Could not cache activation status")
	}
}

// write aplica fn e invalida la caché, aunque fn falle
func (s *ActivationService) write(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn()
	s.version++
	if s.cache != nil {
		if cerr := s.cache.Delete(ctx, activationCacheKey); cerr != nil {
			s.logger.WithError(cerr).Warn("Could not invalidate activation cache")
		}
	}
	return err
}

func formatActivationTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(models.ActivationTimeFormat)
	return &formatted
}
