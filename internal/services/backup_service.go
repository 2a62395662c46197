package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrBackupUnavailable indica que no hay snapshot o destino configurado
var ErrBackupUnavailable = errors.New("backup is not available")

// Snapshotter escribe una copia consistente del almacén
type Snapshotter interface {
	Snapshot(ctx context.Context, w io.Writer) (int64, error)
}

// Uploader sube un objeto y retorna su URL
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// BackupService respalda el archivo de datos en almacenamiento de objetos
type BackupService struct {
	source   Snapshotter
	uploader Uploader
	logger   *logrus.Logger
	now      func() time.Time
}

// NewBackupService crea una nueva instancia del servicio. source o uploader
// nil dejan el servicio deshabilitado.
func NewBackupService(source Snapshotter, uploader Uploader, logger *logrus.Logger) *BackupService {
	return &BackupService{
		source:   source,
		uploader: uploader,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Enabled indica si el servicio puede ejecutar respaldos
func (s *BackupService) Enabled() bool {
	return s.source != nil && s.uploader != nil
}

// Run toma un snapshot y lo sube con una clave con fecha
func (s *BackupService) Run(ctx context.Context) (*models.BackupResult, error) {
	if !s.Enabled() {
		return nil, ErrBackupUnavailable
	}

	var buf bytes.Buffer
	size, err := s.source.Snapshot(ctx, &buf)
	if err != nil {
		return nil, models.NewPersistenceError("snapshot store", err)
	}

	createdAt := s.now()
	key := fmt.Sprintf("backups/cashier-%s.db", createdAt.Format("20060102T150405Z"))

	url, err := s.uploader.Upload(ctx, key, "application/octet-stream", buf.Bytes())
	if err != nil {
		s.logger.WithError(err).Error("Error uploading backup")
		return nil, fmt.Errorf("error uploading backup: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":  key,
		"size": size,
	}).Info("Backup completed")

	return &models.BackupResult{Key: key, URL: url, Size: size, CreatedAt: createdAt}, nil
}
