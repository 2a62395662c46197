package services

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

// SeedFile representa el contenido de seedData.json
type SeedFile struct {
	SeedData SeedSettings `json:"seedData"`
}

// SeedSettings agrupa los datos iniciales; Enabled es true si se omite
type SeedSettings struct {
	Enabled  *bool                   `json:"enabled"`
	Messages []SeedMessage           `json:"messages"`
	Products []models.ProductRequest `json:"products"`
}

// SeedMessage es un mensaje inicial con antigüedad relativa
type SeedMessage struct {
	Message    string `json:"message"`
	MinutesAgo int    `json:"minutesAgo"`
}

// SeedService carga datos iniciales en un almacén vacío
type SeedService struct {
	path     string
	messages *database.MessageRepository
	products *database.ProductRepository
	catalog  *ProductService
	logger   *logrus.Logger
	now      func() time.Time
}

// NewSeedService crea una nueva instancia del servicio
func NewSeedService(path string, messages *database.MessageRepository, products *database.ProductRepository, catalog *ProductService, logger *logrus.Logger) *SeedService {
	return &SeedService{
		path:     path,
		messages: messages,
		products: products,
		catalog:  catalog,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Seed inserta los mensajes y productos del archivo solo si sus colecciones
// están vacías. Los errores se registran y no se propagan.
func (s *SeedService) Seed(ctx context.Context) {
	settings, ok := s.load()
	if !ok {
		return
	}

	s.seedMessages(ctx, settings.Messages)
	s.seedProducts(ctx, settings.Products)
}

func (s *SeedService) load() (*SeedSettings, bool) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.WithField("path", s.path).Info("Seed data file not found")
		return nil, false
	}
	if err != nil {
		s.logger.WithError(err).Error("Error reading seed data")
		return nil, false
	}

	var file SeedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		s.logger.WithError(err).Error("Error parsing seed data")
		return nil, false
	}
	if file.SeedData.Enabled != nil && !*file.SeedData.Enabled {
		s.logger.Info("Seed data is disabled in configuration")
		return nil, false
	}
	return &file.SeedData, true
}

func (s *SeedService) seedMessages(ctx context.Context, seeds []SeedMessage) {
	if len(seeds) == 0 {
		return
	}
	count, err := s.messages.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error checking messages before seeding")
		return
	}
	if count > 0 {
		return
	}

	now := s.now()
	messages := make([]models.MessageRecord, 0, len(seeds))
	for _, seed := range seeds {
		messages = append(messages, models.MessageRecord{
			ID:        uuid.New(),
			Message:   seed.Message,
			Timestamp: now.Add(-time.Duration(seed.MinutesAgo) * time.Minute),
		})
	}
	if err := s.messages.Insert(ctx, messages...); err != nil {
		s.logger.WithError(err).Error("Error seeding messages")
		return
	}
	s.logger.WithField("count", len(messages)).Info("Database seeded with sample messages")
}

func (s *SeedService) seedProducts(ctx context.Context, seeds []models.ProductRequest) {
	if len(seeds) == 0 {
		return
	}
	count, err := s.products.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error checking products before seeding")
		return
	}
	if count > 0 {
		return
	}

	created := 0
	for i := range seeds {
		if err := s.catalog.Create(ctx, seeds[i].ToProduct()); err != nil {
			s.logger.WithError(err).WithField("name", seeds[i].Name).Warn("Skipping seed product")
			continue
		}
		created++
	}
	s.logger.WithField("count", created).Info("Database seeded with sample products")
}
