package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

// StockNotifier recibe cada ajuste de stock aplicado
type StockNotifier interface {
	StockAdjusted(ctx context.Context, adjustment *models.StockAdjustment) error
}

// ProductService maneja la lógica de negocio para Product
type ProductService struct {
	productRepo       *database.ProductRepository
	movementRepo      *database.StockMovementRepository
	notifiers         []StockNotifier
	lowStockThreshold int
	logger            *logrus.Logger
	now               func() time.Time
}

// NewProductService crea una nueva instancia del servicio. movementRepo puede ser nil.
func NewProductService(productRepo *database.ProductRepository, movementRepo *database.StockMovementRepository, lowStockThreshold int, logger *logrus.Logger) *ProductService {
	return &ProductService{
		productRepo:       productRepo,
		movementRepo:      movementRepo,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// AddNotifier registra un observador de ajustes de stock
func (s *ProductService) AddNotifier(notifier StockNotifier) {
	s.notifiers = append(s.notifiers, notifier)
}

// Create valida y guarda un producto nuevo. Asigna ID y fechas sobre product.
func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.checkBarcodeAvailable(ctx, product.BarCode, uuid.Nil); err != nil {
		return err
	}

	now := s.now()
	product.ID = uuid.New()
	product.CreationDate = now
	product.LastUpdateDate = now

	if err := s.productRepo.Insert(ctx, product); err != nil {
		s.logger.WithError(err).Error("Error creating product")
		return models.NewPersistenceError("create product", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"bar_code":   product.BarCode,
		"name":       product.Name,
		"price":      product.Price,
	}).Info("Product created successfully")

	return nil
}

// Update valida y reemplaza un producto existente. La fecha de creación
// almacenada se conserva.
func (s *ProductService) Update(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.checkBarcodeAvailable(ctx, product.BarCode, product.ID); err != nil {
		return err
	}

	product.LastUpdateDate = s.now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return s.mapStoreError("update product", product.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price,
	}).Info("Product updated successfully")

	return nil
}

// AdjustStock recalcula el stock con el valor almacenado: reemplazo fija
// quantity y suma agrega quantity al stock actual.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, op models.StockOperation, quantity int) (*models.StockAdjustment, error) {
	operation, ok := models.ParseStockOperation(string(op))
	if !ok {
		return nil, models.NewValidationError("operationType", "operation type must be 'update' or 'add'")
	}
	if quantity < 0 {
		return nil, models.NewValidationError("quantity", "stock cannot be negative")
	}

	at := s.now()
	product, previous, err := s.productRepo.AdjustStock(ctx, id, func(current int) (int, error) {
		if operation == models.StockOperationAdd {
			if quantity > math.MaxInt-current {
				return 0, models.NewValidationError("quantity", "resulting stock is too large")
			}
			return current + quantity, nil
		}
		return quantity, nil
	}, at)
	if err != nil {
		return nil, s.mapStoreError("adjust stock", id, err)
	}

	adjustment := &models.StockAdjustment{
		ProductID:     product.ID,
		ProductName:   product.Name,
		UnitType:      product.UnitType,
		Operation:     operation,
		Quantity:      quantity,
		PreviousStock: previous,
		NewStock:      product.Stock,
		LowStock:      product.Stock <= s.lowStockThreshold,
		AdjustedAt:    at,
	}

	s.logger.WithFields(logrus.Fields{
		"product_id":     id,
		"operation":      operation,
		"quantity":       quantity,
		"previous_stock": previous,
		"new_stock":      product.Stock,
	}).Info("Product stock updated successfully")

	s.recordMovement(ctx, adjustment)
	s.notify(ctx, adjustment)

	return adjustment, nil
}

// SetStock fija el stock a newStock
func (s *ProductService) SetStock(ctx context.Context, id uuid.UUID, newStock int) (*models.StockAdjustment, error) {
	return s.AdjustStock(ctx, id, models.StockOperationReplace, newStock)
}

// SoftDelete marca el producto como inactivo. Un ID inexistente no es error.
func (s *ProductService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.SoftDelete(ctx, id, s.now())
	if err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("Error deleting product")
		return models.NewPersistenceError("delete product", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": id,
		"found":      deleted,
	}).Info("Product deleted successfully")

	return nil
}

// GetActive obtiene los productos activos ordenados por nombre
func (s *ProductService) GetActive(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("list products", err)
	}
	return products, nil
}

// GetByID obtiene un producto por ID, activo o no. Retorna nil si no existe.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewPersistenceError("get product", err)
	}
	return product, nil
}

// GetByBarcode obtiene el producto activo con ese código. Retorna nil si no existe.
func (s *ProductService) GetByBarcode(ctx context.Context, barCode string) (*models.Product, error) {
	if strings.TrimSpace(barCode) == "" {
		return nil, models.NewValidationError("barCode", "barcode cannot be empty")
	}
	product, err := s.productRepo.GetByBarcode(ctx, barCode)
	if err != nil {
		return nil, models.NewPersistenceError("get product by barcode", err)
	}
	return product, nil
}

// Movements obtiene el historial de ajustes de un producto
func (s *ProductService) Movements(ctx context.Context, id uuid.UUID) ([]models.StockMovement, error) {
	if s.movementRepo == nil {
		return []models.StockMovement{}, nil
	}
	movements, err := s.movementRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, models.NewPersistenceError("list stock movements", err)
	}
	return movements, nil
}

func (s *ProductService) checkBarcodeAvailable(ctx context.Context, barCode string, id uuid.UUID) error {
	if barCode == "" {
		return nil
	}
	existing, err := s.productRepo.GetByBarcode(ctx, barCode)
	if err != nil {
		return models.NewPersistenceError("check barcode", err)
	}
	if existing != nil && existing.ID != id {
		return models.NewValidationError("barCode", "barcode is already used by another product")
	}
	return nil
}

func (s *ProductService) mapStoreError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, database.ErrRecordNotFound) {
		return &models.NotFoundError{Resource: "product", ID: id.String()}
	}
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	s.logger.WithError(err).WithField("product_id", id).Errorf("Error on %s", op)
	return models.NewPersistenceError(op, err)
}

func (s *ProductService) recordMovement(ctx context.Context, adjustment *models.StockAdjustment) {
	if s.movementRepo == nil {
		return
	}
	movement := &models.StockMovement{
		ID:            uuid.New(),
		ProductID:     adjustment.ProductID,
		Operation:     adjustment.Operation,
		Quantity:      adjustment.Quantity,
		PreviousStock: adjustment.PreviousStock,
		NewStock:      adjustment.NewStock,
		CreatedAt:     adjustment.AdjustedAt,
	}
	if err := s.movementRepo.Insert(ctx, movement); err != nil {
		s.logger.WithError(err).WithField("product_id", adjustment.ProductID).Warn("Could not record stock movement")
	}
}

func (s *ProductService) notify(ctx context.Context, adjustment *models.StockAdjustment) {
	for _, notifier := range s.notifiers {
		if err := notifier.StockAdjusted(ctx, adjustment); err != nil {
			s.logger.WithError(err).WithField("product_id", adjustment.ProductID).Warn("Stock notifier failed")
		}
	}
}

// validateProduct valida los datos del producto
func validateProduct(product *models.Product) error {
	if product == nil {
		return models.NewValidationError("product", "product is required")
	}
	if product.Name == "" {
		return models.NewValidationError("name", "product name cannot be empty")
	}
	if strings.TrimSpace(product.Name) == "" {
		return models.NewValidationError("name", "product name cannot be blank")
	}
	if product.Price < 0 {
		return models.NewValidationError("price", "product price cannot be negative")
	}
	if product.Stock < 0 {
		return models.NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}
