package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	productsCollection = "products"
	barCodeIndex       = "barCode"
)

// StockFunc recibe el stock almacenado y retorna el nuevo valor
type StockFunc func(current int) (int, error)

// ProductRepository maneja las operaciones de almacenamiento para Product
type ProductRepository struct {
	store        RecordStore
	logger       *logrus.Logger
	barCodeReady atomic.Bool
}

// NewProductRepository crea una nueva instancia del repositorio
func NewProductRepository(store RecordStore, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		store:  store,
		logger: logger,
	}
}

func productRecord(product *models.Product) (Record, error) {
	data, err := json.Marshal(product)
	if err != nil {
		return Record{}, fmt.Errorf("error encoding product: %w", err)
	}
	return Record{
		ID:   product.ID.String(),
		Data: data,
		Indexes: map[string]string{
			barCodeIndex: product.BarCode,
			"isActive":   strconv.FormatBool(product.IsActive),
		},
	}, nil
}

func decodeProduct(data []byte) (*models.Product, error) {
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("error decoding product: %w", err)
	}
	return &product, nil
}

// ListActive obtiene los productos activos ordenados por nombre (orden ordinal)
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	rows, err := r.store.FindAll(ctx, productsCollection)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		product, err := decodeProduct(row)
		if err != nil {
			return nil, err
		}
		if product.IsActive {
			products = append(products, *product)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

// GetByID obtiene un producto por ID sin filtrar por estado. Retorna nil si no existe.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	data, err := r.store.FindByID(ctx, productsCollection, id.String())
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting product %s: %w", id, err)
	}
	return decodeProduct(data)
}

// GetByBarcode obtiene el primer producto activo con el código de barras indicado
func (r *ProductRepository) GetByBarcode(ctx context.Context, barCode string) (*models.Product, error) {
	if err := r.ensureBarCodeIndex(ctx); err != nil {
		return nil, err
	}

	rows, err := r.store.FindByIndex(ctx, productsCollection, barCodeIndex, barCode)
	if err != nil {
		return nil, fmt.Errorf("error querying product by barcode: %w", err)
	}

	for _, row := range rows {
		product, err := decodeProduct(row)
		if err != nil {
			return nil, err
		}
		if product.IsActive {
			return product, nil
		}
	}

	return nil, nil
}

func (r *ProductRepository) ensureBarCodeIndex(ctx context.Context) error {
	if r.barCodeReady.Load() {
		return nil
	}
	if err := r.store.EnsureIndex(ctx, productsCollection, barCodeIndex); err != nil {
		return fmt.Errorf("error ensuring barcode index: %w", err)
	}
	r.barCodeReady.Store(true)
	return nil
}

// Insert guarda un producto nuevo
func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	record, err := productRecord(product)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, productsCollection, record); err != nil {
		return fmt.Errorf("error inserting product: %w", err)
	}
	return nil
}

// Update reemplaza los campos editables conservando el ID y la fecha de
// creación almacenados. Retorna ErrRecordNotFound si no existe.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	err := r.store.Modify(ctx, productsCollection, product.ID.String(), func(data []byte) (Record, error) {
		stored, err := decodeProduct(data)
		if err != nil {
			return Record{}, err
		}
		product.ID = stored.ID
		product.CreationDate = stored.CreationDate
		return productRecord(product)
	})
	if err != nil {
		return fmt.Errorf("error updating product: %w", err)
	}
	return nil
}

// AdjustStock aplica fn al stock almacenado dentro de una sola transacción.
// Solo cambian stock y lastUpdateDate. Retorna el producto resultante y el
// stock anterior.
func (r *ProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, fn StockFunc, at time.Time) (*models.Product, int, error) {
	var (
		updated  *models.Product
		previous int
	)

	err := r.store.Modify(ctx, productsCollection, id.String(), func(data []byte) (Record, error) {
		product, err := decodeProduct(data)
		if err != nil {
			return Record{}, err
		}
		next, err := fn(product.Stock)
		if err != nil {
			return Record{}, err
		}
		previous = product.Stock
		product.Stock = next
		product.LastUpdateDate = at
		updated = product
		return productRecord(product)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error adjusting stock: %w", err)
	}

	return updated, previous, nil
}

// SoftDelete marca el producto como inactivo. Retorna false si no existe.
func (r *ProductRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	err := r.store.Modify(ctx, productsCollection, id.String(), func(data []byte) (Record, error) {
		product, err := decodeProduct(data)
		if err != nil {
			return Record{}, err
		}
		product.IsActive = false
		product.LastUpdateDate = at
		return productRecord(product)
	})
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error deleting product: %w", err)
	}
	return true, nil
}

// Count retorna la cantidad total de productos, activos o no
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx, productsCollection)
}
