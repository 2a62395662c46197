package stockform

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTotal(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Stock: 10}

	tests := []struct {
		name     string
		product  *models.Product
		op       models.StockOperation
		quantity int
		want     int
	}{
		{"add", product, models.StockOperationAdd, 5, 15},
		{"replace", product, models.StockOperationReplace, 15, 15},
		{"add zero", product, models.StockOperationAdd, 0, 0},
		{"replace zero", product, models.StockOperationReplace, 0, 0},
		{"negative", product, models.StockOperationAdd, -1, 0},
		{"nil product", nil, models.StockOperationAdd, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTotal(tt.product, tt.op, tt.quantity))
		})
	}
}

func TestFormQuantityClamped(t *testing.T) {
	form := New(&models.Product{Stock: 10})
	form.SetQuantity(-1)
	assert.Equal(t, 0, form.Quantity())
	assert.Equal(t, 0, form.NewTotal())
	assert.False(t, form.IsValid())
}

func TestFormValidity(t *testing.T) {
	form := New(nil)
	form.SetQuantity(3)
	assert.False(t, form.IsValid())

	form.SetProduct(&models.Product{Stock: 1})
	assert.True(t, form.IsValid())
}

func TestFormSubmit(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Stock: 10, UnitType: "Kg"}
	form := New(product)
	form.SetOperation(models.StockOperationAdd)

	var emitted []Submission
	assert.False(t, form.Submit(func(s Submission) { emitted = append(emitted, s) }))
	assert.Empty(t, emitted)

	form.SetQuantity(5)
	require.True(t, form.Submit(func(s Submission) { emitted = append(emitted, s) }))
	require.Len(t, emitted, 1)
	assert.Equal(t, Submission{ProductID: product.ID, OperationType: models.StockOperationAdd, Quantity: 5, NewTotal: 15}, emitted[0])

	assert.Equal(t, 0, form.Quantity())
	assert.Equal(t, models.StockOperationAdd, form.Operation())

	req := emitted[0].Request()
	assert.Equal(t, "add", req.OperationType)
	require.NotNil(t, req.Quantity)
	assert.Equal(t, 5, *req.Quantity)
	assert.Nil(t, req.NewTotal)
}

func TestFormOperationAndReset(t *testing.T) {
	form := New(&models.Product{Stock: 2})
	assert.Equal(t, models.StockOperationReplace, form.Operation())

	form.SetOperation("bogus")
	assert.Equal(t, models.StockOperationReplace, form.Operation())

	form.SetOperation("replace")
	assert.Equal(t, models.StockOperationReplace, form.Operation())

	form.SetOperation(models.StockOperationAdd)
	form.SetQuantity(4)
	form.Reset()
	assert.Equal(t, models.StockOperationReplace, form.Operation())
	assert.Equal(t, 0, form.Quantity())
}

func TestFormUnitLabels(t *testing.T) {
	form := New(&models.Product{Stock: 1, UnitType: "Unit"})
	assert.Equal(t, "Unidad", form.UnitLabel())

	form.SetOperation(models.StockOperationAdd)
	form.SetQuantity(4)
	assert.Equal(t, "Unidades", form.NewTotalUnitLabel())

	form.SetOperation(models.StockOperationReplace)
	form.SetQuantity(1)
	assert.Equal(t, "Unidad", form.NewTotalUnitLabel())

	assert.Equal(t, "", New(nil).UnitLabel())
}
