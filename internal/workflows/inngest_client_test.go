package workflows

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	events []inngestgo.Event
	err    error
}

func (r *recordingSender) Send(_ context.Context, evt any) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.events = append(r.events, evt.(inngestgo.Event))
	return "evt-1", nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleAdjustment(low bool) *models.StockAdjustment {
	return &models.StockAdjustment{
		ProductID:     uuid.New(),
		ProductName:   "Arroz",
		UnitType:      "Kg",
		Operation:     models.StockOperationAdd,
		Quantity:      3,
		PreviousStock: 1,
		NewStock:      4,
		LowStock:      low,
		AdjustedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStockAdjustedSendsEvent(t *testing.T) {
	sender := &recordingSender{}
	client := newInngestClientWithSender(sender, quietLogger())

	adjustment := sampleAdjustment(false)
	require.NoError(t, client.StockAdjusted(context.Background(), adjustment))

	require.Len(t, sender.events, 1)
	evt := sender.events[0]
	assert.Equal(t, EventStockAdjusted, evt.Name)
	assert.Equal(t, adjustment.ProductID.String(), evt.Data["productId"])
	assert.Equal(t, 4, evt.Data["newStock"])
	assert.Equal(t, "add", evt.Data["operationType"])
	assert.Equal(t, adjustment.AdjustedAt.UnixMilli(), evt.Timestamp)
}

func TestStockAdjustedLowStockSendsSecondEvent(t *testing.T) {
	sender := &recordingSender{}
	client := newInngestClientWithSender(sender, quietLogger())

	require.NoError(t, client.StockAdjusted(context.Background(), sampleAdjustment(true)))

	require.Len(t, sender.events, 2)
	assert.Equal(t, EventStockAdjusted, sender.events[0].Name)
	assert.Equal(t, EventLowStock, sender.events[1].Name)
}

func TestStockAdjustedPropagatesSendError(t *testing.T) {
	client := newInngestClientWithSender(&recordingSender{err: errors.New("boom")}, quietLogger())

	err := client.StockAdjusted(context.Background(), sampleAdjustment(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EventStockAdjusted)
}

func TestNewInngestClientRequiresEventKey(t *testing.T) {
	cfg := &config.Config{Inngest: config.InngestConfig{AppID: "cashier-service"}}

	_, err := NewInngestClient(cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INNGEST_EVENT_KEY")
}
