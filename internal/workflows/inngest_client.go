package workflows

import (
	"context"
	"fmt"

	"github.com/hypernova-labs/cashier-service/internal/config"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/inngest/inngestgo"
	"github.com/sirupsen/logrus"
)

// Eventos publicados por el servicio
const (
	EventStockAdjusted = "inventory/stock.adjusted"
	EventLowStock      = "inventory/stock.low"
)

// eventSender es la parte del cliente de Inngest que usa el notificador
type eventSender interface {
	Send(ctx context.Context, evt any) (string, error)
}

// InngestClient publica los ajustes de stock como eventos de Inngest
type InngestClient struct {
	sender eventSender
	logger *logrus.Logger
}

// NewInngestClient crea una nueva instancia del cliente
func NewInngestClient(cfg *config.Config, logger *logrus.Logger) (*InngestClient, error) {
	// Verificar que las credenciales estén configuradas
	if cfg.Inngest.EventKey == "" {
		return nil, fmt.Errorf("INNGEST_EVENT_KEY not configured")
	}

	if !cfg.Inngest.Dev && cfg.Inngest.SigningKey == "" {
		return nil, fmt.Errorf("INNGEST_SIGNING_KEY not configured")
	}

	dev := cfg.Inngest.Dev
	client, err := inngestgo.NewClient(inngestgo.ClientOpts{
		EventKey:   &cfg.Inngest.EventKey,
		SigningKey: &cfg.Inngest.SigningKey,
		AppID:      cfg.Inngest.AppID,
		Dev:        &dev,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating Inngest client: %w", err)
	}

	return &InngestClient{
		sender: client,
		logger: logger,
	}, nil
}

// newInngestClientWithSender se usa en pruebas para capturar los eventos
func newInngestClientWithSender(sender eventSender, logger *logrus.Logger) *InngestClient {
	return &InngestClient{sender: sender, logger: logger}
}

// StockAdjusted publica el ajuste y, si el stock quedó bajo el umbral, un
// segundo evento de stock bajo
func (c *InngestClient) StockAdjusted(ctx context.Context, adjustment *models.StockAdjustment) error {
	if adjustment == nil {
		return nil
	}

	events := []inngestgo.Event{stockEvent(EventStockAdjusted, adjustment)}
	if adjustment.LowStock {
		events = append(events, stockEvent(EventLowStock, adjustment))
	}

	for _, evt := range events {
		id, err := c.sender.Send(ctx, evt)
		if err != nil {
			return fmt.Errorf("error sending %s event: %w", evt.Name, err)
		}
		c.logger.WithFields(logrus.Fields{
			"event":      evt.Name,
			"event_id":   id,
			"product_id": adjustment.ProductID,
			"new_stock":  adjustment.NewStock,
		}).Debug("Inventory event sent")
	}

	return nil
}

func stockEvent(name string, adjustment *models.StockAdjustment) inngestgo.Event {
	return inngestgo.Event{
		Name: name,
		Data: map[string]any{
			"productId":     adjustment.ProductID.String(),
			"productName":   adjustment.ProductName,
			"unitType":      adjustment.UnitType,
			"operationType": string(adjustment.Operation),
			"quantity":      adjustment.Quantity,
			"previousStock": adjustment.PreviousStock,
			"newStock":      adjustment.NewStock,
			"lowStock":      adjustment.LowStock,
		},
		Timestamp: adjustment.AdjustedAt.UnixMilli(),
	}
}
