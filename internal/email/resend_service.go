package email

import (
	"context"
	"fmt"
	"html"

	"github.com/hypernova-labs/cashier-service/internal/locale"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// emailSender es la parte del cliente de Resend que usa el servicio
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendService envía las alertas de stock bajo usando Resend API
type ResendService struct {
	emails    emailSender
	fromEmail string
	recipient string
	baseURL   string
	logger    *logrus.Logger
}

// NewResendService crea una nueva instancia de ResendService
func NewResendService(apiKey, fromEmail, recipient, baseURL string, logger *logrus.Logger) *ResendService {
	client := resend.NewClient(apiKey)
	return &ResendService{
		emails:    client.Emails,
		fromEmail: fromEmail,
		recipient: recipient,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// StockAdjusted envía una alerta cuando el ajuste deja el producto con stock bajo.
// Sin destinatario configurado no hace nada.
func (s *ResendService) StockAdjusted(ctx context.Context, adjustment *models.StockAdjustment) error {
	if adjustment == nil || !adjustment.LowStock || s.recipient == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	unit := locale.MapUnitType(adjustment.UnitType, adjustment.NewStock)
	subject := fmt.Sprintf("Stock bajo: %s", adjustment.ProductName)

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #c0392b; color: white; padding: 16px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .footer { text-align: center; padding: 16px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Alerta de stock bajo</h2>
        </div>
        <div class="content">
            <p><strong>Producto:</strong> %s</p>
            <p><strong>Stock anterior:</strong> %s %s</p>
            <p><strong>Stock actual:</strong> %s %s</p>
            <p><strong>Fecha:</strong> %s</p>
            <p><a href="%s/api/products/%s">Ver producto</a></p>
        </div>
        <div class="footer">
            <p>Este es un email automático del sistema de caja.</p>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(adjustment.ProductName),
		locale.FormatNumber(adjustment.PreviousStock),
		html.EscapeString(locale.MapUnitType(adjustment.UnitType, adjustment.PreviousStock)),
		locale.FormatNumber(adjustment.NewStock),
		html.EscapeString(unit),
		adjustment.AdjustedAt.Format("02/01/2006 15:04"),
		s.baseURL,
		adjustment.ProductID)

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.recipient},
		Subject: subject,
		Html:    htmlContent,
	}

	result, err := s.emails.Send(request)
	if err != nil {
		return fmt.Errorf("error sending email via Resend: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email_id":   result.Id,
		"to":         s.recipient,
		"product_id": adjustment.ProductID,
	}).Info("Low stock alert sent via Resend")

	return nil
}
