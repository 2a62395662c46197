package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/locale"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

// InventoryReport genera el reporte PDF de inventario
type InventoryReport struct {
	products          *ProductService
	lowStockThreshold int
	logger            *logrus.Logger
	now               func() time.Time
}

// NewInventoryReport crea una nueva instancia del generador
func NewInventoryReport(products *ProductService, lowStockThreshold int, logger *logrus.Logger) *InventoryReport {
	return &InventoryReport{
		products:          products,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
		now:               time.Now,
	}
}

// Generate genera el PDF con los productos activos
func (r *InventoryReport) Generate(ctx context.Context) ([]byte, error) {
	products, err := r.products.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	data, err := r.render(products)
	if err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"products": len(products),
		"size":     len(data),
	}).Info("Inventory report generated")

	return data, nil
}

func (r *InventoryReport) render(products []models.Product) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Encabezado
	pdf.SetFillColor(41, 128, 185)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(190, 12, tr("INVENTARIO"))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(190, 8, fmt.Sprintf("Fecha: %s", r.now().Format("02/01/2006 15:04")))

	pdf.SetY(40)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFillColor(236, 240, 241)
	pdf.SetFont("Arial", "B", 10)

	colWidths := []float64{30, 60, 35, 30, 35}
	colHeaders := []string{"Código", "Nombre", "Categoría", "Precio", "Stock"}
	for i, header := range colHeaders {
		pdf.CellFormat(colWidths[i], 10, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	rowHeight := 8.0
	total := 0
	for i, p := range products {
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		if p.Stock <= r.lowStockThreshold {
			pdf.SetTextColor(192, 57, 43)
		} else {
			pdf.SetTextColor(44, 62, 80)
		}

		stock := fmt.Sprintf("%s %s", locale.FormatNumber(p.Stock), locale.MapUnitType(p.UnitType, p.Stock))
		pdf.CellFormat(colWidths[0], rowHeight, tr(p.BarCode), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[1], rowHeight, tr(p.Name), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[2], rowHeight, tr(p.ProductType), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[3], rowHeight, locale.FormatCLP(p.Price), "1", 0, "R", true, 0, "")
		pdf.CellFormat(colWidths[4], rowHeight, tr(stock), "1", 0, "R", true, 0, "")
		pdf.Ln(rowHeight)

		total += p.Price * p.Stock
	}

	pdf.Ln(6)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetX(110)
	pdf.Cell(50, 8, "Valor inventario:")
	pdf.Cell(40, 8, locale.FormatCLP(total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
