package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/cashier-service/internal/catalog"
	"github.com/hypernova-labs/cashier-service/internal/locale"
	"github.com/hypernova-labs/cashier-service/internal/models"
)

// GetProducts lista los productos activos. Los parámetros q, barcode,
// category y sort aplican el filtro del catálogo.
func (api *API) GetProducts(c *gin.Context) {
	products, err := api.productService.GetActive(c.Request.Context())
	if err != nil {
		api.handleError(c, err, "Error retrieving products")
		return
	}

	query := c.Request.URL.Query()
	if query.Has("q") || query.Has("barcode") || query.Has("category") || query.Has("sort") {
		products = catalog.Apply(products, catalog.FilterState{
			SearchQuery:  query.Get("q"),
			BarcodeQuery: query.Get("barcode"),
			Category:     query.Get("category"),
			Sort:         catalog.ParseSortMode(query.Get("sort")),
		})
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct obtiene un producto por ID, incluso si está inactivo
func (api *API) GetProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	product, err := api.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, "Error retrieving product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, models.NewNotFoundResponse("Product not found"))
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductByBarcode obtiene el producto activo con el código indicado
func (api *API) GetProductByBarcode(c *gin.Context) {
	product, err := api.productService.GetByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		api.handleError(c, err, "Error retrieving product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, models.NewNotFoundResponse("Product not found"))
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct crea un nuevo producto
func (api *API) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.bindError(c, err)
		return
	}

	product := req.ToProduct()
	if err := api.productService.Create(c.Request.Context(), product); err != nil {
		api.handleError(c, err, "Error saving product")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Message: "Product saved successfully",
		ID:      product.ID.String(),
	})
}

// UpdateProduct reemplaza un producto. El ID de la ruta prevalece sobre el body.
func (api *API) UpdateProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.bindError(c, err)
		return
	}

	product := req.ToProduct()
	product.ID = id
	if err := api.productService.Update(c.Request.Context(), product); err != nil {
		api.handleError(c, err, "Error updating product")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Message: "Product updated successfully",
		ID:      id.String(),
	})
}

// UpdateStock ajusta el stock. Acepta {newStock} o {operationType, quantity};
// el total lo calcula el servidor.
func (api *API) UpdateStock(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	var req models.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.bindError(c, err)
		return
	}

	var (
		adjustment *models.StockAdjustment
		err        error
	)
	switch {
	case req.OperationType != "":
		if req.Quantity == nil {
			c.JSON(http.StatusBadRequest, models.NewValidationResponse("Quantity is required", []models.ErrorDetail{
				{Field: "quantity", Issue: "required with operationType"},
			}))
			return
		}
		adjustment, err = api.productService.AdjustStock(c.Request.Context(), id, models.StockOperation(req.OperationType), *req.Quantity)
	case req.NewStock != nil:
		adjustment, err = api.productService.SetStock(c.Request.Context(), id, *req.NewStock)
	default:
		c.JSON(http.StatusBadRequest, models.NewValidationResponse("Stock value is required", []models.ErrorDetail{
			{Field: "newStock", Issue: "provide newStock or operationType with quantity"},
		}))
		return
	}
	if err != nil {
		api.handleError(c, err, "Error updating product stock")
		return
	}

	c.JSON(http.StatusOK, models.StockResponse{
		Success:       true,
		Message:       "Product stock updated successfully",
		PreviousStock: adjustment.PreviousStock,
		NewStock:      adjustment.NewStock,
	})
}

// DeleteProduct desactiva un producto. Un ID inexistente también responde 200.
func (api *API) DeleteProduct(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	if err := api.productService.SoftDelete(c.Request.Context(), id); err != nil {
		api.handleError(c, err, "Error deleting product")
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

// GetStockMovements obtiene el historial de ajustes de stock de un producto
func (api *API) GetStockMovements(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	movements, err := api.productService.Movements(c.Request.Context(), id)
	if err != nil {
		api.handleError(c, err, "Error retrieving stock movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}

// GetInventoryReport descarga el inventario en PDF
func (api *API) GetInventoryReport(c *gin.Context) {
	data, err := api.report.Generate(c.Request.Context())
	if err != nil {
		api.handleError(c, err, "Error generating inventory report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventario.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GetProductTypes lista las categorías de producto
func (api *API) GetProductTypes(c *gin.Context) {
	categories, err := api.categories.ListCategories(c.Request.Context())
	if err != nil {
		api.handleError(c, err, "Error retrieving product types")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetUnitTypes lista las unidades de medida
func (api *API) GetUnitTypes(c *gin.Context) {
	c.JSON(http.StatusOK, locale.SpanishUnitTypes)
}
