package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/hypernova-labs/cashier-service/internal/services"
	"github.com/sirupsen/logrus"
)

// ActivationRedirect es la ruta del cliente a la que se envía sin licencia
const ActivationRedirect = "/activation"

// FingerprintHeader transporta la huella del equipo calculada por el cliente
const FingerprintHeader = "X-Computer-Fingerprint"

// API maneja todos los endpoints de la API
type API struct {
	productService    *services.ProductService
	categories        services.CategoryProvider
	activationService *services.ActivationService
	messageService    *services.MessageService
	report            *services.InventoryReport
	backupService     *services.BackupService
	enforceLicense    bool
	logger            *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(
	productService *services.ProductService,
	categories services.CategoryProvider,
	activationService *services.ActivationService,
	messageService *services.MessageService,
	report *services.InventoryReport,
	backupService *services.BackupService,
	enforceLicense bool,
	logger *logrus.Logger,
) *API {
	return &API{
		productService:    productService,
		categories:        categories,
		activationService: activationService,
		messageService:    messageService,
		report:            report,
		backupService:     backupService,
		enforceLicense:    enforceLicense,
		logger:            logger,
	}
}

// RegisterRoutes registra los endpoints bajo /api
func (api *API) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api")

	// Activación (sin licencia)
	activation := group.Group("/activation")
	{
		activation.GET("/status", api.GetActivationStatus)
		activation.POST("/activate", api.Activate)
		activation.DELETE("/deactivate", api.Deactivate)
	}

	// Endpoints protegidos por la licencia
	protected := group.Group("")
	protected.Use(api.ActivationGate())
	{
		protected.GET("/products", api.GetProducts)
		protected.GET("/products/report", api.GetInventoryReport)
		protected.GET("/products/barcode/:barcode", api.GetProductByBarcode)
		protected.GET("/products/:id", api.GetProduct)
		protected.GET("/products/:id/movements", api.GetStockMovements)
		protected.POST("/products", api.CreateProduct)
		protected.PUT("/products/:id", api.UpdateProduct)
		protected.PUT("/products/:id/stock", api.UpdateStock)
		protected.DELETE("/products/:id", api.DeleteProduct)

		protected.GET("/producttypes", api.GetProductTypes)
		protected.GET("/unittypes", api.GetUnitTypes)

		protected.GET("/messages", api.GetMessages)
		protected.POST("/messages", api.SaveMessage)

		protected.POST("/backup", api.RunBackup)
	}
}

// ActivationGate retorna middleware que exige una licencia válida
func (api *API) ActivationGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !api.enforceLicense {
			c.Next()
			return
		}

		if err := api.activationService.RequireLicense(c.Request.Context(), c.GetHeader(FingerprintHeader)); err != nil {
			api.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"reason": err.Error(),
			}).Debug("Request blocked by activation gate")
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewActivationRequiredResponse("Application activation required", ActivationRedirect))
			return
		}

		c.Next()
	}
}

// parseID obtiene el UUID del parámetro id; responde 400 si es inválido
func (api *API) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationResponse("Invalid product ID", []models.ErrorDetail{
			{Field: "id", Issue: "must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// bindError responde 400 ante un body que no se pudo interpretar
func (api *API) bindError(c *gin.Context, err error) {
	api.logger.WithError(err).Debug("Error binding request")
	c.JSON(http.StatusBadRequest, models.NewValidationResponse("Invalid request format", []models.ErrorDetail{
		{Field: "body", Issue: err.Error()},
	}))
}

// handleError traduce errores del dominio a respuestas HTTP
func (api *API) handleError(c *gin.Context, err error, message string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.NewValidationResponse(validationErr.Message, []models.ErrorDetail{
			{Field: validationErr.Field, Issue: validationErr.Message},
		}))
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundResponse(err.Error()))
	case errors.Is(err, models.ErrActivation):
		c.JSON(http.StatusForbidden, models.NewActivationRequiredResponse(err.Error(), ActivationRedirect))
	default:
		api.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, models.NewInternalResponse(message))
	}
}
