package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/hypernova-labs/cashier-service/internal/services"
)

// GetActivationStatus retorna el estado de la licencia
func (api *API) GetActivationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, api.activationService.Status(c.Request.Context()))
}

// Activate activa la aplicación con una clave
func (api *API) Activate(c *gin.Context) {
	var req models.ActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.bindError(c, err)
		return
	}

	response, err := api.activationService.Activate(c.Request.Context(), &req)
	if err != nil {
		api.handleError(c, err, "Error activating application")
		return
	}
	if !response.Success {
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Deactivate elimina la licencia
func (api *API) Deactivate(c *gin.Context) {
	response := api.activationService.Deactivate(c.Request.Context())
	if !response.Success {
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMessages lista los mensajes del tablero
func (api *API) GetMessages(c *gin.Context) {
	messages, err := api.messageService.List(c.Request.Context())
	if err != nil {
		api.handleError(c, err, "Error retrieving messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SaveMessage guarda un mensaje en el tablero
func (api *API) SaveMessage(c *gin.Context) {
	var req models.SaveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.bindError(c, err)
		return
	}

	message, err := api.messageService.Save(c.Request.Context(), req.Message)
	if err != nil {
		api.handleError(c, err, "Error saving message")
		return
	}

	c.JSON(http.StatusOK, message)
}

// RunBackup respalda el almacén en el almacenamiento de objetos
func (api *API) RunBackup(c *gin.Context) {
	result, err := api.backupService.Run(c.Request.Context())
	if errors.Is(err, services.ErrBackupUnavailable) {
		c.JSON(http.StatusServiceUnavailable, models.NewErrorResponse(models.ErrorCodeUnavailable, "Backup storage is not configured"))
		return
	}
	if err != nil {
		api.handleError(c, err, "Error running backup")
		return
	}

	c.JSON(http.StatusOK, result)
}
