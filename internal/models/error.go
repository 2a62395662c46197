package models

// ErrorCode representa el código de error
type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrorCodeActivationRequired ErrorCode = "ACTIVATION_REQUIRED"
	ErrorCodeUnavailable        ErrorCode = "UNAVAILABLE"
	ErrorCodeInternal           ErrorCode = "INTERNAL"
)

// ErrorDetail representa un detalle específico del error
type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ErrorResponse representa la respuesta de error estandarizada
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo representa la información del error
type ErrorInfo struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Details  []ErrorDetail `json:"details,omitempty"`
	Redirect string        `json:"redirect,omitempty"`
}

// NewErrorResponse crea una nueva respuesta de error
func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	}
}

// NewValidationResponse crea una respuesta de validación con detalles
func NewValidationResponse(message string, details []ErrorDetail) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:    string(ErrorCodeInvalidRequest),
			Message: message,
			Details: details,
		},
	}
}

// NewNotFoundResponse crea una respuesta de recurso no encontrado
func NewNotFoundResponse(message string) ErrorResponse {
	return NewErrorResponse(ErrorCodeNotFound, message)
}

// NewActivationRequiredResponse crea una respuesta que redirige a la activación
func NewActivationRequiredResponse(message, redirect string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{
			Code:     string(ErrorCodeActivationRequired),
			Message:  message,
			Redirect: redirect,
		},
	}
}

// NewInternalResponse crea una respuesta de error interno del servidor
func NewInternalResponse(message string) ErrorResponse {
	return NewErrorResponse(ErrorCodeInternal, message)
}
