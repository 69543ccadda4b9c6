package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/services"
)

// Machine-readable error codes. The front-end branches on these to render a
// specific message: data problems and assistant problems must be
// distinguishable.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeDBUnavailable = "database_unavailable"
	codeQueryFailed   = "query_failed"
	codeLLMUnavail    = "llm_unavailable"
	codeLLMTimeout    = "llm_timeout"
	codeInternal      = "internal_error"
)

// ErrorResponse is the JSON error payload: human message plus stable code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// abortWithServiceError maps service-layer errors to HTTP status and code.
func abortWithServiceError(c *gin.Context, err error) {
	var validErr *services.ValidationError
	switch {
	case errors.As(err, &validErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: validErr.Error(), Code: codeBadRequest,
		})
	case errors.Is(err, services.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
			Error: "contrato no encontrado", Code: codeNotFound,
		})
	case errors.Is(err, services.ErrDatabaseUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "no se pudo conectar a la base de datos", Code: codeDBUnavailable,
		})
	case errors.Is(err, services.ErrQueryFailed):
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "error consultando la tabla de contratos", Code: codeQueryFailed,
		})
	case errors.Is(err, services.ErrLLMTimeout):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, ErrorResponse{
			Error: "el asistente tardó demasiado en responder", Code: codeLLMTimeout,
		})
	case errors.Is(err, services.ErrLLMUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "el asistente no está disponible", Code: codeLLMUnavail,
		})
	default:
		slog.Error("Unexpected service error", "error", err, "request_id", GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "error interno", Code: codeInternal,
		})
	}
}
