package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// maxQuestionLength bounds the request body; anything longer is not a
// question a dashboard user typed.
const maxQuestionLength = 10_000

// chatbotHandler handles POST /api/chatbot.
// Builds the data context (single contract or aggregate summary), asks the
// LLM, and returns the answer. A stale codigo_proceso degrades to the
// aggregate context instead of failing the request.
func (s *Server) chatbotHandler(c *gin.Context) {
	if s.chat == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "el asistente no está configurado", Code: codeLLMUnavail,
		})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(), Code: codeBadRequest,
		})
		return
	}
	if req.Pregunta == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: "pregunta requerida", Code: codeBadRequest,
		})
		return
	}
	if len(req.Pregunta) > maxQuestionLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: "pregunta demasiado larga", Code: codeBadRequest,
		})
		return
	}

	chatCtx, err := s.builder.Build(c.Request.Context(), req.CodigoProceso)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	answer, err := s.chat.Answer(c.Request.Context(), req.Pregunta, chatCtx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Respuesta: answer})
}
