package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/llm"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// systemPreamble frames every prompt. The closing instruction keeps answers
// in the dashboard's language.
const systemPreamble = `Eres un asistente virtual especializado en contratos públicos.
Responde preguntas sobre contratos de manera clara, profesional y concisa.`

const promptClosing = `Responde de manera amigable y profesional, en español.`

// genericContext replaces the context block when no data context is available.
const genericContext = "Puedes responder preguntas generales sobre contratos públicos."

// emptyReplyFallback is returned instead of an empty LLM reply; the user
// never sees an empty answer.
const emptyReplyFallback = "Lo siento, no pude generar una respuesta en este momento."

// ChatService sends an assembled prompt to the LLM and shapes the reply.
// One call per question, no retries: a failed call against a paid,
// rate-limited API surfaces immediately instead of silently re-spending.
type ChatService struct {
	llm     llm.Client
	timeout time.Duration
}

// NewChatService creates the service. timeout bounds the LLM call; zero
// means a 45 second default.
func NewChatService(client llm.Client, timeout time.Duration) *ChatService {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ChatService{llm: client, timeout: timeout}
}

// Answer sends preamble + context + verbatim question as one completion and
// returns the reply unmodified, except that an empty reply becomes the fixed
// fallback message.
func (s *ChatService) Answer(httpCtx context.Context, question string, chatCtx models.ChatContext) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", NewValidationError("pregunta", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, s.timeout)
	defer cancel()

	reply, err := s.llm.Complete(ctx, BuildPrompt(question, chatCtx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrLLMTimeout, s.timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	if strings.TrimSpace(reply) == "" {
		return emptyReplyFallback, nil
	}

	return reply, nil
}

// BuildPrompt concatenates the fixed preamble, the data context and the
// user's question. Pure function, kept separate from the network call.
func BuildPrompt(question string, chatCtx models.ChatContext) string {
	contextBlock := chatCtx.Text
	if contextBlock == "" {
		contextBlock = genericContext
	}

	return fmt.Sprintf("%s\n\n%s\n\nPregunta del usuario: %s\n\n%s",
		systemPreamble, contextBlock, question, promptClosing)
}
