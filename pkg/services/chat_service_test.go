package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// completeFunc adapts a function to llm.Client.
type completeFunc func(ctx context.Context, prompt string) (string, error)

func (f completeFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func aggregateCtx() models.ChatContext {
	return models.ChatContext{
		Mode: models.ContextModeAggregate,
		Text: FormatStatsContext(models.ContractStats{Total: 5}),
	}
}

func TestAnswerReturnsReplyVerbatim(t *testing.T) {
	var gotPrompt string
	client := completeFunc(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  El contrato fue adjudicado en 2024.  ", nil
	})

	svc := NewChatService(client, 0)
	answer, err := svc.Answer(context.Background(), "¿Cuándo se adjudicó?", aggregateCtx())
	require.NoError(t, err)

	// Raw text reply, no post-processing or truncation.
	assert.Equal(t, "  El contrato fue adjudicado en 2024.  ", answer)
	assert.Contains(t, gotPrompt, "¿Cuándo se adjudicó?")
	assert.Contains(t, gotPrompt, "Contratos registrados: 5")
	assert.Contains(t, gotPrompt, "asistente virtual especializado en contratos públicos")
}

func TestAnswerEmptyReplyFallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "empty", reply: ""},
		{name: "whitespace only", reply: "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := completeFunc(func(context.Context, string) (string, error) {
				return tt.reply, nil
			})

			svc := NewChatService(client, 0)
			answer, err := svc.Answer(context.Background(), "hola", aggregateCtx())
			require.NoError(t, err)
			assert.Equal(t, emptyReplyFallback, answer)
			assert.NotEmpty(t, answer)
		})
	}
}

func TestAnswerTimeout(t *testing.T) {
	client := completeFunc(func(ctx context.Context, _ string) (string, error) {
		return "", context.DeadlineExceeded
	})

	svc := NewChatService(client, 0)
	_, err := svc.Answer(context.Background(), "hola", aggregateCtx())
	assert.ErrorIs(t, err, ErrLLMTimeout)
}

func TestAnswerTransportFailure(t *testing.T) {
	client := completeFunc(func(context.Context, string) (string, error) {
		return "", errors.New("401 unauthorized")
	})

	svc := NewChatService(client, 0)
	_, err := svc.Answer(context.Background(), "hola", aggregateCtx())
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.NotErrorIs(t, err, ErrLLMTimeout)
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	called := false
	client := completeFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})

	svc := NewChatService(client, 0)
	for _, q := range []string{"", "   "} {
		_, err := svc.Answer(context.Background(), q, aggregateCtx())
		var validErr *ValidationError
		assert.ErrorAs(t, err, &validErr)
	}
	assert.False(t, called, "no LLM call should be made for an empty question")
}

func TestBuildPrompt(t *testing.T) {
	t.Run("with data context", func(t *testing.T) {
		chatCtx := models.ChatContext{Mode: models.ContextModeContract, Text: "Información del contrato C-1:\n"}
		prompt := BuildPrompt("¿quién es el representante?", chatCtx)

		assert.Contains(t, prompt, systemPreamble)
		assert.Contains(t, prompt, "Información del contrato C-1:")
		assert.Contains(t, prompt, "Pregunta del usuario: ¿quién es el representante?")
		assert.Contains(t, prompt, promptClosing)
		assert.NotContains(t, prompt, genericContext)
	})

	t.Run("without data context", func(t *testing.T) {
		prompt := BuildPrompt("hola", models.ChatContext{})
		assert.Contains(t, prompt, genericContext)
	})

	t.Run("deterministic", func(t *testing.T) {
		chatCtx := aggregateCtx()
		assert.Equal(t, BuildPrompt("x", chatCtx), BuildPrompt("x", chatCtx))
	})
}
