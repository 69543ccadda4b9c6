package models

// ContextMode identifies which shape of chat context was assembled.
type ContextMode string

const (
	// ContextModeContract means the context describes a single selected contract.
	ContextModeContract ContextMode = "contract"
	// ContextModeAggregate means the context is a counts-only table summary.
	ContextModeAggregate ContextMode = "aggregate"
)

// ChatContext is the bounded textual context handed to the LLM alongside a
// user question. It lives for a single request and is never persisted.
type ChatContext struct {
	Mode ContextMode
	Text string
}

// ChatRequest is the body of POST /api/chatbot. CodigoProceso is optional;
// when set, the answer is grounded on that single contract.
type ChatRequest struct {
	Pregunta      string `json:"pregunta"`
	CodigoProceso string `json:"codigo_proceso,omitempty"`
}

// ChatResponse carries the assistant's answer back to the dashboard.
type ChatResponse struct {
	Respuesta string `json:"respuesta"`
}
