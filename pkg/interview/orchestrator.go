package interview

import (
	"context"
	"strings"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

// TurnTaker advances an interview by one assistant turn.
type TurnTaker interface {
	AdvanceTurn(ctx context.Context, interviewContext string, history []llm.Message, credential, model string) (llm.Message, error)
}

// Orchestrator owns the turn-taking protocol. It keeps no per-session state: the caller
// passes context and transcript on every call and appends the result itself.
type Orchestrator struct {
	transport llm.ChatTransport
}

var _ TurnTaker = (*Orchestrator)(nil)

func NewOrchestrator(transport llm.ChatTransport) *Orchestrator {
	return &Orchestrator{transport: transport}
}

// BuildMessages returns the outbound list: system prompt followed by a copy of history.
func BuildMessages(interviewContext string, history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	out = append(out, BuildSystemPrompt(interviewContext))
	return append(out, history...)
}

// AdvanceTurn asks the model for the next interviewer message. An empty history starts the
// interview. Transport errors are returned as-is.
func (o *Orchestrator) AdvanceTurn(ctx context.Context, interviewContext string, history []llm.Message, credential, model string) (llm.Message, error) {
	if strings.TrimSpace(credential) == "" || strings.TrimSpace(model) == "" {
		return llm.Message{}, llm.ErrUnconfigured
	}
	text, err := o.transport.Complete(ctx, model, BuildMessages(interviewContext, history), credential)
	if err != nil {
		return llm.Message{}, err
	}
	return llm.AssistantMessage(text), nil
}
