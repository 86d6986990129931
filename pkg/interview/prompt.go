package interview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

// rules are the behavioural instructions carried by every system prompt, in order.
// The wording is part of the contract with the model; do not rephrase.
var rules = [...]string{
	"Ask one question at a time.",
	"After the user responds, ask a relevant follow-up question.",
	"Keep your responses conversational and natural, like a real interviewer.",
	`Do NOT add any extra formatting, labels (like "Interview Question:"), or internal notes (like "Answer expected:"). Just ask the question directly.`,
	"If this is the start of the conversation, do not greet the user. Just ask your first question.",
}

// Rules returns a copy of the prompt rules in order.
func Rules() []string {
	return slices.Clone(rules[:])
}

const promptHeader = `You are an AI interviewer. Your goal is to conduct a job interview with the user based on the provided context.

Your instructions are:
`

// BuildSystemPrompt renders the system instruction block with context embedded verbatim.
func BuildSystemPrompt(context string) llm.Message {
	var b strings.Builder
	b.WriteString(promptHeader)
	for i, rule := range rules {
		fmt.Fprintf(&b, "%d.  %s\n", i+1, rule)
	}
	b.WriteString("\nContext:\n")
	b.WriteString(context)
	b.WriteString("\n")
	return llm.SystemMessage(b.String())
}
