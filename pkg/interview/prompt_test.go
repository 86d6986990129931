package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

func TestBuildSystemPrompt(t *testing.T) {
	contexts := []string{
		"Senior backend engineer role at a logistics company.",
		"x",
		"  leading and trailing spaces  ",
		"multi\nline\n\nresume with {{braces}} and %s verbs and 100% effort",
		"Ünïcödé — 日本語の職務経歴書",
	}
	for _, c := range contexts {
		msg := BuildSystemPrompt(c)

		assert.Equal(t, llm.RoleSystem, msg.Role)
		assert.Contains(t, msg.Content, c)
		assert.True(t, strings.HasSuffix(msg.Content, "Context:\n"+c+"\n"))
		for _, rule := range Rules() {
			assert.Contains(t, msg.Content, rule)
		}
	}
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	a := BuildSystemPrompt("same")
	b := BuildSystemPrompt("same")
	assert.Equal(t, a, b)
}

func TestBuildSystemPrompt_RuleOrder(t *testing.T) {
	msg := BuildSystemPrompt("ctx").Content
	last := -1
	for i, rule := range Rules() {
		idx := strings.Index(msg, rule)
		assert.Greater(t, idx, last, "rule %d out of order", i+1)
		last = idx
	}
	assert.Less(t, last, strings.Index(msg, "Context:\nctx"))
}

func TestRules_ReturnsCopy(t *testing.T) {
	before := BuildSystemPrompt("ctx")

	got := Rules()
	require.Len(t, got, 5)
	got[0] = "Greet the user warmly."

	assert.Equal(t, before, BuildSystemPrompt("ctx"))
	assert.Equal(t, "Ask one question at a time.", Rules()[0])
	assert.NotContains(t, BuildSystemPrompt("ctx").Content, "Greet the user warmly.")
}
