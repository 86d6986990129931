package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-interviewer/api/http/presenter"
	"github.com/artem13815/hr-interviewer/pkg/interview"
	"github.com/artem13815/hr-interviewer/pkg/llm"
	"github.com/artem13815/hr-interviewer/pkg/repository/memory"
	"github.com/artem13815/hr-interviewer/pkg/session"
	"github.com/artem13815/hr-interviewer/pkg/settings"
)

type scripted struct {
	calls [][]llm.Message
	fail  map[int]error
}

func (s *scripted) complete(_ context.Context, _ string, messages []llm.Message, _ string) (string, error) {
	s.calls = append(s.calls, messages)
	if err := s.fail[len(s.calls)]; err != nil {
		return "", err
	}
	return fmt.Sprintf("Q%d", len(s.calls)), nil
}

func newService(t *testing.T, configured bool, tr *scripted) session.UseCase {
	t.Helper()
	st := settings.NewService(memory.NewSettingsStore())
	if configured {
		require.NoError(t, st.SeedIfEmpty(context.Background(), settings.Settings{APIKey: "sk", ModelName: "openai/gpt-4o"}))
	}
	return session.NewService(memory.NewSessionRepository(), st, interview.NewOrchestrator(llm.TransportFunc(tr.complete)), zerolog.Nop())
}

func TestRun_Dialogue(t *testing.T) {
	tr := &scripted{}
	svc := newService(t, true, tr)
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("I like Go\n\n  \nI led a team\n/quit\nnever sent\n"))

	require.NoError(t, run(context.Background(), svc, "Backend role", in, &out, zerolog.Nop()))

	assert.Len(t, tr.calls, 3, "blank lines are skipped and /quit stops reading")
	assert.Contains(t, out.String(), "Interviewer: Q1")
	assert.Contains(t, out.String(), "Interviewer: Q3")
	last := tr.calls[2]
	assert.Equal(t, []llm.Message{
		llm.AssistantMessage("Q1"),
		llm.UserMessage("I like Go"),
		llm.AssistantMessage("Q2"),
		llm.UserMessage("I led a team"),
	}, last[1:])
}

func TestRun_EOFWithoutNewline(t *testing.T) {
	tr := &scripted{}
	svc := newService(t, true, tr)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), svc, "Backend role", bufio.NewReader(strings.NewReader("last answer")), &out, zerolog.Nop()))
	assert.Len(t, tr.calls, 2)
	assert.Contains(t, out.String(), "Interviewer: Q2")
}

func TestRun_FailedTurnContinues(t *testing.T) {
	tr := &scripted{fail: map[int]error{2: &llm.TransportError{Status: 503, Body: "overloaded"}}}
	svc := newService(t, true, tr)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), svc, "Backend role", bufio.NewReader(strings.NewReader("a1\na2\n")), &out, zerolog.Nop()))
	assert.Contains(t, out.String(), presenter.MsgTurnFailed)
	assert.NotContains(t, out.String(), "overloaded")
	require.Len(t, tr.calls, 3)
	assert.Equal(t, []llm.Message{llm.AssistantMessage("Q1"), llm.UserMessage("a1"), llm.UserMessage("a2")}, tr.calls[2][1:])
}

func TestRun_StartFailures(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		tr := &scripted{}
		var out bytes.Buffer
		err := run(context.Background(), newService(t, false, tr), "Backend role", bufio.NewReader(strings.NewReader("")), &out, zerolog.Nop())
		assert.ErrorIs(t, err, llm.ErrUnconfigured)
		assert.Contains(t, out.String(), presenter.MsgUnconfigured)
		assert.Empty(t, tr.calls)
	})
	t.Run("empty context", func(t *testing.T) {
		tr := &scripted{}
		var out bytes.Buffer
		err := run(context.Background(), newService(t, true, tr), " ", bufio.NewReader(strings.NewReader("")), &out, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, out.String(), "Please provide some context for the interview.")
		assert.Empty(t, tr.calls)
	})
	t.Run("provider error", func(t *testing.T) {
		tr := &scripted{fail: map[int]error{1: errors.New("boom")}}
		var out bytes.Buffer
		err := run(context.Background(), newService(t, true, tr), "Backend role", bufio.NewReader(strings.NewReader("")), &out, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, out.String(), presenter.MsgStartFailed)
	})
}

func TestLoadContext(t *testing.T) {
	var out bytes.Buffer

	got, err := loadContext("inline", "", "", bufio.NewReader(strings.NewReader("ignored")), &out)
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	in := bufio.NewReader(strings.NewReader("\nSenior Go engineer\nLogistics\n\nfirst answer\n"))
	got, err = loadContext("", "", "", in, &out)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer\nLogistics", got)
	rest, _ := in.ReadString('\n')
	assert.Equal(t, "first answer\n", rest)

	path := filepath.Join(t.TempDir(), "context.md")
	require.NoError(t, os.WriteFile(path, []byte("# Role\nData engineer"), 0o600))
	got, err = loadContext("", path, "", in, &out)
	require.NoError(t, err)
	assert.Equal(t, "# Role\nData engineer", got)

	_, err = loadContext("", filepath.Join(t.TempDir(), "missing.txt"), "", in, &out)
	assert.Error(t, err)
}
