package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

type fakeProvider struct {
	status int
	body   string
	calls  atomic.Int32
	last   struct {
		path    string
		auth    string
		ctype   string
		title   string
		referer string
		payload map[string]any
	}
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.last.path = r.URL.Path
	f.last.auth = r.Header.Get("Authorization")
	f.last.ctype = r.Header.Get("Content-Type")
	f.last.title = r.Header.Get("X-Title")
	f.last.referer = r.Header.Get("HTTP-Referer")
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &f.last.payload)
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(srv.URL, "interviewer", "https://example.test", 5*time.Second)
}

func conversation() []llm.Message {
	return []llm.Message{
		llm.SystemMessage("be an interviewer"),
		llm.AssistantMessage("Tell me about yourself."),
		llm.UserMessage("I build backends."),
	}
}

func TestComplete_Success(t *testing.T) {
	f := &fakeProvider{
		status: http.StatusOK,
		body:   `{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"  Why Go?\n"}},{"message":{"content":"ignored"}}]}`,
	}
	c := newTestClient(t, f)

	got, err := c.Complete(context.Background(), "openai/gpt-4o", conversation(), "sk-or-123")
	require.NoError(t, err)
	assert.Equal(t, "  Why Go?\n", got)

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, "/chat/completions", f.last.path)
	assert.Equal(t, "Bearer sk-or-123", f.last.auth)
	assert.Equal(t, "application/json", f.last.ctype)
	assert.Equal(t, "interviewer", f.last.title)
	assert.Equal(t, "https://example.test", f.last.referer)
	assert.Equal(t, "openai/gpt-4o", f.last.payload["model"])
	assert.Equal(t, false, f.last.payload["stream"])

	msgs, ok := f.last.payload["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	first := msgs[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "be an interviewer", first["content"])
}

func TestComplete_Preconditions(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		credential string
		messages   []llm.Message
		want       error
	}{
		{"missing credential", "openai/gpt-4o", "", conversation(), llm.ErrUnconfigured},
		{"blank credential", "openai/gpt-4o", "   ", conversation(), llm.ErrUnconfigured},
		{"missing model", "", "sk", conversation(), llm.ErrUnconfigured},
		{"no messages", "openai/gpt-4o", "sk", nil, llm.ErrInvalidMessages},
		{"no system first", "openai/gpt-4o", "sk", []llm.Message{llm.UserMessage("hi")}, llm.ErrInvalidMessages},
		{"two system", "openai/gpt-4o", "sk", []llm.Message{llm.SystemMessage("a"), llm.SystemMessage("b")}, llm.ErrInvalidMessages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeProvider{status: http.StatusOK, body: `{"choices":[{"message":{"content":"x"}}]}`}
			c := newTestClient(t, f)

			_, err := c.Complete(context.Background(), tt.model, tt.messages, tt.credential)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(0), f.calls.Load(), "no request may be sent")
		})
	}
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		f := &fakeProvider{status: status, body: "rate limited"}
		c := newTestClient(t, f)

		_, err := c.Complete(context.Background(), "m", conversation(), "sk")

		var te *llm.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, status, te.Status)
		assert.Equal(t, "rate limited", te.Body)
		assert.Equal(t, int32(1), f.calls.Load())
		assert.Equal(t, "transport", llm.Kind(err))
	}
}

func TestComplete_LargeErrorBodyKeptWhole(t *testing.T) {
	body := strings.Repeat("e", 100<<10)
	f := &fakeProvider{status: http.StatusBadGateway, body: body}
	c := newTestClient(t, f)

	_, err := c.Complete(context.Background(), "m", conversation(), "sk")

	var te *llm.TransportError
	require.ErrorAs(t, err, &te)
	assert.Len(t, te.Body, len(body))
	assert.Equal(t, body, te.Body)
}

type countingRoundTripper struct {
	n    atomic.Int32
	next http.RoundTripper
}

func (c *countingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	c.n.Add(1)
	return c.next.RoundTrip(r)
}

func TestWithHTTPClient(t *testing.T) {
	f := &fakeProvider{status: http.StatusOK, body: `{"choices":[{"message":{"content":"Hi"}}]}`}
	rt := &countingRoundTripper{next: http.DefaultTransport}
	c := newTestClient(t, f).WithHTTPClient(&http.Client{Transport: rt, Timeout: time.Second})

	got, err := c.Complete(context.Background(), "m", conversation(), "sk")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
	assert.Equal(t, int32(1), rt.n.Load())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestComplete_MalformedResponse(t *testing.T) {
	bodies := map[string]string{
		"not json":        `<html>oops</html>`,
		"missing choices": `{"id":"x"}`,
		"null choices":    `{"id":"x","choices":null}`,
		"empty choices":   `{"id":"x","choices":[]}`,
		"missing message": `{"choices":[{"index":0}]}`,
		"missing content": `{"choices":[{"message":{"role":"assistant"}}]}`,
		"null content":    `{"choices":[{"message":{"content":null}}]}`,
		"wrong type":      `{"choices":[{"message":{"content":42}}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			f := &fakeProvider{status: http.StatusOK, body: body}
			c := newTestClient(t, f)

			got, err := c.Complete(context.Background(), "m", conversation(), "sk")
			assert.Empty(t, got)
			var me *llm.MalformedResponseError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, body, me.Body)
			assert.Equal(t, "malformed_response", llm.Kind(err))
		})
	}
}

func TestComplete_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, "", "", time.Second)
	_, err := c.Complete(context.Background(), "m", conversation(), "sk")

	var te *llm.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.Status)
	assert.True(t, te.Transient())
}

func TestNew_Defaults(t *testing.T) {
	c := New("", "", "", 0)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, 60*time.Second, c.httpDo.Timeout)

	c = New("http://localhost:9999/api/v1/", "", "", 0)
	assert.Equal(t, "http://localhost:9999/api/v1", c.BaseURL)
}
