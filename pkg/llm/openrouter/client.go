package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artem13815/hr-interviewer/pkg/llm"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

var _ llm.ChatTransport = (*Client)(nil)

// Client is a minimal OpenRouter (OpenAI-compatible) chat completions client.
// It holds no credential: the caller passes one with every call.
type Client struct {
	BaseURL  string
	AppTitle string
	Referer  string
	httpDo   *http.Client
}

func New(baseURL, appTitle, referer string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		AppTitle: appTitle,
		Referer:  referer,
		httpDo: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpDo = hc
	return c
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
}

// Pointers distinguish absent fields from empty ones.
type chatChoice struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

type chatCompletionsResponse struct {
	ID      string        `json:"id"`
	Choices *[]chatChoice `json:"choices"`
}

// Complete sends the full message list as one non-streaming request and returns the
// first choice's content unmodified.
func (c *Client) Complete(ctx context.Context, model string, messages []llm.Message, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" || strings.TrimSpace(model) == "" {
		return "", llm.ErrUnconfigured
	}
	if err := llm.ValidateMessages(messages); err != nil {
		return "", err
	}

	data, err := json.Marshal(chatCompletionsRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)
	if c.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.AppTitle != "" {
		httpReq.Header.Set("X-Title", c.AppTitle)
	}

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return "", &llm.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &llm.TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.TransportError{Status: resp.StatusCode, Err: err}
	}
	return parseCompletion(raw)
}

func parseCompletion(raw []byte) (string, error) {
	var out chatCompletionsResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &llm.MalformedResponseError{Reason: "invalid json: " + err.Error(), Body: string(raw)}
	}
	if out.Choices == nil {
		return "", &llm.MalformedResponseError{Reason: "missing choices", Body: string(raw)}
	}
	if len(*out.Choices) == 0 {
		return "", &llm.MalformedResponseError{Reason: "no choices returned by model", Body: string(raw)}
	}
	first := (*out.Choices)[0]
	if first.Message == nil {
		return "", &llm.MalformedResponseError{Reason: "missing choices[0].message", Body: string(raw)}
	}
	if first.Message.Content == nil {
		return "", &llm.MalformedResponseError{Reason: "missing choices[0].message.content", Body: string(raw)}
	}
	return *first.Message.Content, nil
}
