package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds how often a transient transport failure is repeated.
// MaxRetries == 0 disables retrying.
type RetryPolicy struct {
	MaxRetries uint64
	Base       time.Duration
}

type retryTransport struct {
	next   ChatTransport
	policy RetryPolicy
}

// WithRetry wraps next so that transient transport errors (network failures and 5xx) are
// retried with exponential backoff. Configuration errors, 4xx statuses and malformed
// responses are returned after the first attempt. The returned error is always the error of
// the last attempt, so callers classify it the same way as an unwrapped transport.
func WithRetry(next ChatTransport, policy RetryPolicy) ChatTransport {
	if policy.MaxRetries == 0 {
		return next
	}
	if policy.Base <= 0 {
		policy.Base = 500 * time.Millisecond
	}
	return &retryTransport{next: next, policy: policy}
}

func (t *retryTransport) Complete(ctx context.Context, model string, messages []Message, credential string) (string, error) {
	backoff := retry.WithMaxRetries(t.policy.MaxRetries, retry.WithJitterPercent(10, retry.NewExponential(t.policy.Base)))

	var out string
	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err := t.next.Complete(ctx, model, messages, credential)
		if err == nil {
			out = text
			return nil
		}
		lastErr = err
		var te *TransportError
		if errors.As(err, &te) && te.Transient() {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}
	return out, nil
}
