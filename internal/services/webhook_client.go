package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// WebhookSender POSTs a JSON body and reports the final status code.
type WebhookSender interface {
	PostJSON(ctx context.Context, url string, body []byte) (int, error)
}

type webhookClient struct {
	client *http.Client
	retry  retrypolicy.RetryPolicy[int]
}

// NewWebhookClient retries transport errors, 429 and 5xx responses with
// jittered exponential backoff.
func NewWebhookClient(timeout, baseDelay, maxDelay time.Duration, retries int) WebhookSender {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxDelay <= baseDelay {
		maxDelay = 2 * baseDelay
	}
	if retries < 0 {
		retries = 0
	}
	policy := retrypolicy.NewBuilder[int]().
		HandleIf(func(status int, err error) bool {
			return err != nil || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
		}).
		WithBackoff(baseDelay, maxDelay).
		WithJitterFactor(0.1).
		WithMaxRetries(retries).
		ReturnLastFailure().
		Build()

	return &webhookClient{
		client: &http.Client{Timeout: timeout},
		retry:  policy,
	}
}

func (w *webhookClient) PostJSON(ctx context.Context, url string, body []byte) (int, error) {
	return failsafe.With(w.retry).WithContext(ctx).Get(func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := w.client.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return resp.StatusCode, nil
	})
}
