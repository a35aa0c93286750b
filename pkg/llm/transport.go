package llm

import (
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// backOffMaxDuration bounds transport-level retries. Connection hiccups are
// smoothed here; the stage runner owns the single stage-level retry.
const backOffMaxDuration = 3 * time.Second

// RetryableRoundTripper retries failed connection attempts with exponential
// backoff. It is safe for concurrent use.
type RetryableRoundTripper struct {
	Base http.RoundTripper
	once sync.Once
}

var _ http.RoundTripper = (*RetryableRoundTripper)(nil)

func (rt *RetryableRoundTripper) init() {
	if rt.Base == nil {
		rt.Base = http.DefaultTransport
	}
}

// RoundTrip executes a single HTTP transaction, retrying transport errors
// until backOffMaxDuration elapses. Responses with error status codes are
// returned as-is; status handling belongs to the caller.
func (rt *RetryableRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.once.Do(rt.init)

	var resp *http.Response

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.MaxElapsedTime = backOffMaxDuration

	err := backoff.Retry(
		func() error {
			if req.Body != nil && req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				req.Body = body
			}
			var err error
			resp, err = rt.Base.RoundTrip(req)
			return err
		},
		backoff.WithContext(backoffPolicy, req.Context()),
	)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
