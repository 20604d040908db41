package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds an *http.Client with the given policy's connect
// timeout wired into its Transport and PerCallTimeout as the client-wide
// timeout. Retries are applied by RetryDo, not the client itself, since
// net/http has no retry hook of its own.
func NewHTTPClient(policy HTTPPolicy) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: policy.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   policy.ConnectTimeout,
		ResponseHeaderTimeout: policy.RecvResponseTo,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   policy.PerCallTimeout,
	}
}

// RetryDo issues req with client, retrying on 429/5xx responses, timeouts,
// and I/O errors per policy's backoff schedule: 200ms * 2^min(attempt, 6),
// capped at policy.MaxRetries retries after the first attempt. Redirect
// failures are not retried. newReq rebuilds the request body
// for each attempt since an *http.Request's body can only be read once.
func RetryDo(ctx context.Context, client *http.Client, policy HTTPPolicy, newReq func(context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := policy.BackoffBase * time.Duration(math.Pow(2, math.Min(float64(attempt), 6)))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if !isRetryableError(err) {
				return nil, err
			}
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("retryable status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func isRetryableError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}
