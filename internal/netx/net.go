// Package netx is the JSON-over-HTTP transport shared by the compute and
// auth clients. Requests are attempted exactly once and bounded by a client
// timeout; any non-2xx status becomes a *common.RemoteError.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 4096

// NewClient returns a client that never retries and gives up after timeout.
// A nil logger silences the transport's own request logging.
func NewClient(timeout time.Duration, logger logging.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.HTTPClient.Timeout = timeout
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		c.Logger = leveledLogger{l: logger}
	} else {
		c.Logger = nil
	}
	return c
}

// Do sends body (JSON-encoded when non-nil) to url and returns the raw
// response body on a 2xx status.
func Do(ctx context.Context, c *retryablehttp.Client, method, url string, headers map[string]string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", common.ErrRemoteFailure, method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", common.ErrRemoteFailure, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ParseError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// DoJSON is Do followed by decoding the response into out (skipped when out is nil).
func DoJSON(ctx context.Context, c *retryablehttp.Client, method, url string, headers map[string]string, body, out any) error {
	respBody, err := Do(ctx, c, method, url, headers, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// ParseError builds a RemoteError from a failed response, picking the most
// specific message field the body carries and falling back to the raw body.
func ParseError(status int, body []byte) *common.RemoteError {
	e := &common.RemoteError{StatusCode: status}

	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		e.Code = firstString(res, "code", "error_code")
		e.Message = firstString(res, "message", "msg", "error_description", "detail", "error")
	}
	if e.Message == "" {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		e.Message = string(bytes.TrimSpace(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := res.Get(p)
		switch {
		case v.Type == gjson.String && v.String() != "":
			return v.String()
		case v.Type == gjson.Number:
			return v.Raw
		}
	}
	return ""
}

type leveledLogger struct {
	l logging.Logger
}

func (ll leveledLogger) Error(msg string, kv ...interface{}) {
	ll.l.Error(context.Background(), msg, kv...)
}

func (ll leveledLogger) Info(msg string, kv ...interface{}) {
	ll.l.Debug(context.Background(), msg, kv...)
}

func (ll leveledLogger) Debug(msg string, kv ...interface{}) {
	ll.l.Debug(context.Background(), msg, kv...)
}

func (ll leveledLogger) Warn(msg string, kv ...interface{}) {
	ll.l.Warn(context.Background(), msg, kv...)
}
