/*
Package client is the programmatic facade over the Alive backend service.

It mirrors the service's HTTP and WebSocket surface as plain Go calls:
every operation returns a typed payload and a *errs.CustomError whose Kind
the caller can branch on. The client holds the session token, so callers
never deal with headers or envelopes.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/aizatop/alive/internal/configs"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// Client talks to one Alive service with one session at a time.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client

	mu      sync.RWMutex
	session *Session
}

// New builds a Client from the shell configuration. Calls carry no client
// timeout; callers bound long operations through the context.
func New(cfg *configs.ClientConfig) *Client {
	return &Client{
		baseURL: cfg.ServiceURL,
		anonKey: cfg.AnonKey,
		httpc:   &http.Client{},
	}
}

// Session returns the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// jsonEnvelope mirrors the service's response envelope with the payload
// left raw for a second decoding pass.
type jsonEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs one request against the service and decodes the envelope.
// A non-zero envelope code becomes a *errs.CustomError rebuilt from the
// wire; transport problems map to ErrConnectionFailed.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) *errs.CustomError {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.NewError(errs.ErrUnknown, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.NewError(errs.ErrConnectionFailed)
	}

	req.Header.Set("apikey", c.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		logx.Warn("Request to service failed", "method", method, "path", path, "error", err)
		return errs.NewError(errs.ErrConnectionFailed)
	}
	defer res.Body.Close()

	var envelope jsonEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		logx.Warn("Service response was not a valid envelope", "path", path, "error", err)
		return errs.NewError(errs.ErrConnectionFailed)
	}

	if envelope.Code != 0 {
		return errs.FromResponse(envelope.Code, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			logx.Warn("Service payload did not match expected shape", "path", path, "error", err)
			return errs.NewError(errs.ErrUnknown, err)
		}
	}

	return nil
}
