// Package client is the Go client for the hostel API. It wraps each endpoint in a
// typed method, attaches the bearer token of an explicit Session and normalises
// failures to *Error.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Config holds client configuration
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api
	BaseURL string
	Timeout time.Duration
	// NoCache disables the read-through GET cache even when the session has one
	NoCache bool
}

// Client talks to one API deployment on behalf of one Session
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	noCache    bool
}

// New creates a client. session may be nil for anonymous use.
func New(cfg Config, session *Session) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if session == nil {
		session = NewSession(0)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    session,
		noCache:    cfg.NoCache,
	}
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

// envelope is the wire shape of every response
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Count     *int            `json:"count"`
	Data      json.RawMessage `json:"data"`
	WeekRange json.RawMessage `json:"weekRange"`
	Errors    []string        `json:"errors"`
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get issues a GET, answering from the session cache when it can
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := c.url(path, query)
	key := c.session.AccessToken() + " " + u

	if !c.noCache {
		if body, ok := c.session.cached(key); ok {
			return decodeEnvelope(http.StatusOK, body)
		}
	}

	body, status, err := c.send(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(status, body)
	if err != nil {
		return nil, err
	}
	if !c.noCache {
		c.session.remember(key, body)
	}
	return env, nil
}

// mutate issues a write. Writes are never cached and invalidate what is.
func (c *Client) mutate(ctx context.Context, method, path string, payload interface{}) (*envelope, error) {
	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.write(ctx, method, path, body, contentType)
}

func (c *Client) write(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	respBody, status, err := c.send(ctx, method, c.url(path, nil), body, contentType)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(status, respBody)
	if err != nil {
		return nil, err
	}
	c.session.Invalidate()
	return env, nil
}

func (c *Client) send(ctx context.Context, method, u string, body io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Message: fmt.Sprintf("send request: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Message: fmt.Sprintf("read response: %v", err), Status: resp.StatusCode}
	}
	return respBody, resp.StatusCode, nil
}

func decodeEnvelope(status int, body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("unexpected response (%d %s)", status, http.StatusText(status)),
			Status:  status,
		}
	}

	if status >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, &Error{Message: msg, Status: status, Errors: env.Errors}
	}
	return &env, nil
}

func decodeData[T any](env *envelope) (T, error) {
	var out T
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode data: %w", err)
	}
	return out, nil
}
