package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	authPath      = "/auth/v1"
	restPath      = "/rest/v1"
	functionsPath = "/functions/v1"
)

// HTTPClient implements AuthAPI, DataAPI and FunctionsAPI against one
// project URL.
type HTTPClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	now     func() time.Time
}

var (
	_ AuthAPI      = (*HTTPClient)(nil)
	_ DataAPI      = (*HTTPClient)(nil)
	_ FunctionsAPI = (*HTTPClient)(nil)
)

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
		now:     time.Now,
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends r and decodes a 2xx JSON body into dest when dest is non-nil.
func (c *HTTPClient) do(ctx context.Context, r request, dest any) error {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := r.token
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, errorMessage(raw))
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage digs the human readable text out of an error body. The auth,
// data and function backends each use a different field for it.
func errorMessage(raw []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, k := range []string{"error_description", "msg", "message", "error"} {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
