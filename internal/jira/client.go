// Package jira implements the rate-limited Jira REST client.
//
// Every outbound call goes through a single dispatch path (send) that
// first waits on the token-bucket limiter, so the rate limit applies
// structurally to all operations rather than by per-method convention.
// Responses and failures are normalized into the typed contract in
// errors.go; nothing is retried automatically.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/simplejira/jira-mcp/internal/config"
	"github.com/simplejira/jira-mcp/internal/ratelimit"
)

const apiPrefix = "/rest/api/2"

// Client is the single choke point for Jira API access. One instance is
// shared across concurrent tool invocations: the limiter synchronizes its
// own bookkeeping and everything else is immutable after construction.
type Client struct {
	baseURL  string
	username string
	apiToken string

	limiter *ratelimit.Limiter
	http    *http.Client
	log     *zap.Logger
}

// NewClient validates the configuration and builds a client with a fresh
// token bucket. Invalid credentials or rate parameters fail construction.
func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limiter, err := ratelimit.New(cfg.RateLimitCalls, cfg.RateLimitPeriod)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		apiToken: cfg.APIToken,
		limiter:  limiter,
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
		log:      log,
	}, nil
}

// CheckConnection probes the instance with a cheap authenticated call.
// Used as a startup health check; failure does not prevent serving.
func (c *Client) CheckConnection(ctx context.Context) error {
	var me struct {
		DisplayName string `json:"displayName"`
	}
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/myself", nil, nil, &me); err != nil {
		return err
	}
	c.log.Info("connected to jira",
		zap.String("url", c.baseURL),
		zap.String("account", me.DisplayName))
	return nil
}

// do performs one JSON API call: limiter, request, response normalization.
// out may be nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// send is the one place a request leaves the process. It blocks on the
// limiter (sleeping outside the limiter's lock), adds credentials, and
// maps failures into the error taxonomy. Exactly one network call per
// invocation — no retries.
func (c *Client) send(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.username, c.apiToken)
	c.log.Debug("jira request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, data)
		c.log.Debug("jira error response",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return nil, apiErr
	}
	return data, nil
}

// getRaw downloads bytes from an absolute URL (attachment content lives
// outside the REST prefix). Still rate limited like every other call.
func (c *Client) getRaw(ctx context.Context, absURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, absURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building attachment request: %w", err)
	}
	return c.send(req)
}

// uploadAttachment posts one file against an issue as a multipart form.
func (c *Client) uploadAttachment(ctx context.Context, issueKey, filename string, content []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("building attachment form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("writing attachment form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing attachment form: %w", err)
	}

	u := c.baseURL + apiPrefix + "/issue/" + url.PathEscape(issueKey) + "/attachments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return fmt.Errorf("building attachment upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	// Required by Jira to bypass XSRF protection on multipart uploads.
	req.Header.Set("X-Atlassian-Token", "no-check")

	_, err = c.send(req)
	return err
}

// issuePath builds the REST path for an issue resource.
func issuePath(key string, suffix ...string) string {
	p := apiPrefix + "/issue/" + url.PathEscape(key)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
