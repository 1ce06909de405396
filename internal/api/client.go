package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/xid"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the current bearer credential, if one is held.
// The client reads it per request and never stores or invalidates it.
type TokenSource interface {
	Token() (token string, ok bool)
}

// StaticToken is a TokenSource holding a fixed token. Empty means anonymous.
type StaticToken string

func (s StaticToken) Token() (string, bool) { return string(s), s != "" }

// Client talks to the code-review backend. It is a pure transport layer:
// it attaches the credential to every request and normalizes failures, but
// owns no session state.
type Client struct {
	baseURL string
	tokens  TokenSource
	httpCli *http.Client
}

// NewClient creates a backend client for the given base URL.
// A nil tokens source means every call goes out anonymous.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpCli: &http.Client{Timeout: timeout},
	}
}

// InitiateOAuth asks the backend for the provider authorization URL.
// Legal without a credential.
func (c *Client) InitiateOAuth(ctx context.Context) (string, error) {
	var out LoginURL
	if err := c.do(ctx, "initiate login", http.MethodGet, "/auth/github/login", nil, &out); err != nil {
		return "", err
	}
	if out.AuthURL == "" {
		return "", fmt.Errorf("initiate login: backend returned an empty authorization URL")
	}
	return out.AuthURL, nil
}

type exchangeRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// ExchangeCode trades an authorization code for a bearer token and the
// authenticated user. Legal without a credential. Authorization codes are
// single-use server-side; a replay fails like any other exchange failure.
func (c *Client) ExchangeCode(ctx context.Context, code, state string) (*Token, error) {
	var out Token
	err := c.do(ctx, "exchange code", http.MethodPost, "/auth/github/callback", exchangeRequest{Code: code, State: state}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCurrentUser returns the identity the current credential belongs to.
func (c *Client) FetchCurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, "fetch current user", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the backend to invalidate the current credential.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}

// SyncRepositories asks the backend to re-import the user's repositories
// from the provider and returns the refreshed set.
func (c *Client) SyncRepositories(ctx context.Context) (*SyncResult, error) {
	var out SyncResult
	if err := c.do(ctx, "sync repositories", http.MethodPost, "/repositories/sync", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRepositories returns a page of the user's synced repositories.
func (c *Client) ListRepositories(ctx context.Context, skip, limit int) ([]Repository, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", fmt.Sprintf("%d", skip))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/repositories/list"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Repository
	if err := c.do(ctx, "list repositories", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchRepositoryStats returns the backend's aggregate over synced repositories.
func (c *Client) FetchRepositoryStats(ctx context.Context) (*RepositoryStats, error) {
	var out RepositoryStats
	if err := c.do(ctx, "fetch repository stats", http.MethodGet, "/repositories/stats/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartAnalysis triggers an analysis run for one repository. Depending on the
// backend the returned status may be anything from pending to completed.
func (c *Client) StartAnalysis(ctx context.Context, repositoryID int64) (*AnalysisStart, error) {
	var out AnalysisStart
	path := fmt.Sprintf("/analysis/analyze/%d", repositoryID)
	if err := c.do(ctx, "start analysis", http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAnalysis returns the current snapshot of one analysis job, issues included.
func (c *Client) FetchAnalysis(ctx context.Context, analysisID int64) (*Analysis, error) {
	var out Analysis
	path := fmt.Sprintf("/analysis/%d", analysisID)
	if err := c.do(ctx, "fetch analysis", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAnalyses returns a page of the user's past analysis runs, newest first,
// without issue bodies.
func (c *Client) ListAnalyses(ctx context.Context, skip, limit int) ([]Analysis, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", fmt.Sprintf("%d", skip))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/analysis/list"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Analysis
	if err := c.do(ctx, "list analyses", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do issues one request and decodes the response into out (if non-nil).
// All failure paths return *Error.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", xid.New().String())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	slog.Debug("gateway request", "op", op, "method", method, "path", path)
	resp, err := c.httpCli.Do(req)
	if err != nil {
		slog.Debug("gateway transport failure", "op", op, "error", err)
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("gateway transport failure", "op", op, "error", err)
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	slog.Debug("gateway response", "op", op, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := KindBackend
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindUnauthorized
		case http.StatusNotFound:
			kind = KindNotFound
		}
		return &Error{
			Kind:   kind,
			Status: resp.StatusCode,
			Detail: parseDetail(data),
			Op:     op,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: parsing response: %w", op, err)
	}
	return nil
}
