// Package jira is a minimal client for the Jira Server REST API v2:
// identity check, field and project listing, and issue creation.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrMissingCredentials = errors.New("missing credentials")
)

// StatusError is returned for any response outside the expected statuses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// Unwrap maps auth and lookup statuses onto the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Credentials authenticate requests. A non-empty Token selects Bearer
// auth with a personal access token; otherwise Basic auth is used.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// UsesToken reports whether the credentials authenticate with a PAT.
func (c Credentials) UsesToken() bool {
	return c.Token != ""
}

// Validate rejects an empty username or an empty secret.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrMissingCredentials)
	}
	if c.UsesToken() {
		return nil
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password or access token required", ErrMissingCredentials)
	}
	return nil
}

func (c Credentials) apply(req *http.Request) {
	if c.UsesToken() {
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return
	}
	req.SetBasicAuth(c.Username, c.Password)
}

// Client is an HTTP client for one Jira server.
type Client struct {
	BaseURL string
	Creds   Credentials
	HTTP    *http.Client
}

// New creates a client for baseURL.
func New(baseURL string, creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Creds:   creds,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// User is the response of GET /rest/api/2/myself.
type User struct {
	Name         string `json:"name"`
	Key          string `json:"key"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Field is one entry of GET /rest/api/2/field.
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// Project is one entry of GET /rest/api/2/project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CreatedIssue is the response of POST /rest/api/2/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// issueRequest is the body of POST /rest/api/2/issue.
type issueRequest struct {
	Fields map[string]any `json:"fields"`
}

// Myself verifies the credentials. Only a 200 response counts as valid.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var resp User
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/myself", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Fields lists every field definition, system and custom.
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
	var resp []Field
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/field", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp, nil
}

// Projects lists the projects visible to the user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var resp []Project
	if err := c.do(ctx, http.MethodGet, "/rest/api/2/project", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateIssue creates one issue from a fields object.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (*CreatedIssue, error) {
	var resp CreatedIssue
	err := c.do(ctx, http.MethodPost, "/rest/api/2/issue", issueRequest{Fields: fields}, &resp,
		http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	if resp.Key == "" {
		return nil, fmt.Errorf("create issue: response has no key")
	}
	return &resp, nil
}

// --- HTTP helpers ---

// do executes an authenticated request and decodes the response into result
// when the status is one of ok.
func (c *Client) do(ctx context.Context, method, path string, body, result any, ok ...int) error {
	if err := c.Creds.Validate(); err != nil {
		return err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Creds.apply(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if !statusIn(resp.StatusCode, ok) {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

func statusIn(code int, ok []int) bool {
	for _, c := range ok {
		if code == c {
			return true
		}
	}
	return false
}
