// Package client calls a playnotes endpoint over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// Error is a failure envelope returned by the endpoint, or a transport
// failure when Status is non-zero and the body is not an envelope.
type Error struct {
	Status  int    // HTTP status, 0 when the envelope arrived with 200.
	Message string // Remote error message.
	Stack   string // Remote stack, when the endpoint reported one.
}

func (e *Error) Error() string {
	if e.Status != 0 && e.Status != http.StatusOK {
		return fmt.Sprintf("playnotes: status %d: %s", e.Status, e.Message)
	}
	return "playnotes: " + e.Message
}

// Client posts requests to one endpoint URL.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends Authorization: Bearer <key> with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a Client for the endpoint at url (for example
// "http://localhost:8080/exec").
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends req and returns the decoded envelope. A failure envelope is
// returned together with an *Error.
func (c *Client) Post(ctx context.Context, req types.Request) (types.Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return types.Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return types.Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.Response{}, fmt.Errorf("post %s: %w", req.Action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Response{}, fmt.Errorf("read response: %w", err)
	}

	var out types.Response
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return types.Response{}, &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return types.Response{}, fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		e := &Error{Message: out.Error, Stack: out.Stack}
		if resp.StatusCode != http.StatusOK {
			e.Status = resp.StatusCode
		}
		return out, e
	}
	return out, nil
}

// Exists reports whether a note with id exists for user.
func (c *Client) Exists(ctx context.Context, user, id string) (bool, error) {
	resp, err := c.Post(ctx, types.Request{
		Action: types.ActionExists,
		User:   user,
		ID:     types.FlexString(id),
	})
	if err != nil {
		return false, err
	}
	return resp.Exists != nil && *resp.Exists, nil
}

// UpsertNote creates or updates the note rec for user.
func (c *Client) UpsertNote(ctx context.Context, user string, rec types.Record) error {
	in, err := types.NewRecordInput(rec)
	if err != nil {
		return err
	}
	_, err = c.Post(ctx, types.Request{
		Action: types.ActionUpsertNote,
		User:   user,
		Record: in,
	})
	return err
}

// AddTracks appends items to the playlist of note id and returns how many
// were added. Items are trimmed and those missing a link or text are dropped
// before sending.
func (c *Client) AddTracks(ctx context.Context, user, id string, items []types.IncomingItem) (int, error) {
	clean := make([]types.IncomingItem, 0, len(items))
	for _, it := range items {
		it.Link = strings.TrimSpace(it.Link)
		it.Text = strings.TrimSpace(it.Text)
		if it.Link != "" && it.Text != "" {
			clean = append(clean, it)
		}
	}

	resp, err := c.Post(ctx, types.Request{
		Action: types.ActionAddTrack,
		User:   user,
		ID:     types.FlexString(id),
		Items:  clean,
	})
	if err != nil {
		return 0, err
	}
	if resp.Added == nil {
		return 0, nil
	}
	return *resp.Added, nil
}
