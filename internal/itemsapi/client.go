package itemsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/kanban/internal/board"
)

// Remote defines the item operations the board needs from the server.
// This interface is implemented by *Client and can be used for testing.
type Remote interface {
	ListAll(ctx context.Context) ([]board.Item, error)
	CreateItem(ctx context.Context, text, listID string) (board.Item, error)
	UpdateItem(ctx context.Context, id string, patch Patch) error
	DeleteItem(ctx context.Context, id string) error
}

// Ensure Client implements Remote at compile time.
var _ Remote = (*Client)(nil)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	ListID *string `json:"listId,omitempty"`
	Text   *string `json:"text,omitempty"`
}

// ListPatch returns a patch that only moves the item to listID.
func ListPatch(listID string) Patch {
	return Patch{ListID: &listID}
}

// TextPatch returns a patch that only replaces the item text.
func TextPatch(text string) Patch {
	return Patch{Text: &text}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.ListID == nil && p.Text == nil
}

// Client talks to the items HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7488"
	defaultUserAgent = "kanban/0.1"
	requestTimeout   = 5 * time.Second
	itemsPath        = "/items"

	maxErrorBody = 4 << 10
)

// NewClient builds a Client using the provided apiBind host:port value. A
// timeout of zero uses the 5 second default.
func NewClient(apiBind string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListAll fetches every stored item.
func (c *Client) ListAll(ctx context.Context) ([]board.Item, error) {
	if c == nil {
		return nil, nilClientError(http.MethodGet)
	}
	var payload []board.Item
	if err := c.do(ctx, http.MethodGet, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

type createRequest struct {
	Text   string `json:"text"`
	ListID string `json:"listId"`
}

// CreateItem stores a new item and returns it with the server-assigned id.
func (c *Client) CreateItem(ctx context.Context, text, listID string) (board.Item, error) {
	if c == nil {
		return board.Item{}, nilClientError(http.MethodPost)
	}
	var created board.Item
	if err := c.do(ctx, http.MethodPost, createRequest{Text: text, ListID: listID}, &created); err != nil {
		return board.Item{}, err
	}
	if strings.TrimSpace(created.ID) == "" {
		return board.Item{}, &RemoteError{
			Op:  http.MethodPost + " " + itemsPath,
			Err: fmt.Errorf("response is missing the item id"),
		}
	}
	return created, nil
}

type updateRequest struct {
	ID string `json:"id"`
	Patch
}

// UpdateItem applies patch to the item with the given id.
func (c *Client) UpdateItem(ctx context.Context, id string, patch Patch) error {
	if c == nil {
		return nilClientError(http.MethodPut)
	}
	return c.do(ctx, http.MethodPut, updateRequest{ID: id, Patch: patch}, nil)
}

type deleteRequest struct {
	ID string `json:"id"`
}

// DeleteItem removes the item with the given id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if c == nil {
		return nilClientError(http.MethodDelete)
	}
	return c.do(ctx, http.MethodDelete, deleteRequest{ID: id}, nil)
}

func nilClientError(method string) error {
	return &RemoteError{Op: method + " " + itemsPath, Err: errors.New("client is nil")}
}

func (c *Client) do(ctx context.Context, method string, body, dest any) error {
	op := method + " " + itemsPath
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: itemsPath})

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_bind %q: missing host", apiBind)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
