// Package postgrest talks to a hosted row-store over its REST interface
// (/rest/v1/<table>), authenticated with an API key.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

const (
	restPath     = "rest/v1"
	singleObject = "application/vnd.pgrst.object+json"
)

type Client struct {
	baseURL *url.URL
	key     string
	table   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for table at endpoint (e.g. https://xyz.example.co).
func New(endpoint, key, table string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("postgrest: empty endpoint")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("postgrest: empty api key")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("postgrest: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("postgrest: endpoint must be http(s), got %q", endpoint)
	}
	if table == "" {
		table = store.DefaultTable
	}
	c := &Client{baseURL: u, key: key, table: table, http: http.DefaultClient}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Select(ctx context.Context, order store.Order) ([]model.Item, error) {
	if err := order.Validate(); err != nil {
		return nil, &store.Error{Op: "select", Err: err}
	}
	dir := "desc"
	if order.Ascending {
		dir = "asc"
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", order.Column+"."+dir)

	var items []model.Item
	if _, err := c.do(ctx, "select", http.MethodGet, q, nil, nil, &items); err != nil {
		return nil, err
	}
	// a body of "null" decodes to nil
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Client) Insert(ctx context.Context, row model.NewItem) (model.Item, error) {
	h := http.Header{}
	h.Set("Prefer", "return=representation")
	h.Set("Accept", singleObject)

	var it model.Item
	if _, err := c.do(ctx, "insert", http.MethodPost, url.Values{"select": {"*"}}, h, row, &it); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch store.Patch) error {
	if patch.Empty() {
		return nil
	}
	h := http.Header{}
	h.Set("Prefer", "return=minimal")
	_, err := c.do(ctx, "update", http.MethodPatch, idFilter(id), h, patch, nil)
	return err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	h := http.Header{}
	h.Set("Prefer", "return=minimal")
	_, err := c.do(ctx, "delete", http.MethodDelete, idFilter(id), h, nil, nil)
	return err
}

// Count asks for an exact count without fetching rows.
func (c *Client) Count(ctx context.Context) (int, error) {
	q := url.Values{}
	q.Set("select", store.ColumnID)
	q.Set("limit", "0")
	h := http.Header{}
	h.Set("Prefer", "count=exact")

	resp, err := c.do(ctx, "count", http.MethodGet, q, h, nil, nil)
	if err != nil {
		return 0, err
	}
	n, err := parseContentRangeTotal(resp.Header.Get("Content-Range"))
	if err != nil {
		return 0, &store.Error{Op: "count", Status: resp.StatusCode, Err: err}
	}
	return n, nil
}

func idFilter(id int64) url.Values {
	return url.Values{store.ColumnID: {"eq." + strconv.FormatInt(id, 10)}}
}

// apiError is the error body the row-store returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) do(ctx context.Context, op, method string, q url.Values, h http.Header, body, out any) (*http.Response, error) {
	u := c.baseURL.JoinPath(restPath, c.table)
	u.RawQuery = q.Encode()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &store.Error{Op: op, Err: fmt.Errorf("marshal: %w", err)}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, &store.Error{Op: op, Err: err}
	}
	for k, vs := range h {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &store.Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &store.Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode >= 300 {
		se := &store.Error{Op: op, Status: resp.StatusCode}
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && (ae.Code != "" || ae.Message != "") {
			se.Code, se.Message, se.Hint = ae.Code, ae.Message, ae.Hint
		} else {
			se.Message = strings.TrimSpace(string(raw))
		}
		return nil, se
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &store.Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
		}
	}
	return resp, nil
}

// parseContentRangeTotal reads the total from "0-24/3573" or "*/0".
func parseContentRangeTotal(v string) (int, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("content-range %q has no total", v)
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return 0, fmt.Errorf("content-range %q: %w", v, err)
	}
	return n, nil
}
