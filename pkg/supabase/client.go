// Package supabase provides a thin Supabase (PostgREST) JSON API client
// that only covers the row operations the application needs: select with
// filters and ordering, insert, update and delete against named tables.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(projectURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(projectURL, "/") + "/rest/v1/",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

var (
	ErrInvalidKey = errors.New("the Supabase API key was rejected")
	ErrNotFound   = errors.New("no matching row found")
)

// From starts a query against a named table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

type Query struct {
	client *Client
	table  string
	params url.Values
}

// Select restricts the returned columns, PostgREST style ("id,name").
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

func (q *Query) Gte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("gte.%v", value))
	return q
}

func (q *Query) Lte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("lte.%v", value))
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	direction := "desc"
	if ascending {
		direction = "asc"
	}
	q.params.Set("order", column+"."+direction)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Get runs the select and decodes the result set into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	resp, err := q.do(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dest)
}

// Single runs the select and decodes exactly one row into dest,
// returning ErrNotFound when the result set is empty.
func (q *Query) Single(ctx context.Context, dest any) error {
	raw := json.RawMessage{}
	if err := q.Limit(1).Get(ctx, &raw); err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(rows[0], dest)
}

// Insert posts one record (or a slice of records) and decodes the
// representation returned by the store into dest when dest is non-nil.
func (q *Query) Insert(ctx context.Context, record any, dest any) error {
	resp, err := q.do(ctx, http.MethodPost, record)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// Update patches the rows matched by the query's filters.
func (q *Query) Update(ctx context.Context, patch any) error {
	resp, err := q.do(ctx, http.MethodPatch, patch)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Delete removes the rows matched by the query's filters.
func (q *Query) Delete(ctx context.Context) error {
	resp, err := q.do(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (q *Query) do(ctx context.Context, method string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := q.client.baseURL + q.table
	if len(q.params) > 0 {
		endpoint += "?" + q.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", q.client.apiKey)
	req.Header.Set("Authorization", "Bearer "+q.client.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := q.client.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode > 299 {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidKey
		}
		return nil, decodeError(q.table, resp)
	}

	return resp, nil
}

func decodeError(table string, resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("supabase request on %q failed: %s", table, apiErr.Message)
	}
	return fmt.Errorf("supabase request on %q failed: %s", table, string(bodyBytes))
}
