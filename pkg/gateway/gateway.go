// Package gateway is the thin adapter between the scheduling engine and
// the external record store. It holds no business logic: load the
// snapshot, save new assignments, pass store errors through untouched.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dlemaire/roster-api-go/pkg/models"
)

// Client talks to the external record store over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	// etag from the last assignment load; sent back as If-Match on save so
	// the store can reject writes against a stale snapshot.
	etag string
}

// NewClient builds a store client. token may be empty when the store does
// not require authentication.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// LoadSnapshot pulls active employees, active slots, and the assignments
// in [from, to] for a center, then validates record shapes before handing
// them to the engine. center may be empty for single-center stores.
func (c *Client) LoadSnapshot(ctx context.Context, from, to, center string) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	empQuery := url.Values{"status": {"active"}}
	if center != "" {
		empQuery.Set("center", center)
	}
	if err := c.get(ctx, "load employees", "/employees", empQuery, &snap.Employees); err != nil {
		return nil, err
	}

	slotQuery := url.Values{"active": {"true"}}
	if center != "" {
		slotQuery.Set("center", center)
	}
	if err := c.get(ctx, "load slots", "/slots", slotQuery, &snap.Slots); err != nil {
		return nil, err
	}

	asgnQuery := url.Values{"from": {from}, "to": {to}}
	if center != "" {
		asgnQuery.Set("center", center)
	}
	if err := c.get(ctx, "load assignments", "/assignments", asgnQuery, &snap.Assignments); err != nil {
		return nil, err
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveResult is the store's answer to a bulk assignment save.
type SaveResult struct {
	// Saved holds the persisted assignments, with server-assigned IDs.
	Saved []models.Assignment `json:"assignments"`
	// Rejected holds records the store refused (e.g. referential
	// integrity), each with its reason; a reject does not fail the batch.
	Rejected []RejectedAssignment `json:"rejected,omitempty"`
}

// RejectedAssignment pairs a refused record with the store's reason.
type RejectedAssignment struct {
	Assignment models.Assignment `json:"assignment"`
	Reason     string            `json:"reason"`
}

// SaveAssignments bulk-persists newly created assignments. Placeholder IDs
// from the engine are stripped; the store assigns real ones. A 409 or 412
// response comes back as *StaleScheduleError, any other failure as *Error.
func (c *Client) SaveAssignments(ctx context.Context, assignments []models.Assignment) (*SaveResult, error) {
	const op = "save assignments"

	outgoing := make([]models.Assignment, len(assignments))
	copy(outgoing, assignments)
	for i := range outgoing {
		outgoing[i].ID = ""
	}

	body, err := json.Marshal(map[string][]models.Assignment{"assignments": outgoing})
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assignments", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.etag != "" {
		req.Header.Set("If-Match", c.etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusPreconditionFailed:
		return nil, &StaleScheduleError{ETag: c.etag}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response")}
	}

	var result SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response")}
	}
	if etag := resp.Header.Get("ETag"); etag != "" {
		c.etag = etag
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}
