// Package notesapi provides a NoteGenerator adapter for the note
// generation service's HTTP API.
package notesapi

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

	"golang.org/x/oauth2"

	"github.com/wWordDevw/terap-ia/internal/adapters/driven/archive"
	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.NoteGenerator = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultBaseURL
	DefaultTimeout = time.Duration(domain.DefaultTimeoutSeconds) * time.Second

	// GenerateGroupWeekPath is the generation endpoint, relative to BaseURL.
	GenerateGroupWeekPath = "/api/v1/notes/generate-group-week"

	// maxErrorBody bounds the response body quoted in errors.
	maxErrorBody = 500
)

// Config holds configuration for the generation service client.
type Config struct {
	// BaseURL is the service root (default: http://localhost:3002).
	BaseURL string

	// Timeout bounds the whole request, including the archive download
	// (default: 5m). Generation is compute heavy.
	Timeout time.Duration

	// Token is an optional bearer token.
	Token string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client calls the generation service.
type Client struct {
	client  *http.Client
	baseURL string
}

// generateRequest is the generate-group-week request body.
type generateRequest struct {
	GroupID string `json:"groupId"`
	WeekID  string `json:"weekId"`
}

// New creates a generation service client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}

	client := &http.Client{Transport: base.Transport, Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		client = oauth2.NewClient(ctx, ts)
		client.Timeout = cfg.Timeout
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// GenerateGroupWeek asks the service to generate every note of the week
// and returns the archive it responds with.
func (c *Client) GenerateGroupWeek(ctx context.Context, groupID, weekID string) (*domain.DocumentBatch, error) {
	jsonBody, err := json.Marshal(generateRequest{GroupID: groupID, WeekID: weekID})
	if err != nil {
		return nil, &domain.RetrievalError{Op: "encode request", Err: err}
	}

	url := c.baseURL + GenerateGroupWeekPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &domain.RetrievalError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/zip")

	logger.Debug("POST %s groupId=%s weekId=%s", url, groupID, weekID)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.RetrievalError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	// Only 200 carries the archive; 202 or 204 would mean an unfinished or empty week.
	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(excerpt))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &domain.RetrievalError{Op: "request", StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RetrievalError{Op: "read body", StatusCode: resp.StatusCode, Err: err}
	}
	logger.Debug("received %d bytes in %s", len(body), time.Since(start).Round(time.Millisecond))

	return ReadBatch(body, groupID, weekID, url)
}

// ReadBatch unpacks a generation response. The body must be a zip
// archive holding at least one day-coded document.
func ReadBatch(body []byte, groupID, weekID, source string) (*domain.DocumentBatch, error) {
	fail := func(err error) error {
		return &domain.RetrievalError{Op: "read archive", Err: err}
	}

	if len(body) == 0 {
		return nil, fail(fmt.Errorf("%w: empty response body", domain.ErrInvalidInput))
	}
	if !archive.IsZip(body) {
		head := body
		if len(head) > 16 {
			head = head[:16]
		}
		return nil, fail(fmt.Errorf("%w: response is not a zip archive (starts with %q)", domain.ErrInvalidInput, head))
	}

	members, err := archive.ReadArchive(body)
	if err != nil {
		return nil, fail(err)
	}

	batch := &domain.DocumentBatch{
		GroupID: groupID,
		WeekID:  weekID,
		Source:  source,
		Members: members,
	}
	if len(batch.GroupByDay()) == 0 {
		return nil, fail(fmt.Errorf("%w: archive has no day-coded documents (%d members)",
			domain.ErrNotFound, len(members)))
	}
	return batch, nil
}
