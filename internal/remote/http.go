package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/pkg/api"
)

// defaultPollInterval is how often WatchCollection polls the backend
// when no interval is configured.
const defaultPollInterval = 30 * time.Second

// HTTPStore talks to a remote backend over HTTP/JSON.
//
// Routes:
//
//	GET  /api/v1/collections/{collection}/changes?since=...&user_id=...
//	POST /api/v1/collections/{collection}/changes        (bulk push)
//	POST /api/v1/collections/{collection}/change         (single push)
type HTTPStore struct {
	httpClient   *http.Client
	baseURL      string
	pollInterval time.Duration
}

var _ Store = (*HTTPStore)(nil)

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithPollInterval sets how often WatchCollection polls for changes.
func WithPollInterval(d time.Duration) HTTPOption {
	return func(s *HTTPStore) { s.pollInterval = d }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.httpClient = c }
}

// NewHTTPStore creates a client for the backend at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL:      baseURL,
		pollInterval: defaultPollInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderID identifies the backend implementation.
func (s *HTTPStore) ProviderID() string {
	return "http:" + s.baseURL
}

// FetchChanges returns documents changed after since, or all when since
// is nil.
func (s *HTTPStore) FetchChanges(ctx context.Context, collection string, since *time.Time, userID string) ([]models.RawDocument, error) {
	query := url.Values{}
	if since != nil {
		query.Set("since", since.UTC().Format(time.RFC3339Nano))
	}
	if userID != "" {
		query.Set("user_id", userID)
	}

	path := fmt.Sprintf("/api/v1/collections/%s/changes", url.PathEscape(collection))
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp api.FetchResponse
	if err := s.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch changes failed: %w", err)
	}

	docs := make([]models.RawDocument, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, models.RawDocument(d))
	}
	return docs, nil
}

// PushChange sends a single document mutation.
func (s *HTTPStore) PushChange(ctx context.Context, collection string, doc models.RawDocument, op models.ChangeOp) error {
	body := api.Change{
		ID:        doc.ID(),
		Operation: string(op),
		Document:  doc,
		Timestamp: time.Now(),
	}

	path := fmt.Sprintf("/api/v1/collections/%s/change", url.PathEscape(collection))
	if err := s.doRequest(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("push change failed: %w", err)
	}
	return nil
}

// PushBatch sends queued change log entries as one bulk request.
func (s *HTTPStore) PushBatch(ctx context.Context, collection string, entries []models.ChangeLogEntry) error {
	req := api.PushRequest{Changes: make([]api.Change, 0, len(entries))}
	for _, e := range entries {
		req.Changes = append(req.Changes, api.Change{
			ID:        e.ID,
			Operation: string(e.Op),
			Document:  e.Document,
			Timestamp: e.Timestamp,
		})
	}

	path := fmt.Sprintf("/api/v1/collections/%s/changes", url.PathEscape(collection))
	if err := s.doRequest(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("push batch failed: %w", err)
	}
	return nil
}

// WatchCollection polls FetchChanges on the configured interval and
// streams every document seen. The backend owns no push channel, so
// polling is the real-time approximation; the channel closes when ctx
// is cancelled.
func (s *HTTPStore) WatchCollection(ctx context.Context, collection, userID string) (<-chan models.RawDocument, error) {
	ch := make(chan models.RawDocument, 16)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		watermark := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			since := watermark
			docs, err := s.FetchChanges(ctx, collection, &since, userID)
			if err != nil {
				// Transient failure; next tick retries from the same
				// watermark
				continue
			}
			watermark = time.Now()

			for _, doc := range docs {
				select {
				case ch <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// doRequest performs one HTTP round trip with JSON bodies.
func (s *HTTPStore) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
