package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/strrl/docuflow/pkg/apperrors"
	"github.com/strrl/docuflow/pkg/models"
)

// Source is the document service as seen by the viewer
type Source interface {
	ListDocuments(ctx context.Context, userID string) ([]models.Document, error)
	GetSummary(ctx context.Context, docID models.DocID, lang string) (models.Summary, error)
}

// Client talks to the remote document service over HTTP
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewClient creates a client for baseURL (for example http://host/api)
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

var _ Source = (*Client)(nil)

// ListDocuments calls GET /documents/{userID}
func (c *Client) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	var list models.DocumentList
	reqURL := fmt.Sprintf("%s/documents/%s", c.baseURL, url.PathEscape(userID))
	if err := c.getJSON(ctx, reqURL, "", &list); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if list.Data == nil {
		return []models.Document{}, nil
	}
	return list.Data, nil
}

// GetSummary calls GET /summary/{docID}?lang=xx. A response without a
// summary field yields an empty Summary, not an error.
func (c *Client) GetSummary(ctx context.Context, docID models.DocID, lang string) (models.Summary, error) {
	if docID.IsZero() {
		return models.Summary{}, apperrors.NewValidationError("document id is required")
	}

	query := url.Values{}
	if lang != "" {
		query.Set("lang", lang)
	}
	reqURL := fmt.Sprintf("%s/summary/%s", c.baseURL, url.PathEscape(docID.String()))
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var summary models.Summary
	if err := c.getJSON(ctx, reqURL, lang, &summary); err != nil {
		return models.Summary{}, fmt.Errorf("get summary %s: %w", docID, err)
	}
	summary.DocID = docID
	summary.Language = lang
	return summary, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL, lang string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return apperrors.NewNotFoundError(reqURL)
		}
		return apperrors.NewUpstreamError("unexpected response", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewDecodeError("failed to decode response", err)
	}
	return nil
}
