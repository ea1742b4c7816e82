package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/pkg/apperrors"
	"github.com/strrl/docuflow/pkg/models"
)

// MockSource is an in-memory api.Source
type MockSource struct {
	documents map[string][]models.Document
	summaries map[string]string // key: docID + "/" + lang
	err       error
}

func NewMockSource() *MockSource {
	return &MockSource{
		documents: map[string][]models.Document{
			"u1": {{ID: "d1", Title: "Lease agreement"}, {ID: "d2", Title: "Board minutes"}},
		},
		summaries: map[string]string{
			"d1/en": "A twelve month lease.",
			"d1/ml": "പന്ത്രണ്ട് മാസത്തെ പാട്ടം.",
		},
	}
}

func (m *MockSource) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	docs := m.documents[userID]
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (m *MockSource) GetSummary(ctx context.Context, docID models.DocID, lang string) (models.Summary, error) {
	if m.err != nil {
		return models.Summary{}, m.err
	}
	return models.Summary{DocID: docID, Language: lang, Summary: m.summaries[string(docID)+"/"+lang]}, nil
}

func newTestRouter(src *MockSource) http.Handler {
	logger, _ := logtest.NewNullLogger()
	return NewRouter(NewDocumentHandler(src, logger), logger)
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewRouter_Health(t *testing.T) {
	rr := serve(t, newTestRouter(NewMockSource()), httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestListDocuments(t *testing.T) {
	rr := serve(t, newTestRouter(NewMockSource()), httptest.NewRequest(http.MethodGet, "/api/documents/u1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var list models.DocumentList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, models.DocID("d1"), list.Data[0].ID)
}

func TestListDocumentsUnknownUserIsEmpty(t *testing.T) {
	rr := serve(t, newTestRouter(NewMockSource()), httptest.NewRequest(http.MethodGet, "/api/documents/nobody", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestListDocumentsError(t *testing.T) {
	src := NewMockSource()
	src.err = apperrors.NewInternalError("db down", errors.New("boom"))

	rr := serve(t, newTestRouter(src), httptest.NewRequest(http.MethodGet, "/api/documents/u1", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error"`)
}

func TestGetSummaryLanguageSelection(t *testing.T) {
	h := newTestRouter(NewMockSource())

	tests := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{"query", "/api/summary/d1?lang=ml", "", "പന്ത്രണ്ട് മാസത്തെ പാട്ടം."},
		{"header", "/api/summary/d1", "ml-IN", "പന്ത്രണ്ട് മാസത്തെ പാട്ടം."},
		{"default", "/api/summary/d1", "", "A twelve month lease."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rr := serve(t, h, req)
			require.Equal(t, http.StatusOK, rr.Code)

			var summary models.Summary
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
			assert.Equal(t, tt.want, summary.Summary)
		})
	}
}

func TestGetSummaryRejectsUnknownLanguage(t *testing.T) {
	rr := serve(t, newTestRouter(NewMockSource()), httptest.NewRequest(http.MethodGet, "/api/summary/d1?lang=fr", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSummaryMissingIsEmpty(t *testing.T) {
	rr := serve(t, newTestRouter(NewMockSource()), httptest.NewRequest(http.MethodGet, "/api/summary/d2?lang=en", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var summary models.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.False(t, summary.HasContent())
}

// The HTTP client and the router agree on the wire format.
func TestClientAgainstRouter(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(NewMockSource()))
	defer srv.Close()

	client := api.NewClient(srv.URL+"/api", "", 2*time.Second)
	ctx := context.Background()

	docs, err := client.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	summary, err := client.GetSummary(ctx, "d1", "ml")
	require.NoError(t, err)
	assert.Equal(t, "പന്ത്രണ്ട് മാസത്തെ പാട്ടം.", summary.Summary)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/documents/u1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rr := serve(t, newTestRouter(NewMockSource()), req)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
