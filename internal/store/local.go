// Package store serves documents and summaries from JSON Lines exports on
// disk, queried through DuckDB. It backs `docuflow --source local` and the
// mock API started by `docuflow serve`.
//
// Expected layout under the data directory:
//
//	documents*.jsonl  {"doc_id": "...", "user_id": "...", "title": "..."}
//	summaries*.jsonl  {"doc_id": "...", "lang": "en", "summary": "..."}
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/db"
	"github.com/strrl/docuflow/pkg/apperrors"
	"github.com/strrl/docuflow/pkg/models"
)

const (
	documentsPattern = "documents*.jsonl"
	summariesPattern = "summaries*.jsonl"
	queryTimeout     = 15 * time.Second
)

// Local is an api.Source over JSONL files
type Local struct {
	dataDir string
	db      *sql.DB
}

var _ api.Source = (*Local)(nil)

// NewLocal opens the shared DuckDB connection for dataDir
func NewLocal(dataDir string) (*Local, error) {
	database, err := db.GetDB()
	if err != nil {
		return nil, err
	}
	return &Local{dataDir: dataDir, db: database}, nil
}

// ListDocuments returns the user's documents in file order
func (l *Local) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	glob, ok, err := l.glob(documentsPattern)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Document{}, nil
	}

	query := fmt.Sprintf(`
		SELECT
			CAST(doc_id AS VARCHAR) AS doc_id,
			COALESCE(CAST(title AS VARCHAR), '') AS title,
			CAST(user_id AS VARCHAR) AS user_id
		FROM read_json(%s,
			format = 'newline_delimited',
			union_by_name = true
		)
		WHERE CAST(user_id AS VARCHAR) = ?
		AND doc_id IS NOT NULL
	`, db.QuoteLiteral(glob))

	select {
	case result := <-executeDocumentsQueryAsync(ctx, l.db, query, userID):
		if result.Error != nil {
			return nil, apperrors.NewInternalError("failed to list documents", result.Error)
		}
		return result.Documents, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetSummary looks up the summary for (docID, lang). A missing row is an
// empty summary.
func (l *Local) GetSummary(ctx context.Context, docID models.DocID, lang string) (models.Summary, error) {
	empty := models.Summary{DocID: docID, Language: lang}
	if docID.IsZero() {
		return empty, apperrors.NewValidationError("document id is required")
	}

	glob, ok, err := l.glob(summariesPattern)
	if err != nil {
		return empty, err
	}
	if !ok {
		return empty, nil
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(CAST(summary AS VARCHAR), '') AS summary
		FROM read_json(%s,
			format = 'newline_delimited',
			union_by_name = true
		)
		WHERE CAST(doc_id AS VARCHAR) = ?
		AND lower(CAST(lang AS VARCHAR)) = lower(?)
		LIMIT 1
	`, db.QuoteLiteral(glob))

	select {
	case result := <-executeSummaryQueryAsync(ctx, l.db, query, docID.String(), lang):
		if result.Error != nil {
			return empty, apperrors.NewInternalError("failed to read summary", result.Error)
		}
		empty.Summary = result.Summary
		return empty, nil
	case <-ctx.Done():
		return empty, ctx.Err()
	}
}

// glob reports whether any file matches pattern in the data directory
func (l *Local) glob(pattern string) (string, bool, error) {
	full := filepath.Join(l.dataDir, pattern)
	matches, err := filepath.Glob(full)
	if err != nil {
		return "", false, apperrors.NewValidationError("invalid data directory", err.Error())
	}
	return full, len(matches) > 0, nil
}
