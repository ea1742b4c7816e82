package store

import (
	"context"
	"database/sql"

	"github.com/strrl/docuflow/pkg/models"
)

type documentsResult struct {
	Documents []models.Document
	Error     error
}

type summaryResult struct {
	Summary string
	Error   error
}

// executeDocumentsQueryAsync runs a documents query in the background. The
// channel yields at most one result and is closed afterwards.
func executeDocumentsQueryAsync(ctx context.Context, database *sql.DB, query string, args ...interface{}) <-chan documentsResult {
	resultChan := make(chan documentsResult, 1)

	go func() {
		defer close(resultChan)

		queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()

		rows, err := database.QueryContext(queryCtx, query, args...)
		if err != nil {
			resultChan <- documentsResult{Error: err}
			return
		}
		defer rows.Close()

		docs := []models.Document{}
		for rows.Next() {
			if err := ctx.Err(); err != nil {
				resultChan <- documentsResult{Error: err}
				return
			}

			var id, title string
			var userID sql.NullString
			if err := rows.Scan(&id, &title, &userID); err != nil {
				continue
			}
			docs = append(docs, models.Document{
				ID:     models.DocID(id),
				Title:  title,
				UserID: userID.String,
			})
		}
		if err := rows.Err(); err != nil {
			resultChan <- documentsResult{Error: err}
			return
		}

		resultChan <- documentsResult{Documents: docs}
	}()

	return resultChan
}

// executeSummaryQueryAsync runs a single-row summary query in the background
func executeSummaryQueryAsync(ctx context.Context, database *sql.DB, query string, args ...interface{}) <-chan summaryResult {
	resultChan := make(chan summaryResult, 1)

	go func() {
		defer close(resultChan)

		queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()

		var summary string
		err := database.QueryRowContext(queryCtx, query, args...).Scan(&summary)
		if err == sql.ErrNoRows {
			resultChan <- summaryResult{}
			return
		}
		resultChan <- summaryResult{Summary: summary, Error: err}
	}()

	return resultChan
}
