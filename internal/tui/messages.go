package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/viewer"
	"github.com/strrl/docuflow/pkg/models"
)

// Message types for async operations
type (
	// DocumentsLoadedMsg contains the user's documents
	DocumentsLoadedMsg struct {
		Documents []models.Document
		Error     error
	}

	// SummaryLoadedMsg carries the outcome of one summary fetch
	SummaryLoadedMsg struct {
		Result viewer.FetchResult
	}

	// TickMsg is sent periodically for spinner animation
	TickMsg time.Time
)

var tickInterval = 100 * time.Millisecond

// loadDocumentsCmd loads the document list asynchronously
func loadDocumentsCmd(ctx context.Context, source api.Source, userID string) tea.Cmd {
	return func() tea.Msg {
		docs, err := source.ListDocuments(ctx, userID)
		return DocumentsLoadedMsg{
			Documents: docs,
			Error:     err,
		}
	}
}

// fetchSummaryCmd fetches one summary asynchronously
func fetchSummaryCmd(ctx context.Context, source api.Source, req viewer.FetchRequest) tea.Cmd {
	return func() tea.Msg {
		return SummaryLoadedMsg{Result: viewer.Fetch(ctx, source, req)}
	}
}

// tickCmd creates a ticker for spinner animation
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
