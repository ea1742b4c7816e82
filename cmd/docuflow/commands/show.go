package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/internal/tui"
	"github.com/strrl/docuflow/pkg/models"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [doc-id]",
		Short: "Show documents or a summary without TUI",
		Long: `Show documents or a summary in a non-interactive format.
Without arguments: lists the user's documents
With a document id: prints its summary in the --lang language`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lang, _ := i18n.Parse(cfg.Language)

	source, err := newSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Source, err)
	}

	tr := i18n.MustNew(lang)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		return showSummary(cmd, out, source, tr, models.DocID(args[0]))
	}

	if err := cfg.RequireUser(); err != nil {
		return err
	}
	return showDocuments(cmd, out, source, tr, cfg.UserID)
}

func showDocuments(cmd *cobra.Command, out io.Writer, source api.Source, tr *i18n.Translator, userID string) error {
	docs, err := source.ListDocuments(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to fetch documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Fprintln(out, tr.T("noDocuments"))
		return nil
	}

	fmt.Fprintf(out, "%s:\n", tr.T("documentSummaries"))
	fmt.Fprintln(out, "==================")
	for i, doc := range docs {
		fmt.Fprintf(out, "%d. %s\n", i+1, doc.Title)
		fmt.Fprintf(out, "   ID: %s\n", doc.ID)
	}

	return nil
}

func showSummary(cmd *cobra.Command, out io.Writer, source api.Source, tr *i18n.Translator, docID models.DocID) error {
	summary, err := source.GetSummary(cmd.Context(), docID, string(tr.Language()))
	if err != nil {
		return fmt.Errorf("failed to fetch summary for %s: %w", docID, err)
	}

	text := tr.T("noSummary")
	if summary.HasContent() {
		text = summary.Summary
	}

	fmt.Fprintf(out, "%s (%s)\n", docID, tr.Language().Name())
	fmt.Fprintln(out, "==================")
	for _, line := range tui.WrapText(text, 80) {
		fmt.Fprintln(out, line)
	}

	return nil
}
