package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/config"
	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/internal/logging"
	"github.com/strrl/docuflow/internal/store"
	"github.com/strrl/docuflow/internal/tui"
	"github.com/strrl/docuflow/internal/viewer"
)

type globalFlags struct {
	configPath string
	userID     string
	lang       string
	source     string
	apiURL     string
	dataDir    string
	logFile    string
	logLevel   string
	debug      bool
}

var flags globalFlags

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docuflow",
		Short: "Browse document summaries in English and Malayalam",
		Long: `docuflow is a terminal viewer for the document summaries of a DocuFlow user.
Documents are listed as an accordion; opening one fetches its summary in the
current language, and the language can be switched at any time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&flags.userID, "user", "", "User whose documents are shown")
	pf.StringVar(&flags.lang, "lang", "", "Display language (en, ml)")
	pf.StringVar(&flags.source, "source", "", "Where documents come from (api, local)")
	pf.StringVar(&flags.apiURL, "api-url", "", "Base URL of the document API")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory with documents*.jsonl and summaries*.jsonl")
	pf.StringVar(&flags.logFile, "log-file", "", "Log file path")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flags.debug, "debug", false, "Run in debug mode (print documents without TUI)")

	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and lets explicitly set flags win
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("user") {
		cfg.UserID = flags.userID
	}
	if set("lang") {
		cfg.Language = flags.lang
	}
	if set("source") {
		cfg.Source = flags.source
	}
	if set("api-url") {
		cfg.API.BaseURL = flags.apiURL
	}
	if set("data-dir") {
		cfg.Local.DataDir = flags.dataDir
	}
	if set("log-file") {
		cfg.Log.File = flags.logFile
	}
	if set("log-level") {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSource(cfg *config.Config) (api.Source, error) {
	switch cfg.Source {
	case config.SourceLocal:
		return store.NewLocal(cfg.Local.DataDir)
	default:
		return api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout), nil
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireUser(); err != nil {
		return err
	}
	lang, _ := i18n.Parse(cfg.Language)

	source, err := newSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", cfg.Source, err)
	}

	// Debug mode: print documents and one summary without TUI
	if flags.debug {
		logger := logging.New(cfg.Log.Level, os.Stderr)
		return runDebugMode(cmd.Context(), cmd.OutOrStdout(), source, cfg, lang, logger)
	}

	logger, closer, err := logging.NewFile(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.WithFields(logrus.Fields{
		"user_id": cfg.UserID,
		"source":  cfg.Source,
		"lang":    lang,
	}).Info("Starting viewer")

	err = tui.ShowTUI(cmd.Context(), tui.Options{
		Source:          source,
		UserID:          cfg.UserID,
		Language:        lang,
		QualifyLanguage: cfg.Cache.QualifyLanguage,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runDebugMode(ctx context.Context, out io.Writer, source api.Source, cfg *config.Config, lang i18n.Language, logger logrus.FieldLogger) error {
	v := viewer.New(viewer.Options{
		UserID:          cfg.UserID,
		Language:        lang,
		QualifyLanguage: cfg.Cache.QualifyLanguage,
		Logger:          logger,
	})
	v.LoadDocuments(ctx, source)

	tr := i18n.MustNew(lang)
	fmt.Fprintf(out, "=== Debug Mode: %s (%s, %s) ===\n", cfg.UserID, cfg.Source, lang)
	if v.Empty() {
		fmt.Fprintln(out, tr.T("noDocuments"))
		return nil
	}

	for i, doc := range v.Documents() {
		fmt.Fprintf(out, "%d. %s (%s)\n", i+1, doc.Title, doc.ID)

		if i == 0 {
			// Open the first document as an example
			if req := v.Toggle(doc.ID); req != nil {
				v.Resolve(viewer.Fetch(ctx, source, *req))
			}
			for _, line := range tui.WrapText(v.PanelText(tr), 76) {
				fmt.Fprintf(out, "   %s\n", line)
			}
		}
	}
	return nil
}
