// Package viewer holds the view state of the document summary page: the
// loaded document list, the single expanded accordion row, and the
// in-memory summary cache keyed by document id.
//
// A Viewer is not safe for concurrent use. It is owned by one event loop
// (the bubbletea Update goroutine); fetches run elsewhere and report back
// through Resolve.
package viewer

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/pkg/models"
)

// Translator looks up display strings
type Translator interface {
	T(key string) string
}

// FetchRequest asks for one document's summary. RequestID doubles as the
// in-flight marker: only the result carrying the latest id is applied.
type FetchRequest struct {
	RequestID string
	DocID     models.DocID
	Language  i18n.Language
}

// FetchResult is the outcome of a FetchRequest
type FetchResult struct {
	RequestID string
	DocID     models.DocID
	Language  i18n.Language
	Summary   models.Summary
	Err       error
}

// Row is one accordion row as rendered
type Row struct {
	Doc      models.Document
	Expanded bool
}

// Options configures a Viewer
type Options struct {
	UserID   string
	Language i18n.Language
	// QualifyLanguage treats a cached summary in another language as a miss.
	QualifyLanguage bool
	Logger          logrus.FieldLogger
}

type entry struct {
	lang i18n.Language
	text string
}

// Viewer is the summary page state
type Viewer struct {
	userID  string
	lang    i18n.Language
	qualify bool
	logger  logrus.FieldLogger
	newID   func() string

	docs       []models.Document
	docsLoaded bool
	expanded   models.DocID
	cache      map[models.DocID]entry
	inflight   map[models.DocID]FetchRequest
}

// New creates an empty viewer for one user
func New(opts Options) *Viewer {
	lang := opts.Language
	if lang == "" {
		lang = i18n.English
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Viewer{
		userID:   opts.UserID,
		lang:     lang,
		qualify:  opts.QualifyLanguage,
		logger:   logger,
		newID:    uuid.NewString,
		docs:     []models.Document{},
		cache:    make(map[models.DocID]entry),
		inflight: make(map[models.DocID]FetchRequest),
	}
}

// UserID returns the user whose documents are shown
func (v *Viewer) UserID() string { return v.userID }

// Language returns the active display language
func (v *Viewer) Language() i18n.Language { return v.lang }

// Expanded returns the open document, or the zero id when none is open
func (v *Viewer) Expanded() models.DocID { return v.expanded }

// Documents returns the loaded documents in service order
func (v *Viewer) Documents() []models.Document { return v.docs }

// DocumentsLoaded reports whether the list request has completed
func (v *Viewer) DocumentsLoaded() bool { return v.docsLoaded }

// Empty reports whether the list request completed with no documents
func (v *Viewer) Empty() bool { return v.docsLoaded && len(v.docs) == 0 }

// LoadDocuments requests the user's documents and stores them
func (v *Viewer) LoadDocuments(ctx context.Context, src api.Source) {
	docs, err := src.ListDocuments(ctx, v.userID)
	v.SetDocuments(docs, err)
}

// SetDocuments stores the result of a list request. A failed request is
// logged and leaves the list empty.
func (v *Viewer) SetDocuments(docs []models.Document, err error) {
	v.docsLoaded = true
	if err != nil {
		v.logger.WithError(err).WithField("user_id", v.userID).Error("Error fetching docs")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	v.docs = docs
}

// Toggle opens id, or closes it when it is already open. Opening a document
// closes any other. The returned request is non-nil when the summary has to
// be fetched.
func (v *Viewer) Toggle(id models.DocID) *FetchRequest {
	if id.IsZero() {
		return nil
	}
	if v.expanded == id {
		v.expanded = ""
		return nil
	}
	v.expanded = id
	return v.ensureSummary(id)
}

// ToggleLanguage switches to the other language. The open document's cache
// entry is dropped and fetched again in the new language; other entries are
// kept as they are.
func (v *Viewer) ToggleLanguage() (i18n.Language, *FetchRequest) {
	v.lang = v.lang.Next()
	if v.expanded.IsZero() {
		return v.lang, nil
	}
	delete(v.cache, v.expanded)
	delete(v.inflight, v.expanded)
	return v.lang, v.ensureSummary(v.expanded)
}

func (v *Viewer) ensureSummary(id models.DocID) *FetchRequest {
	if v.cached(id) {
		return nil
	}
	// A pending request only covers the document in the current language.
	// Replacing it makes the older response stale.
	if req, ok := v.inflight[id]; ok && req.Language == v.lang {
		return nil
	}
	req := FetchRequest{
		RequestID: v.newID(),
		DocID:     id,
		Language:  v.lang,
	}
	v.inflight[id] = req
	return &req
}

func (v *Viewer) cached(id models.DocID) bool {
	e, ok := v.cache[id]
	if !ok {
		return false
	}
	return !v.qualify || e.lang == v.lang
}

// Resolve applies a fetch result. Results whose request is no longer the
// in-flight one for the document are dropped and Resolve returns false.
func (v *Viewer) Resolve(res FetchResult) bool {
	req, ok := v.inflight[res.DocID]
	if !ok || req.RequestID != res.RequestID {
		v.logger.WithFields(logrus.Fields{
			"doc_id":     res.DocID,
			"request_id": res.RequestID,
		}).Debug("Dropping stale summary response")
		return false
	}
	delete(v.inflight, res.DocID)

	if res.Err != nil {
		v.logger.WithError(res.Err).WithFields(logrus.Fields{
			"doc_id":     res.DocID,
			"lang":       res.Language,
			"request_id": res.RequestID,
		}).Error("Error fetching summary")
		return true
	}

	v.cache[res.DocID] = entry{lang: res.Language, text: res.Summary.Summary}
	return true
}

// Loading reports whether the open document is waiting for its summary
func (v *Viewer) Loading() bool {
	if v.expanded.IsZero() {
		return false
	}
	return v.InFlight(v.expanded) && !v.cached(v.expanded)
}

// InFlight reports whether a fetch for id has not resolved yet
func (v *Viewer) InFlight(id models.DocID) bool {
	_, ok := v.inflight[id]
	return ok
}

// CachedSummary returns the cached text for id regardless of language
func (v *Viewer) CachedSummary(id models.DocID) (string, bool) {
	e, ok := v.cache[id]
	return e.text, ok
}

// PanelText is the content of the open accordion panel
func (v *Viewer) PanelText(t Translator) string {
	if v.expanded.IsZero() {
		return ""
	}
	if v.Loading() {
		return t.T("loading") + "..."
	}
	if v.cached(v.expanded) {
		if text := v.cache[v.expanded].text; text != "" {
			return text
		}
	}
	return t.T("noSummary")
}

// Rows returns one row per document
func (v *Viewer) Rows() []Row {
	rows := make([]Row, 0, len(v.docs))
	for _, doc := range v.docs {
		rows = append(rows, Row{Doc: doc, Expanded: doc.ID == v.expanded})
	}
	return rows
}

// Fetch runs req against src. It is meant to be called off the event loop.
func Fetch(ctx context.Context, src api.Source, req FetchRequest) FetchResult {
	summary, err := src.GetSummary(ctx, req.DocID, string(req.Language))
	return FetchResult{
		RequestID: req.RequestID,
		DocID:     req.DocID,
		Language:  req.Language,
		Summary:   summary,
		Err:       err,
	}
}
