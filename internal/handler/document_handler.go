package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/strrl/docuflow/internal/api"
	"github.com/strrl/docuflow/internal/i18n"
	"github.com/strrl/docuflow/pkg/apperrors"
	"github.com/strrl/docuflow/pkg/models"
)

// DocumentHandler serves the document and summary endpoints the viewer
// consumes
type DocumentHandler struct {
	source api.Source
	logger logrus.FieldLogger
}

// NewDocumentHandler creates a handler backed by source
func NewDocumentHandler(source api.Source, logger logrus.FieldLogger) *DocumentHandler {
	return &DocumentHandler{source: source, logger: logger}
}

// ListDocuments handles GET /api/documents/{userID}
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	docs, err := h.source.ListDocuments(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to list documents")
		writeError(w, apperrors.StatusCode(err), "failed to list documents")
		return
	}

	writeJSON(w, http.StatusOK, models.DocumentList{Data: docs})
}

// GetSummary handles GET /api/summary/{docID}?lang=xx. The language comes
// from the query string, then Accept-Language, then defaults to English.
func (h *DocumentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	docID := models.DocID(mux.Vars(r)["docID"])

	code := r.URL.Query().Get("lang")
	if code == "" {
		code = r.Header.Get("Accept-Language")
	}
	lang := i18n.English
	if code != "" {
		parsed, err := i18n.Parse(code)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		lang = parsed
	}

	summary, err := h.source.GetSummary(r.Context(), docID, string(lang))
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"doc_id": docID,
			"lang":   lang,
		}).Error("Failed to get summary")
		writeError(w, apperrors.StatusCode(err), "failed to get summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
