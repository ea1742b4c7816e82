package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocID is an opaque document identifier. The document service sends it
// either as a JSON string or as a JSON number.
type DocID string

// UnmarshalJSON accepts both string and numeric identifiers
func (id *DocID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid doc_id: %w", err)
		}
		*id = DocID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid doc_id: %w", err)
	}
	*id = DocID(n.String())
	return nil
}

func (id DocID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset
func (id DocID) IsZero() bool {
	return id == ""
}

// Document is a user's document as listed by the document service
type Document struct {
	ID     DocID  `json:"doc_id"`
	Title  string `json:"title"`
	UserID string `json:"user_id,omitempty"`
}

// DocumentList is the list-documents response envelope
type DocumentList struct {
	Data []Document `json:"data"`
}

// Summary is a generated summary of one document in one language.
// An empty Summary means the service had nothing for it.
type Summary struct {
	DocID    DocID  `json:"doc_id,omitempty"`
	Language string `json:"lang,omitempty"`
	Summary  string `json:"summary"`
}

// HasContent reports whether the service returned summary text
func (s Summary) HasContent() bool {
	return s.Summary != ""
}
