// Package problem renders errors as RFC 7807 application/problem+json.
package problem

import (
	"encoding/json"
	"net/http"
)

const (
	mediaType   = "application/problem+json"
	baseTypeURL = "https://errors.profitbridge.dev/"
	traceHeader = "X-Trace-ID"
)

// Details is the RFC 7807 body, extended with the request's trace id.
type Details struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Type expands a short slug into this service's problem-type URI.
func Type(slug string) string {
	return baseTypeURL + slug
}

// Write sends the problem document. Empty title and type fall back to the
// status text and "about:blank" respectively.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, detail string) {
	d := Details{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		RequestID: w.Header().Get(traceHeader),
	}
	if d.Title == "" {
		d.Title = http.StatusText(status)
	}
	if d.Type == "" {
		d.Type = "about:blank"
	}
	if r != nil {
		d.Instance = r.URL.Path
		if d.RequestID == "" {
			d.RequestID = r.Header.Get(traceHeader)
		}
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(d)
}
