// Package httpapi is a thin stdlib net/http adapter over an
// *engine.Engine, exposing the request/response shapes spec.md §6
// defines: POST /search, GET /stats, GET /doc/{id}. Grounded on
// original_source/backend/src/main.rs's actix-web handlers
// (search/search_svd/stats) for the JSON shapes; translated to
// net/http since the teacher (a CLI, not a server) has no HTTP
// surface of its own and no other pack repo's web framework is
// otherwise exercised by this domain.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mcjwsn/semindex/internal/engine"
	"github.com/mcjwsn/semindex/internal/query"
	"github.com/mcjwsn/semindex/internal/xlog"
)

// requestTimeout is the context deadline given to a single search.
// EnsureRank checks the context only before it starts computing an
// SVD rank; a computation already under way runs to completion.
const requestTimeout = 30 * time.Second

// searchRequest is the POST /search body, per spec.md §6.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	Mode  string `json:"mode,omitempty"`
	K     int    `json:"k,omitempty"`
}

// searchResult is one entry of the POST /search response.
type searchResult struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
	Title string  `json:"title"`
	URL   string  `json:"url,omitempty"`
	Text  string  `json:"text"`
}

// statsResponse is the GET /stats response.
type statsResponse struct {
	DocumentCount  int `json:"document_count"`
	VocabularySize int `json:"vocabulary_size"`
}

// errorResponse is the body returned for client and server errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewMux builds the routed handler for e.
func NewMux(e *engine.Engine) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", handleSearch(e))
	mux.HandleFunc("GET /stats", handleStats(e))
	mux.HandleFunc("GET /doc/{id}", handleDoc(e))
	return mux
}

func handleSearch(e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := query.ModeTFIDF
		if req.Mode != "" {
			mode = query.Mode(req.Mode)
		}
		limit := req.Limit
		if limit <= 0 {
			limit = 10
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		results, err := e.Search(ctx, req.Query, mode, req.K, limit)
		if err != nil {
			var qerr *query.UnknownModeError
			if errors.As(err, &qerr) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			xlog.Logger().Error().Err(err).Msg("search failed")
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}

		out := make([]searchResult, 0, len(results))
		for _, res := range results {
			doc, ok := e.DocAt(res.DocIndex)
			if !ok {
				continue
			}
			out = append(out, searchResult{
				ID:    doc.ID,
				Score: res.Score,
				Title: doc.Title,
				URL:   doc.URL,
				Text:  doc.Text,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleStats(e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docCount, vocabSize := e.Stats()
		writeJSON(w, http.StatusOK, statsResponse{DocumentCount: docCount, VocabularySize: vocabSize})
	}
}

func handleDoc(e *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := r.PathValue("id")
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid document id")
			return
		}
		doc, ok := e.Doc(id)
		if !ok {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeJSON(w, http.StatusOK, searchResult{ID: doc.ID, Title: doc.Title, URL: doc.URL, Text: doc.Text})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		xlog.Logger().Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
