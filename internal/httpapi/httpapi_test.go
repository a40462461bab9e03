package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcjwsn/semindex/internal/corpus"
	"github.com/mcjwsn/semindex/internal/engine"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	docs := []corpus.Document{
		{ID: 0, Title: "Cats", Text: "The cats are barking and the dogs are running!"},
		{ID: 1, Title: "Dogs", Text: "The dogs are barking and the cats are running!"},
	}
	e, err := engine.Build(docs)
	if err != nil {
		t.Fatalf("engine.Build: %v", err)
	}
	return e
}

func TestHandleStats(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.DocumentCount != 2 {
		t.Errorf("document_count = %d, want 2", got.DocumentCount)
	}
	if got.VocabularySize == 0 {
		t.Error("vocabulary_size = 0, want > 0")
	}
}

func TestHandleSearch(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	body, _ := json.Marshal(searchRequest{Query: "cat", Limit: 5})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got []searchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) == 0 {
		t.Error("expected at least one search result")
	}
}

func TestHandleSearch_UnknownModeIsBadRequest(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	body, _ := json.Marshal(searchRequest{Query: "cat", Mode: "bogus"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearch_InvalidBody(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDoc(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/doc/1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got searchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != 1 || got.Title != "Dogs" {
		t.Errorf("got %+v", got)
	}
}

func TestHandleDoc_NotFound(t *testing.T) {
	t.Parallel()
	mux := NewMux(testEngine(t))

	req := httptest.NewRequest(http.MethodGet, "/doc/999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
