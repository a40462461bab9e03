package query

import (
	"math/rand"
	"testing"

	"github.com/mcjwsn/semindex/internal/svd"
	"github.com/mcjwsn/semindex/internal/tfidf"
	"github.com/mcjwsn/semindex/internal/tokenize"
	"github.com/mcjwsn/semindex/internal/vocab"
)

func s1Evaluator(t *testing.T) *Evaluator {
	t.Helper()
	stop := map[string]struct{}{"and": {}}
	tok := tokenize.New(stop)
	docs := [][]string{
		tok.Tokenize("Cats and dogs"),
		tok.Tokenize("Dogs bark"),
	}
	v := vocab.Build(docs)
	m := tfidf.Build(docs, v)
	return New(tok, v, m.IDF, m.A)
}

// TestSearch_S4TFIDFQueries is spec.md's literal S4 scenario.
func TestSearch_S4TFIDFQueries(t *testing.T) {
	t.Parallel()
	ev := s1Evaluator(t)

	results, err := ev.Search("dogs", ModeTFIDF, 0, 10)
	if err != nil {
		t.Fatalf("Search(dogs) error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search(dogs) = %v, want 2 results", results)
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("Search(dogs)[doc %d].Score = %v, want 0 (idf(dog)=0)", r.DocIndex, r.Score)
		}
	}

	results, err = ev.Search("cats", ModeTFIDF, 0, 10)
	if err != nil {
		t.Fatalf("Search(cats) error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search(cats) = %v, want exactly 1 result", results)
	}
	if results[0].DocIndex != 0 {
		t.Errorf("Search(cats) doc = %d, want 0", results[0].DocIndex)
	}
	if results[0].Score < 1-1e-9 || results[0].Score > 1+1e-9 {
		t.Errorf("Search(cats) score = %v, want 1", results[0].Score)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()
	ev := s1Evaluator(t)
	results, err := ev.Search("", ModeTFIDF, 0, 10)
	if err != nil || len(results) != 0 {
		t.Errorf("Search(\"\") = (%v, %v), want (empty, nil)", results, err)
	}
}

func TestSearch_OutOfVocabularyQuery(t *testing.T) {
	t.Parallel()
	ev := s1Evaluator(t)
	results, err := ev.Search("xylophone zzz", ModeTFIDF, 0, 10)
	if err != nil || len(results) != 0 {
		t.Errorf("Search(oov) = (%v, %v), want (empty, nil)", results, err)
	}
}

func TestSearch_UnknownMode(t *testing.T) {
	t.Parallel()
	ev := s1Evaluator(t)
	_, err := ev.Search("cats", Mode("bogus"), 0, 10)
	if err == nil {
		t.Fatal("expected UnknownModeError")
	}
	var target *UnknownModeError
	if !asUnknownModeError(err, &target) {
		t.Errorf("error = %v, want *UnknownModeError", err)
	}
}

func asUnknownModeError(err error, target **UnknownModeError) bool {
	e, ok := err.(*UnknownModeError)
	if ok {
		*target = e
	}
	return ok
}

// TestSearch_S6LSIRanking builds a small corpus where two documents
// share a latent topic with the query via synonym overlap but no
// direct term overlap, and asserts LSI ranks them above the unrelated
// document while TF-IDF cannot (no shared terms at all under TF-IDF).
func TestSearch_S6LSIRanking(t *testing.T) {
	t.Parallel()
	tok := tokenize.New(nil, tokenize.WithStemming(false))
	docs := [][]string{
		tok.Tokenize("automobile vehicle engine"), // doc 0: car-topic via synonym "automobile"
		tok.Tokenize("banana fruit orange"),        // doc 1: unrelated topic
		tok.Tokenize("car vehicle engine"),         // doc 2: car-topic, direct term overlap
	}
	v := vocab.Build(docs)
	m := tfidf.Build(docs, v)
	ev := New(tok, v, m.IDF, m.A)

	triplet, err := svd.Truncate(m.A, 2, 50, 1e-6, svd.WithRandSource(rand.New(rand.NewSource(11))))
	if err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	ev.AddRank(2, triplet)

	results, err := ev.Search("car", ModeLSI, 2, 10)
	if err != nil {
		t.Fatalf("Search(car, lsi): %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one LSI result")
	}
	pos := make(map[int]int, len(results))
	for i, r := range results {
		pos[r.DocIndex] = i
	}
	if len(pos) != 3 || pos[1] < pos[0] || pos[1] < pos[2] {
		t.Errorf("LSI ranking = %v, want docs 0 and 2 ranked above doc 1", results)
	}

	tfidfResults, err := ev.Search("car", ModeTFIDF, 0, 10)
	if err != nil {
		t.Fatalf("Search(car, tfidf): %v", err)
	}
	// Direct term overlap only happens for doc 2 under TF-IDF.
	for _, r := range tfidfResults {
		if r.DocIndex == 0 && r.Score != 0 {
			t.Errorf("TF-IDF unexpectedly scored doc 0 (no shared term): %v", r.Score)
		}
	}
}

func TestSearch_RankClamping(t *testing.T) {
	t.Parallel()
	ev := s1Evaluator(t)
	triplet, err := svd.Truncate(ev.a, 2, 50, 1e-6, svd.WithRandSource(rand.New(rand.NewSource(5))))
	if err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	ev.AddRank(2, triplet)

	// Requesting a rank far larger than what's registered must clamp,
	// not fail (spec.md §8 boundary 10).
	if _, err := ev.Search("cats", ModeLSI, 1000, 10); err != nil {
		t.Errorf("Search with oversized rank failed: %v", err)
	}
}
