// Package engine is the coordinator (spec.md §4.9): it turns a corpus
// into a built index (tokenise → vocabulary → TF-IDF), build-or-loads
// it from an on-disk cache, lazily build-or-loads per-rank SVD
// artefacts on demand, and exposes the query evaluator to callers. It
// is the one package allowed to hold mutable state — a memoization
// cache of already-computed ranks — and, with cli and httpapi, one of
// the packages that log.
package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcjwsn/semindex/internal/corpus"
	"github.com/mcjwsn/semindex/internal/persist"
	"github.com/mcjwsn/semindex/internal/query"
	"github.com/mcjwsn/semindex/internal/sparse"
	"github.com/mcjwsn/semindex/internal/svd"
	"github.com/mcjwsn/semindex/internal/tfidf"
	"github.com/mcjwsn/semindex/internal/tokenize"
	"github.com/mcjwsn/semindex/internal/vocab"
	"github.com/mcjwsn/semindex/internal/xlog"
)

// Engine holds the immutable built index (vocabulary, TF-IDF matrix,
// documents) plus the in-process rank memoization cache. The
// immutable fields need no locking once built or loaded; only the
// ranks map is mutable, guarded by mu, per spec.md §5.
type Engine struct {
	cfg Config

	docs      []corpus.Document
	vocab     *vocab.Vocabulary
	idf       []float64
	matrix    *sparse.CSC
	tokenizer *tokenize.Tokenizer
	eval      *query.Evaluator

	mu    sync.RWMutex
	ranks map[int]*svd.Triplet
}

// Build tokenises docs, constructs the vocabulary and TF-IDF matrix,
// and returns a ready-to-query Engine with no SVD ranks yet computed.
func Build(docs []corpus.Document, opts ...Option) (*Engine, error) {
	cfg := newConfig(opts...)

	stopWords := corpus.DefaultStopWords
	if cfg.StopWordsPath != "" {
		sw, err := corpus.LoadStopWords(cfg.StopWordsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexBuildFailed, err)
		}
		stopWords = sw
	}
	tok := tokenize.New(stopWords, tokenize.WithStemming(cfg.Stem))

	tokenised := make([][]string, len(docs))
	for i, d := range docs {
		tokenised[i] = tok.Tokenize(d.Text)
	}

	v := vocab.Build(tokenised)
	m := tfidf.Build(tokenised, v)

	e := &Engine{
		cfg:       cfg,
		docs:      docs,
		vocab:     v,
		idf:       m.IDF,
		matrix:    m.A,
		tokenizer: tok,
		eval:      query.New(tok, v, m.IDF, m.A),
		ranks:     make(map[int]*svd.Triplet),
	}

	xlog.Logger().Info().
		Int("documents", len(docs)).
		Int("vocabulary", v.Len()).
		Msg("index built")

	return e, nil
}

// Load reconstructs an Engine from the on-disk cache at base (the
// component files addressed by `<base>.idx`), per spec.md §4.8. The
// terms, documents and matrix files are read concurrently via
// errgroup, matching SPEC_FULL.md §13's "independent os.Open+decode
// sequences" note; the stop-word/stemming configuration used to build
// the cache is not itself persisted (spec.md leaves this to the
// caller), so cfg.StopWordsPath/Stem are only used to reconstruct a
// Tokenizer with the same pipeline for subsequent queries.
func Load(base string, opts ...Option) (*Engine, error) {
	cfg := newConfig(opts...)
	cfg.CacheBase = base

	manifest, err := persist.LoadManifest(base + ".idx")
	if err != nil {
		return nil, err
	}

	var terms *persist.Terms
	var docs []persist.Document
	var matrix *sparse.CSC

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		terms, err = persist.LoadTerms(manifest.TermsPath, warnf)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = persist.LoadDocs(manifest.DocsPath)
		return err
	})
	g.Go(func() error {
		var err error
		matrix, err = persist.LoadMatrix(manifest.MatrixPath, warnf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := vocab.FromTerms(terms.Vocabulary)

	stopWords := corpus.DefaultStopWords
	if cfg.StopWordsPath != "" {
		sw, err := corpus.LoadStopWords(cfg.StopWordsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexBuildFailed, err)
		}
		stopWords = sw
	}
	tok := tokenize.New(stopWords, tokenize.WithStemming(cfg.Stem))

	corpusDocs := make([]corpus.Document, len(docs))
	for i, d := range docs {
		corpusDocs[i] = corpus.Document{ID: d.ID, Title: d.Title, URL: d.URL, Text: d.Text}
	}

	e := &Engine{
		cfg:       cfg,
		docs:      corpusDocs,
		vocab:     v,
		idf:       terms.IDF,
		matrix:    matrix,
		tokenizer: tok,
		eval:      query.New(tok, v, terms.IDF, matrix),
		ranks:     make(map[int]*svd.Triplet),
	}

	xlog.Logger().Info().
		Str("build_id", manifest.BuildID).
		Int("documents", len(e.docs)).
		Msg("index loaded from cache")

	return e, nil
}

// Save persists the base index (terms, documents, matrix and the
// top-level manifest) under base, plus a DuckDB relational mirror
// alongside it, and records base as e.cfg.CacheBase. SVD ranks are
// saved by EnsureRank when it computes them after Save.
func (e *Engine) Save(base string) error {
	manifest := persist.NewManifest(base)
	if err := persist.SaveTerms(manifest.TermsPath, &persist.Terms{Vocabulary: e.vocab.Terms(), IDF: e.idf}); err != nil {
		return err
	}

	pdocs := make([]persist.Document, len(e.docs))
	for i, d := range e.docs {
		pdocs[i] = persist.Document{ID: d.ID, Title: d.Title, URL: d.URL, Text: d.Text}
	}
	if err := persist.SaveDocs(manifest.DocsPath, pdocs); err != nil {
		return err
	}
	if err := persist.SaveMatrix(manifest.MatrixPath, e.matrix); err != nil {
		return err
	}
	if err := persist.SaveManifest(base+".idx", manifest); err != nil {
		return err
	}

	mirror, err := persist.OpenMirror(base + ".duckdb")
	if err != nil {
		return err
	}
	defer mirror.Close() //nolint:errcheck
	if err := persist.MirrorDocuments(mirror, pdocs); err != nil {
		return err
	}

	e.cfg.CacheBase = base
	return nil
}

// EnsureRank returns the truncated SVD triplet for rank k, building it
// (and, if e.cfg.CacheBase is set, loading/saving it on disk) the
// first time it is requested, per spec.md §4.9's "only one SVD
// artefact need be resident to answer a single query". Subsequent
// calls for the same k in this process return the memoized triplet.
func (e *Engine) EnsureRank(ctx context.Context, k int) (*svd.Triplet, error) {
	e.mu.RLock()
	if t, ok := e.ranks[k]; ok {
		e.mu.RUnlock()
		return t, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.ranks[k]; ok {
		return t, nil
	}

	if e.cfg.CacheBase != "" {
		if t, err := persist.LoadSVD(persist.SVDPath(e.cfg.CacheBase, k), warnf); err == nil {
			e.ranks[k] = t
			e.eval.AddRank(k, t)
			return t, nil
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	t, err := svd.Truncate(e.matrix, k, e.cfg.LanczosIter, e.cfg.LanczosTol)
	if err != nil {
		xlog.Logger().Warn().Int("rank", k).Err(err).Msg("svd degenerate")
		return nil, fmt.Errorf("%w: rank %d: %v", ErrSvdDegenerate, k, err)
	}

	e.ranks[k] = t
	e.eval.AddRank(k, t)

	if e.cfg.CacheBase != "" {
		if err := persist.SaveSVD(persist.SVDPath(e.cfg.CacheBase, k), t); err != nil {
			xlog.Logger().Warn().Int("rank", k).Err(err).Msg("failed to persist svd artefact")
		}
		e.mirrorDocVectors(k, t)
	}

	return t, nil
}

// mirrorDocVectors recomputes the rank-k LSI document coordinates
// (coords[d] = Sigma * Vt[:,d], the same quantity query.AddRank
// precomputes for scoring) and writes them into the DuckDB mirror's
// doc_vectors table, per SPEC_FULL.md §10. Failures are logged, not
// fatal — the mirror is derived data the base index does not depend on.
func (e *Engine) mirrorDocVectors(k int, t *svd.Triplet) {
	mirror, err := persist.OpenMirror(e.cfg.CacheBase + ".duckdb")
	if err != nil {
		xlog.Logger().Warn().Int("rank", k).Err(err).Msg("failed to open mirror for doc_vectors")
		return
	}
	defer mirror.Close() //nolint:errcheck

	_, n := t.Vt.Dims()
	docIDs := make([]int, n)
	coords := make([][]float64, n)
	for d := 0; d < n; d++ {
		col := make([]float64, t.Rank)
		for j := 0; j < t.Rank; j++ {
			col[j] = t.Sigma[j] * t.Vt.At(j, d)
		}
		coords[d] = col
		if d < len(e.docs) {
			docIDs[d] = e.docs[d].ID
		}
	}

	if err := persist.MirrorDocVectors(mirror, k, docIDs, coords); err != nil {
		xlog.Logger().Warn().Int("rank", k).Err(err).Msg("failed to persist doc_vectors")
	}
}

// Search evaluates text under mode at latent rank k (ignored for
// ModeTFIDF), ensuring the rank is built first when mode needs one.
func (e *Engine) Search(ctx context.Context, text string, mode query.Mode, k, limit int) ([]query.Result, error) {
	if mode == query.ModeLSI || mode == query.ModeLowRank {
		if _, err := e.EnsureRank(ctx, k); err != nil {
			return nil, err
		}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.eval.Search(text, mode, k, limit)
}

// Stats returns the document count and vocabulary size, per spec.md
// §6's stats response.
func (e *Engine) Stats() (documentCount, vocabularySize int) {
	return len(e.docs), e.vocab.Len()
}

// Doc returns the stored document with the given id, per spec.md §6's
// document-fetch request. Duplicate ids (spec.md §9 Open Question
// (a)) resolve to the first match in ingestion order.
func (e *Engine) Doc(id int) (corpus.Document, bool) {
	for _, d := range e.docs {
		if d.ID == id {
			return d, true
		}
	}
	return corpus.Document{}, false
}

// DocAt returns the document at the given 0-based ingestion/matrix
// column position, as carried by query.Result.DocIndex. This is
// distinct from Doc, which looks up by the document's external,
// caller-assigned ID — the two only coincide when a corpus happens to
// assign ids equal to ingestion order, which spec.md does not require.
// Search results must be resolved through DocAt, not Doc.
func (e *Engine) DocAt(pos int) (corpus.Document, bool) {
	if pos < 0 || pos >= len(e.docs) {
		return corpus.Document{}, false
	}
	return e.docs[pos], true
}

func warnf(format string, args ...any) {
	xlog.Logger().Warn().Msgf(format, args...)
}
