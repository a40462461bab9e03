// Package query implements the three scoring modes over a built
// index: raw TF-IDF cosine, LSI cosine in a rank-k latent subspace,
// and low-rank "noise filter" cosine.
package query

import (
	"fmt"
	"math"
	"sort"

	"github.com/mcjwsn/semindex/internal/sparse"
	"github.com/mcjwsn/semindex/internal/svd"
	"github.com/mcjwsn/semindex/internal/tokenize"
	"github.com/mcjwsn/semindex/internal/vocab"
)

// Mode selects a scoring strategy.
type Mode string

const (
	ModeTFIDF   Mode = "tfidf"
	ModeLSI     Mode = "lsi"
	ModeLowRank Mode = "lowrank"
)

// nearZeroNorm is the threshold below which a vector's norm is
// treated as zero for scoring purposes (spec.md §4.7).
const nearZeroNorm = 1e-12

// UnknownModeError reports a query for a mode the evaluator doesn't
// recognise (spec.md §7, QueryError{UnknownMode}).
type UnknownModeError struct {
	Mode Mode
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("query: unknown mode %q", e.Mode)
}

// Result is one scored document.
type Result struct {
	DocIndex int
	Score    float64
}

// Evaluator scores queries against a built TF-IDF matrix, optionally
// enriched with one or more truncated SVD triplets. Search only reads
// and is safe for concurrent use; AddRank writes the rank map and must
// not run concurrently with Search (Engine serialises the two with its
// mutex).
type Evaluator struct {
	tokenizer *tokenize.Tokenizer
	vocab     *vocab.Vocabulary
	idf       []float64
	a         *sparse.CSC

	ranks map[int]*rankArtifacts
}

type rankArtifacts struct {
	triplet *svd.Triplet
	// docCoordsLSI[:,d] = Sigma * Vt[:,d], precomputed per spec.md §3.
	docCoordsLSI [][]float64
	// lowRank is the reconstructed, column-normalised Aₖ (spec.md §4.6).
	lowRank *sparse.CSC
}

// New builds an Evaluator over the given vocabulary, idf vector and
// TF-IDF matrix. Tokenizer must use the same pipeline that built the
// corpus (spec.md §9, "tokenisation inconsistency").
func New(tok *tokenize.Tokenizer, v *vocab.Vocabulary, idf []float64, a *sparse.CSC) *Evaluator {
	return &Evaluator{
		tokenizer: tok,
		vocab:     v,
		idf:       idf,
		a:         a,
		ranks:     make(map[int]*rankArtifacts),
	}
}

// AddRank registers a truncated SVD triplet for rank k, precomputing
// the LSI document coordinates and the low-rank reconstruction needed
// by ModeLSI and ModeLowRank.
func (e *Evaluator) AddRank(k int, triplet *svd.Triplet) {
	_, n := triplet.Vt.Dims()
	coords := make([][]float64, n)
	for d := 0; d < n; d++ {
		col := make([]float64, triplet.Rank)
		for j := 0; j < triplet.Rank; j++ {
			col[j] = triplet.Sigma[j] * triplet.Vt.At(j, d)
		}
		coords[d] = col
	}
	e.ranks[k] = &rankArtifacts{
		triplet:      triplet,
		docCoordsLSI: coords,
		lowRank:      svd.Reconstruct(triplet, 0),
	}
}

// buildQueryVector tokenises text and builds the sparse query vector
// q[t] = (count_t / total_query_terms) * idf(t), L2-normalised when its
// norm is nonzero, per the shared prefix in spec.md §4.7. Returns nil
// only when the query has no in-vocabulary terms at all; a query whose
// matched terms all carry idf=0 (spec.md §8 S4) still returns its
// (all-zero) vector so Search can report the overlapping documents at
// score 0, rather than being indistinguishable from no match.
func (e *Evaluator) buildQueryVector(text string) map[int]float64 {
	tokens := e.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		idx, ok := e.vocab.Index(tok)
		if !ok {
			continue
		}
		counts[idx]++
		total++
	}
	if total == 0 {
		return nil
	}

	q := make(map[int]float64, len(counts))
	var sumSq float64
	for idx, count := range counts {
		w := (float64(count) / float64(total)) * e.idf[idx]
		q[idx] = w
		sumSq += w * w
	}
	if norm := math.Sqrt(sumSq); norm > 0 {
		for idx := range q {
			q[idx] /= norm
		}
	}
	return q
}

// Search evaluates text under mode, returning the top limit results
// sorted by descending score with ties broken by ascending document
// index. An empty query, or a query consisting entirely of
// out-of-vocabulary terms, returns an empty result list with no error
// (spec.md §8 boundaries 8-9).
func (e *Evaluator) Search(text string, mode Mode, k, limit int) ([]Result, error) {
	q := e.buildQueryVector(text)
	if q == nil {
		return nil, nil
	}

	var results []Result
	switch mode {
	case ModeTFIDF:
		results = e.searchTFIDF(q, e.a)
	case ModeLSI:
		results = e.searchLSI(q, k)
	case ModeLowRank:
		art := e.selectRank(k)
		if art == nil {
			return nil, nil
		}
		results = e.searchTFIDF(q, art.lowRank)
	default:
		return nil, &UnknownModeError{Mode: mode}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocIndex < results[j].DocIndex
	})

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

// searchTFIDF scores q against the columns of m by signed cosine
// similarity. Used directly for ModeTFIDF (m = the built TF-IDF
// matrix A) and, identically, for ModeLowRank (m = the reconstructed
// Aₖ) — the "noise filter" mode is the same term-space scoring rule
// applied to a denoised matrix, per spec.md §4.7. A document is
// included whenever its column shares at least one vocabulary index
// with q, regardless of the resulting score — a shared term with
// idf=0 still counts as a match (spec.md §8 S4), and "score happens to
// be zero" must stay distinguishable from "term absent".
func (e *Evaluator) searchTFIDF(q map[int]float64, m *sparse.CSC) []Result {
	_, n := m.Dims()
	results := make([]Result, 0, n)
	for d := 0; d < n; d++ {
		rows, values := m.Column(d)
		if len(rows) == 0 {
			continue
		}
		colVals := make(map[int]float64, len(rows))
		for i, r := range rows {
			colVals[r] = values[i]
		}
		var score float64
		overlap := false
		for idx, w := range q {
			v, ok := colVals[idx]
			if !ok {
				continue
			}
			overlap = true
			score += w * v
		}
		if overlap {
			results = append(results, Result{DocIndex: d, Score: score})
		}
	}
	return results
}

// searchLSI scores q in the rank-k latent subspace of the rank chosen
// by selectRank (spec.md §8 boundary 10: "k larger than min(V,N) is
// clamped").
func (e *Evaluator) searchLSI(q map[int]float64, k int) []Result {
	art := e.selectRank(k)
	if art == nil {
		return nil
	}

	qTilde := make([]float64, art.triplet.Rank)
	for j := 0; j < art.triplet.Rank; j++ {
		var sum float64
		for idx, w := range q {
			sum += art.triplet.U.At(idx, j) * w
		}
		qTilde[j] = sum
	}
	qNorm := math.Sqrt(dot(qTilde, qTilde))
	if qNorm < nearZeroNorm {
		return nil
	}

	// Unlike the sparse term-space matrices searchTFIDF scores, the
	// latent coordinates are dense: every document shares all rank
	// dimensions with qTilde, so "overlap" is unconditional here and a
	// zero score (e.g. an all-zero document coordinate) must still be
	// reported rather than silently dropped, per spec.md §8 S4.
	results := make([]Result, 0, len(art.docCoordsLSI))
	for d, dvec := range art.docCoordsLSI {
		score := scoreCosine(qTilde, qNorm, dvec)
		results = append(results, Result{DocIndex: d, Score: score})
	}
	return results
}

func scoreCosine(qTilde []float64, qNorm float64, dvec []float64) float64 {
	dNorm := math.Sqrt(dot(dvec, dvec))
	if dNorm < nearZeroNorm {
		return 0
	}
	return dot(qTilde, dvec) / (qNorm * dNorm)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// selectRank returns the artifacts for the largest registered rank
// not exceeding k; if every registered rank exceeds k, the smallest
// registered rank; nil only if no rank is registered.
func (e *Evaluator) selectRank(k int) *rankArtifacts {
	if art, ok := e.ranks[k]; ok {
		return art
	}
	best := -1
	for rk := range e.ranks {
		if rk <= k && rk > best {
			best = rk
		}
	}
	if best == -1 {
		// No rank <= k is available; fall back to the smallest
		// registered rank so an over-large request is still answered.
		for rk := range e.ranks {
			if best == -1 || rk < best {
				best = rk
			}
		}
	}
	if best == -1 {
		return nil
	}
	return e.ranks[best]
}
