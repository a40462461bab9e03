// Package tfidf builds the sparse, L2-normalised term-document matrix
// and its accompanying idf vector from tokenised documents.
package tfidf

import (
	"math"

	"github.com/mcjwsn/semindex/internal/sparse"
	"github.com/mcjwsn/semindex/internal/vocab"
)

// Matrix holds the TF-IDF weighted, column-normalised sparse matrix A
// together with the idf vector it was built from.
type Matrix struct {
	A   *sparse.CSC
	IDF []float64
}

// Build runs the two-pass TF-IDF construction described by spec.md
// §4.3 over docs (each already tokenised+stemmed) against vocab. Pass
// one counts per-document term occurrences and document frequency;
// pass two emits weighted triplets and L2-normalises each column.
//
// An empty vocabulary or empty corpus yields a valid, empty matrix
// with a well-formed (possibly empty) idf vector — no error.
func Build(docs [][]string, v *vocab.Vocabulary) *Matrix {
	n := len(docs)
	vSize := v.Len()

	df := make([]int, vSize)
	counts := make([]map[int]int, n)
	totalTokens := make([]int, n)

	for d, doc := range docs {
		counts[d] = make(map[int]int)
		for _, term := range doc {
			idx, ok := v.Index(term)
			if !ok {
				continue
			}
			counts[d][idx]++
			totalTokens[d]++
		}
		for idx := range counts[d] {
			df[idx]++
		}
	}

	idf := make([]float64, vSize)
	for t, dfCount := range df {
		if dfCount == 0 {
			idf[t] = 0
			continue
		}
		idf[t] = math.Log(float64(n) / float64(dfCount))
	}

	coo := sparse.NewCOO(vSize, n)
	for d := 0; d < n; d++ {
		if totalTokens[d] == 0 {
			continue
		}
		for term, count := range counts[d] {
			weight := (float64(count) / float64(totalTokens[d])) * idf[term]
			coo.Add(term, d, weight)
		}
	}

	A := coo.ToCSC()
	for d := 0; d < n; d++ {
		norm := A.ColumnNorm2(d)
		if norm == 0 {
			continue
		}
		A.ScaleColumn(d, 1/norm)
	}

	return &Matrix{A: A, IDF: idf}
}
