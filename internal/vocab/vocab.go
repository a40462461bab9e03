// Package vocab builds the dense term-index mapping shared by the
// TF-IDF matrix builder and the query evaluator.
package vocab

import "sort"

// Vocabulary maps distinct terms to stable column indices, sorted
// lexicographically so that builds are deterministic across runs over
// the same corpus.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// Build collects the distinct terms across docs (each a slice of
// tokens, e.g. the output of tokenize.Tokenizer.Tokenize) and assigns
// each a dense index in sorted order.
func Build(docs [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, term := range doc {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	return &Vocabulary{terms: terms, index: index}
}

// FromTerms rebuilds a Vocabulary from an already sorted term list, as
// read back from persistence (persist.Terms.Vocabulary). The caller is
// responsible for the list being sorted; this is not re-verified since
// it is only ever produced by Build followed by a round trip through
// gob encode/decode, which preserves order.
func FromTerms(terms []string) *Vocabulary {
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &Vocabulary{terms: terms, index: index}
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Index returns the column index of term and whether it is present in
// the vocabulary.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column index i. Panics if i is out of
// range, mirroring slice indexing semantics.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Terms returns the full sorted term list. The caller must not mutate
// the returned slice.
func (v *Vocabulary) Terms() []string {
	return v.terms
}
