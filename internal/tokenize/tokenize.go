// Package tokenize implements the tokeniser and Porter-style stemmer
// shared by corpus indexing and query evaluation. Both must run the same
// pipeline (spec.md §9, "tokenisation inconsistency") so that scoring is
// well-defined.
package tokenize

import "strings"

const minTokenLength = 3

// Tokenizer splits text into stemmed, stop-word-filtered terms.
type Tokenizer struct {
	stopWords map[string]struct{}
	stem      bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStemming enables or disables the Porter stemming step. Enabled by
// default; spec.md §6 lists "Porter stemmer on/off" as a configuration
// knob.
func WithStemming(enabled bool) Option {
	return func(t *Tokenizer) { t.stem = enabled }
}

// New returns a Tokenizer using stopWords (nil or empty disables
// stop-word filtering entirely).
func New(stopWords map[string]struct{}, opts ...Option) *Tokenizer {
	t := &Tokenizer{stopWords: stopWords, stem: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize lower-cases text, extracts maximal runs of ASCII letters,
// discards tokens shorter than three letters and stop words, and stems
// surviving tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	lower := strings.ToLower(text)

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := lower[start:end]
		start = -1
		if len(word) < minTokenLength {
			return
		}
		if _, stop := t.stopWords[word]; stop {
			return
		}
		if t.stem {
			word = Stem(word)
		}
		tokens = append(tokens, word)
	}

	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'z' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lower))

	return tokens
}
