package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultStopWords is the built-in English stop-word list used when no
// --stopwords path is given. Grounded on the teacher's `stopwords` map
// in lsa.go, extended with a few closed-class words the Rust corpus
// file carried; words already excluded by the length>=3 rule (spec.md
// §4.1) need no entry here.
var DefaultStopWords = buildDefaultStopWords()

func buildDefaultStopWords() map[string]struct{} {
	words := []string{
		"the", "and", "that", "have", "for", "not", "with", "this", "but",
		"from", "they", "say", "her", "she", "will", "one", "all", "would",
		"there", "their", "what", "about", "who", "which", "when", "make",
		"like", "just", "him", "know", "take", "come", "could", "than",
		"look", "use", "into", "some", "them", "other", "then", "now",
		"only", "also", "after", "way", "our", "how", "more", "been",
		"was", "were", "are", "has", "had", "did", "does", "let", "may",
		"should", "must", "shall", "very", "much", "too", "because",
		"while", "where", "being", "having", "these", "those", "such",
		"here", "yet",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// LoadStopWords reads one stop word per line from path, trimmed and
// lower-cased; blank lines are skipped. Grounded on
// original_source/backend/src/preprocessing/tokenizer.rs's
// load_stop_words.
func LoadStopWords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open stop words %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck
	return parseStopWords(f)
}

func parseStopWords(r io.Reader) (map[string]struct{}, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("corpus: scan stop words: %w", err)
	}
	return words, nil
}
