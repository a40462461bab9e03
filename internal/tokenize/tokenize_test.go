package tokenize

import (
	"reflect"
	"testing"

	"github.com/mcjwsn/semindex/internal/corpus"
)

func TestTokenize_BasicPipeline(t *testing.T) {
	t.Parallel()
	tok := New(corpus.DefaultStopWords)
	got := tok.Tokenize("The Cats are Barking and the Dogs are Running!")
	want := []string{"cat", "bark", "dog", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_ShortWordsDropped(t *testing.T) {
	t.Parallel()
	tok := New(map[string]struct{}{"the": {}}, WithStemming(false))
	got := tok.Tokenize("a an ox by the go")
	if len(got) != 0 {
		t.Errorf("Tokenize() = %v, want no tokens (all below min length or stop words)", got)
	}
}

func TestTokenize_StemmingDisabled(t *testing.T) {
	t.Parallel()
	tok := New(map[string]struct{}{}, WithStemming(false))
	got := tok.Tokenize("running dogs")
	want := []string{"running", "dogs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_DigitsAndPunctuationAreSeparators(t *testing.T) {
	t.Parallel()
	tok := New(nil, WithStemming(false))
	got := tok.Tokenize("cat3dog, fish-bowl")
	want := []string{"cat", "dog", "fish", "bowl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()
	tok := New(corpus.DefaultStopWords)
	if got := tok.Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
}
