package corpus

import (
	"strings"
	"testing"
)

func TestLoadDump_BasicTwoDocuments(t *testing.T) {
	dump := strings.Join([]string{
		".I 1",
		".T",
		"Cats And Dogs",
		".A",
		"Jane Doe",
		".W",
		"The cats are barking and the dogs are running!",
		".I 2",
		".T",
		"Only Cats",
		".W",
		"Cats everywhere.",
	}, "\n")

	docs, err := LoadDump(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != 1 || docs[0].Title != "Cats And Dogs" {
		t.Errorf("doc 0 = %+v", docs[0])
	}
	if docs[0].Text != "The cats are barking and the dogs are running!" {
		t.Errorf("doc 0 text = %q", docs[0].Text)
	}
	if docs[1].ID != 2 || docs[1].Title != "Only Cats" {
		t.Errorf("doc 1 = %+v", docs[1])
	}
}

func TestLoadDump_MultilineTextSection(t *testing.T) {
	dump := strings.Join([]string{
		".I 7",
		".T",
		"A Title",
		".W",
		"line one",
		"line two",
		"line three",
	}, "\n")

	docs, err := LoadDump(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	want := "line one line two line three"
	if docs[0].Text != want {
		t.Errorf("text = %q, want %q", docs[0].Text, want)
	}
}

func TestLoadDump_Empty(t *testing.T) {
	docs, err := LoadDump(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("got %d documents, want 0", len(docs))
	}
}

func TestLoadDump_AuthorSectionDiscarded(t *testing.T) {
	dump := strings.Join([]string{
		".I 1",
		".A",
		"Some Author",
		".W",
		"body text",
	}, "\n")
	docs, err := LoadDump(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if len(docs) != 1 || docs[0].Text != "body text" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestParseStopWords(t *testing.T) {
	r := strings.NewReader("The\nAND\n\n  quick  \n")
	words, err := parseStopWords(r)
	if err != nil {
		t.Fatalf("parseStopWords: %v", err)
	}
	for _, w := range []string{"the", "and", "quick"} {
		if _, ok := words[w]; !ok {
			t.Errorf("missing stop word %q", w)
		}
	}
	if len(words) != 3 {
		t.Errorf("got %d words, want 3", len(words))
	}
}

func TestDefaultStopWords_ContainsCommonWords(t *testing.T) {
	for _, w := range []string{"the", "and", "that", "have"} {
		if _, ok := DefaultStopWords[w]; !ok {
			t.Errorf("DefaultStopWords missing %q", w)
		}
	}
}
