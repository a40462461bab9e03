// Package corpus implements document ingestion: a relational table
// source and a structured text-dump parser (spec.md §6). Neither
// collaborator imports internal/tfidf, internal/svd, or internal/query —
// corpus only produces []Document, which the coordinator consumes.
package corpus

// Document is one ingested corpus record, per spec.md §3's
// {id, title, url, text} shape. The `.A` author section accepted by
// the dump format is parsed and discarded: Document has no author
// field, matching spec.md's Document type exactly.
type Document struct {
	ID    int
	Title string
	URL   string
	Text  string
}
