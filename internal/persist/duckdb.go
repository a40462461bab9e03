package persist

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// OpenMirror opens (or creates) the DuckDB relational mirror at path
// (conventionally `<base>.duckdb`). The mirror is derived data: it can
// always be dropped and rebuilt from the component files, so it is a
// separate concern from the manifest-addressed persistence above.
func OpenMirror(path string) (*sql.DB, error) {
	d, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open mirror %s: %w", path, err)
	}
	if err := d.Ping(); err != nil {
		d.Close()
		return nil, fmt.Errorf("persist: ping mirror %s: %w", path, err)
	}
	if err := initMirrorSchema(d); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func initMirrorSchema(d *sql.DB) error {
	_, err := d.Exec(mirrorDDL)
	if err != nil {
		return fmt.Errorf("persist: init mirror schema: %w", err)
	}
	return nil
}

const mirrorDDL = `
CREATE TABLE IF NOT EXISTS documents (
	id    INTEGER PRIMARY KEY,
	title VARCHAR NOT NULL,
	url   VARCHAR,
	text  VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS doc_vectors (
	id     INTEGER NOT NULL REFERENCES documents(id),
	rank   INTEGER NOT NULL,
	vector FLOAT[] NOT NULL,
	PRIMARY KEY (id, rank)
);
`

// MirrorDocuments replaces the documents table contents with docs.
func MirrorDocuments(d *sql.DB, docs []Document) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("persist: begin mirror documents tx: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM documents"); err != nil {
		tx.Rollback()
		return fmt.Errorf("persist: clear documents: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO documents (id, title, url, text) VALUES ($1, $2, $3, $4)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("persist: prepare document insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck
	for _, doc := range docs {
		if _, err := stmt.Exec(doc.ID, doc.Title, nullIfEmpty(doc.URL), doc.Text); err != nil {
			tx.Rollback()
			return fmt.Errorf("persist: insert document %d: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// MirrorDocVectors replaces the rank-k latent-space coordinates for
// every document with coords[d] = the document docIDs[d]'s
// k-dimensional vector. docIDs carries the documents table's external
// id (not the matrix column position) so the doc_vectors(id) foreign
// key actually resolves against documents(id).
func MirrorDocVectors(d *sql.DB, rank int, docIDs []int, coords [][]float64) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("persist: begin mirror vectors tx: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM doc_vectors WHERE rank = $1", rank); err != nil {
		tx.Rollback()
		return fmt.Errorf("persist: clear doc_vectors for rank %d: %w", rank, err)
	}
	stmt, err := tx.Prepare("INSERT INTO doc_vectors (id, rank, vector) VALUES ($1, $2, $3)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("persist: prepare doc_vectors insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck
	for i, v := range coords {
		if _, err := stmt.Exec(docIDs[i], rank, floatArrayLiteral(v)); err != nil {
			tx.Rollback()
			return fmt.Errorf("persist: insert doc_vectors %d: %w", docIDs[i], err)
		}
	}
	return tx.Commit()
}

// floatArrayLiteral renders v as a DuckDB FLOAT[] array literal, e.g.
// "[0.1, 0.2, 0.3]", since the driver does not marshal []float64 to
// an array-typed bind parameter directly.
func floatArrayLiteral(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// nullIfEmpty returns nil if s is empty, otherwise s, so VARCHAR
// columns store NULL rather than an empty string.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
