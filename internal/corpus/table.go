package corpus

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

const defaultTableQuery = "SELECT id, title, COALESCE(url, ''), text FROM documents"

// LoadTable opens dsn with the duckdb database/sql driver and runs
// query (defaultTableQuery if empty) to pull {id, title, url, text}
// rows, per spec.md §6's relational-table ingestion contract. Grounded
// on original_source/backend/src/document/parser.rs's
// parse_sqlite_documents and the teacher's db.OpenData connection-open
// idiom.
func LoadTable(ctx context.Context, dsn, query string) ([]Document, error) {
	if query == "" {
		query = defaultTableQuery
	}
	d, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", dsn, err)
	}
	defer d.Close() //nolint:errcheck
	if err := d.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("corpus: ping %s: %w", dsn, err)
	}

	rows, err := d.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("corpus: query %s: %w", dsn, err)
	}
	defer rows.Close() //nolint:errcheck

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Text); err != nil {
			return nil, fmt.Errorf("corpus: scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
