package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

var docsMagic = [4]byte{'S', 'D', 'O', 'C'}

const docsVersion = 1

// SaveDocs writes the document list component file. Document bodies
// can be large but are not dense numeric data, so this stays plain
// gob rather than the chunked float blob format.
func SaveDocs(path string, docs []Document) error {
	var buf bytes.Buffer
	buf.Write(docsMagic[:])
	buf.WriteByte(docsVersion)
	if err := gob.NewEncoder(&buf).Encode(docs); err != nil {
		return fmt.Errorf("persist: encode documents: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write docs %s: %w", path, err)
	}
	return nil
}

// LoadDocs reads a documents component file written by SaveDocs.
func LoadDocs(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PersistenceError{Kind: KindCacheMissing, Path: path, Err: err}
		}
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(data) < 5 || [4]byte(data[:4]) != docsMagic {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: fmt.Errorf("bad magic or truncated header")}
	}
	var docs []Document
	if err := gob.NewDecoder(bytes.NewReader(data[5:])).Decode(&docs); err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	return docs, nil
}
