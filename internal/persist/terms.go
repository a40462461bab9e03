package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

var termsMagic = [4]byte{'S', 'T', 'R', 'M'}

const termsVersion = 1

// SaveTerms writes the vocabulary + idf component file. The term list
// is structured metadata and uses gob; the idf vector is a dense
// float64 blob and is chunked/zstd-compressed like the matrix and SVD
// payloads.
func SaveTerms(path string, t *Terms) error {
	var buf bytes.Buffer
	buf.Write(termsMagic[:])
	buf.WriteByte(termsVersion)
	if err := gob.NewEncoder(&buf).Encode(t.Vocabulary); err != nil {
		return fmt.Errorf("persist: encode vocabulary: %w", err)
	}

	var idfMagic = [4]byte{'S', 'I', 'D', 'F'}
	if err := writeFloatBlob(&buf, idfMagic, t.IDF); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write terms %s: %w", path, err)
	}
	return nil
}

// LoadTerms reads a terms component file written by SaveTerms.
func LoadTerms(path string, warn func(format string, args ...any)) (*Terms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PersistenceError{Kind: KindCacheMissing, Path: path, Err: err}
		}
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(data) < 5 || [4]byte(data[:4]) != termsMagic {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: fmt.Errorf("bad magic or truncated header")}
	}

	r := bytes.NewReader(data[5:])
	var vocab []string
	if err := gob.NewDecoder(r).Decode(&vocab); err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}

	idfMagic := [4]byte{'S', 'I', 'D', 'F'}
	idf, err := readFloatBlob(r, idfMagic, warn)
	if err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}

	return &Terms{Vocabulary: vocab, IDF: idf}, nil
}
