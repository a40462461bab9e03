package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// indexMagic identifies an index file (`<base>.idx`).
var indexMagic = [4]byte{'S', 'I', 'D', 'X'}

const indexVersion = 1

// Manifest is the decoded `<base>.idx` file: a build-id token and the
// paths of the terms, docs and matrix component files (spec.md §4.8).
// SVD artefacts are not listed here — the coordinator probes
// `<base>_svd_k{k}` directly for the rank it needs.
type Manifest struct {
	BuildID    string
	TermsPath  string
	DocsPath   string
	MatrixPath string
}

// ComponentPaths derives the three canonical component file paths from
// base, matching spec.md §4.8's `<base>_terms`/`_docs`/`_matrix`
// naming convention.
func ComponentPaths(base string) (terms, docs, matrix string) {
	return base + "_terms", base + "_docs", base + "_matrix"
}

// SVDPath derives the component path for the rank-k SVD artefact.
func SVDPath(base string, k int) string {
	return fmt.Sprintf("%s_svd_k%d", base, k)
}

// NewManifest builds a fresh manifest for base with a new build-id
// token.
func NewManifest(base string) *Manifest {
	terms, docs, matrix := ComponentPaths(base)
	return &Manifest{
		BuildID:    uuid.NewString(),
		TermsPath:  terms,
		DocsPath:   docs,
		MatrixPath: matrix,
	}
}

// SaveManifest writes the index file at path.
func SaveManifest(path string, m *Manifest) error {
	var buf bytes.Buffer
	buf.Write(indexMagic[:])
	buf.WriteByte(indexVersion)
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("persist: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write manifest %s: %w", path, err)
	}
	return nil
}

// LoadManifest reads the index file at path. A missing file is
// reported as PersistenceError{Kind: KindCacheMissing}; a malformed
// one as KindCorruptHeader.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PersistenceError{Kind: KindCacheMissing, Path: path, Err: err}
		}
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(data) < 5 || [4]byte(data[:4]) != indexMagic {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: fmt.Errorf("bad magic or truncated header")}
	}
	var m Manifest
	if err := gob.NewDecoder(bytes.NewReader(data[5:])).Decode(&m); err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	return &m, nil
}
