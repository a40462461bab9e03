package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/mcjwsn/semindex/internal/sparse"
)

var matrixMagic = [4]byte{'S', 'M', 'A', 'T'}

const matrixVersion = 1

type matrixHeader struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
}

// SaveMatrix writes the sparse matrix component file: (nrows, ncols,
// col_offsets, row_indices) as structured metadata, and values as a
// chunked dense float64 blob, per spec.md §4.8.
func SaveMatrix(path string, m *sparse.CSC) error {
	rows, cols := m.Dims()
	var buf bytes.Buffer
	buf.Write(matrixMagic[:])
	buf.WriteByte(matrixVersion)

	header := matrixHeader{Rows: rows, Cols: cols, ColPtr: m.ColPtr(), RowIdx: m.RowIdx()}
	if err := gob.NewEncoder(&buf).Encode(header); err != nil {
		return fmt.Errorf("persist: encode matrix header: %w", err)
	}

	var valuesMagic = [4]byte{'S', 'M', 'V', 'L'}
	if err := writeFloatBlob(&buf, valuesMagic, m.Values()); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write matrix %s: %w", path, err)
	}
	return nil
}

// LoadMatrix reads a matrix component file written by SaveMatrix. If
// the recovered values length differs from what ColPtr/RowIdx imply,
// the blob reader already repairs it (pad/truncate with a warning);
// the caller should still expect nnz to match len(RowIdx).
func LoadMatrix(path string, warn func(format string, args ...any)) (*sparse.CSC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PersistenceError{Kind: KindCacheMissing, Path: path, Err: err}
		}
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(data) < 5 || [4]byte(data[:4]) != matrixMagic {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: fmt.Errorf("bad magic or truncated header")}
	}

	r := bytes.NewReader(data[5:])
	var header matrixHeader
	if err := gob.NewDecoder(r).Decode(&header); err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}

	valuesMagic := [4]byte{'S', 'M', 'V', 'L'}
	values, err := readFloatBlob(r, valuesMagic, warn)
	if err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(values) != len(header.RowIdx) {
		if warn != nil {
			warn("persist: matrix value count %d does not match row index count %d; repairing", len(values), len(header.RowIdx))
		}
		values = repair(values, len(header.RowIdx))
	}

	return sparse.NewCSC(header.Rows, header.Cols, header.ColPtr, header.RowIdx, values), nil
}
