package persist

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/mcjwsn/semindex/internal/svd"
)

var svdMagic = [4]byte{'S', 'S', 'V', 'D'}

const svdVersion = 1

type svdHeader struct {
	Rank   int
	Sigma  []float64
	URows  int
	VtCols int
}

// SaveSVD writes a per-rank SVD artefact component file
// (`<base>_svd_k{k}`). Rank and Sigma are small and travel as gob
// metadata; the dense U and Vt factors are chunked float64 blobs like
// the matrix values.
func SaveSVD(path string, t *svd.Triplet) error {
	var buf bytes.Buffer
	buf.Write(svdMagic[:])
	buf.WriteByte(svdVersion)

	uRows, _ := t.U.Dims()
	_, vtCols := t.Vt.Dims()
	header := svdHeader{Rank: t.Rank, Sigma: t.Sigma, URows: uRows, VtCols: vtCols}
	if err := gob.NewEncoder(&buf).Encode(header); err != nil {
		return fmt.Errorf("persist: encode svd header: %w", err)
	}

	uMagic := [4]byte{'S', 'S', 'V', 'U'}
	if err := writeFloatBlob(&buf, uMagic, denseToRowMajor(t.U)); err != nil {
		return err
	}
	vtMagic := [4]byte{'S', 'S', 'V', 'V'}
	if err := writeFloatBlob(&buf, vtMagic, denseToRowMajor(t.Vt)); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write svd %s: %w", path, err)
	}
	return nil
}

// LoadSVD reads a per-rank SVD artefact written by SaveSVD.
func LoadSVD(path string, warn func(format string, args ...any)) (*svd.Triplet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PersistenceError{Kind: KindCacheMissing, Path: path, Err: err}
		}
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(data) < 5 || [4]byte(data[:4]) != svdMagic {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: fmt.Errorf("bad magic or truncated header")}
	}

	r := bytes.NewReader(data[5:])
	var header svdHeader
	if err := gob.NewDecoder(r).Decode(&header); err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}

	uMagic := [4]byte{'S', 'S', 'V', 'U'}
	uData, err := readFloatBlob(r, uMagic, warn)
	if err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(uData) != header.URows*header.Rank {
		if warn != nil {
			warn("persist: svd U data length %d does not match %dx%d; repairing", len(uData), header.URows, header.Rank)
		}
		uData = repair(uData, header.URows*header.Rank)
	}

	vtMagic := [4]byte{'S', 'S', 'V', 'V'}
	vtData, err := readFloatBlob(r, vtMagic, warn)
	if err != nil {
		return nil, &PersistenceError{Kind: KindCorruptHeader, Path: path, Err: err}
	}
	if len(vtData) != header.Rank*header.VtCols {
		if warn != nil {
			warn("persist: svd Vt data length %d does not match %dx%d; repairing", len(vtData), header.Rank, header.VtCols)
		}
		vtData = repair(vtData, header.Rank*header.VtCols)
	}

	return &svd.Triplet{
		Rank:  header.Rank,
		Sigma: header.Sigma,
		U:     mat.NewDense(header.URows, header.Rank, uData),
		Vt:    mat.NewDense(header.Rank, header.VtCols, vtData),
	}, nil
}

func denseToRowMajor(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}
