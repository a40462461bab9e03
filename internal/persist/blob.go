// Package persist implements the on-disk cache: an index file
// pointing at component files for the vocabulary/idf, documents,
// sparse matrix, and per-rank SVD triplets, per spec.md §4.8.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// ChunkSize is the number of float64 values per zstd-compressed chunk
// when writing a dense blob, matching the Rust original's
// CHUNK_SIZE = 1_000_000.
const ChunkSize = 1_000_000

const blobVersion = 1

// writeFloatBlob writes magic + version + the total element count,
// then data in ChunkSize-element chunks, each independently
// zstd-compressed and length-prefixed so a reader can stream without
// loading the whole blob into memory.
func writeFloatBlob(w io.Writer, magic [4]byte, data []float64) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("persist: write magic: %w", err)
	}
	if _, err := w.Write([]byte{blobVersion}); err != nil {
		return fmt.Errorf("persist: write version: %w", err)
	}
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("persist: write length header: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("persist: create zstd encoder: %w", err)
	}
	defer enc.Close()

	for start := 0; start < len(data) || (len(data) == 0 && start == 0); start += ChunkSize {
		end := start + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		raw := make([]byte, (end-start)*8)
		for i, v := range data[start:end] {
			binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
		}
		compressed := enc.EncodeAll(raw, nil)

		var szBuf [4]byte
		binary.LittleEndian.PutUint32(szBuf[:], uint32(len(compressed)))
		if _, err := w.Write(szBuf[:]); err != nil {
			return fmt.Errorf("persist: write chunk length: %w", err)
		}
		if _, err := w.Write(compressed); err != nil {
			return fmt.Errorf("persist: write chunk: %w", err)
		}
		if len(data) == 0 {
			break
		}
	}
	return nil
}

// readFloatBlob reads a blob written by writeFloatBlob. If the number
// of values actually recovered from the chunk stream differs from the
// declared length, it pads with zeros or truncates, logging via warn
// rather than failing — spec.md §4.8's "best-effort recovery" policy.
func readFloatBlob(r io.Reader, wantMagic [4]byte, warn func(format string, args ...any)) ([]float64, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &CorruptHeaderError{Err: fmt.Errorf("read blob header: %w", err)}
	}
	if [4]byte(header[:4]) != wantMagic {
		return nil, &CorruptHeaderError{Err: fmt.Errorf("bad magic %q, want %q", header[:4], wantMagic[:])}
	}

	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, &CorruptHeaderError{Err: fmt.Errorf("read blob length: %w", err)}
	}
	declared := binary.LittleEndian.Uint64(lenBuf[:])

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("persist: create zstd decoder: %w", err)
	}
	defer dec.Close()

	values := make([]float64, 0, declared)
	for uint64(len(values)) < declared {
		var szBuf [4]byte
		if _, err := io.ReadFull(r, szBuf[:]); err != nil {
			break // ran out of chunks early; repaired below
		}
		sz := binary.LittleEndian.Uint32(szBuf[:])
		compressed := make([]byte, sz)
		if _, err := io.ReadFull(r, compressed); err != nil {
			break
		}
		raw, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("persist: decompress chunk: %w", err)
		}
		for i := 0; i+8 <= len(raw); i += 8 {
			values = append(values, math.Float64frombits(binary.LittleEndian.Uint64(raw[i:])))
		}
	}

	if uint64(len(values)) != declared {
		if warn != nil {
			warn("persist: blob size mismatch: declared %d, recovered %d; repairing", declared, len(values))
		}
		values = repair(values, int(declared))
	}
	return values, nil
}

// repair pads with zeros or truncates values to exactly n elements.
func repair(values []float64, n int) []float64 {
	if len(values) == n {
		return values
	}
	if len(values) > n {
		return values[:n]
	}
	out := make([]float64, n)
	copy(out, values)
	return out
}
