package persist

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
	"github.com/stretchr/testify/require"

	"github.com/mcjwsn/semindex/internal/sparse"
	"github.com/mcjwsn/semindex/internal/svd"
)

func noWarn(format string, args ...any) {}

// TestManifestRoundTrip covers round-trip law 6 for the top-level
// index file: Save followed by Load yields an identical manifest.
func TestManifestRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	base := filepath.Join(dir, "corpus")
	path := base + ".idx"

	m := NewManifest(base)
	require.NoError(t, SaveManifest(path, m))

	got, err := LoadManifest(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestManifestMissingIsCacheMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := LoadManifest(filepath.Join(dir, "nope.idx"))
	require.Error(t, err)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, KindCacheMissing, pe.Kind)
}

func TestManifestCorruptHeader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.idx")
	require.NoError(t, os.WriteFile(path, []byte("not an index file"), 0o644))

	_, err := LoadManifest(path)
	require.Error(t, err)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, KindCorruptHeader, pe.Kind)
}

func TestTermsRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus_terms")

	want := &Terms{
		Vocabulary: []string{"bark", "cat", "dog"},
		IDF:        []float64{0.6931471805599453, 0, 0.6931471805599453},
	}
	require.NoError(t, SaveTerms(path, want))

	got, err := LoadTerms(path, noWarn)
	require.NoError(t, err)
	require.Equal(t, want.Vocabulary, got.Vocabulary)
	require.Len(t, got.IDF, len(want.IDF))
	for i := range want.IDF {
		require.InDelta(t, want.IDF[i], got.IDF[i], 1e-12)
	}
}

func TestDocsRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus_docs")

	want := []Document{
		{ID: 0, Title: "Cats", URL: "", Text: "the cats are barking"},
		{ID: 1, Title: "Dogs", URL: "https://example.com/dogs", Text: "the dogs are running"},
	}
	require.NoError(t, SaveDocs(path, want))

	got, err := LoadDocs(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func sampleCSC() *sparse.CSC {
	coo := sparse.NewCOO(3, 2)
	coo.Add(0, 0, 1.0)
	coo.Add(2, 0, 4.0)
	coo.Add(1, 1, 3.0)
	coo.Add(2, 1, 5.0)
	return coo.ToCSC()
}

func TestMatrixRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus_matrix")

	want := sampleCSC()
	require.NoError(t, SaveMatrix(path, want))

	got, err := LoadMatrix(path, noWarn)
	require.NoError(t, err)

	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr)
	require.Equal(t, wc, gc)
	require.Equal(t, want.NNZ(), got.NNZ())

	wRows, wCols, wVals := want.Triplets()
	gRows, gCols, gVals := got.Triplets()
	require.Equal(t, wRows, gRows)
	require.Equal(t, wCols, gCols)
	for i := range wVals {
		require.InDelta(t, wVals[i], gVals[i], 1e-12)
	}
}

func TestMatrixSizeMismatchRepairs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus_matrix")
	require.NoError(t, SaveMatrix(path, sampleCSC()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-2], 0o644))

	var warned bool
	got, err := LoadMatrix(path, func(format string, args ...any) { warned = true })
	require.NoError(t, err)
	require.True(t, warned)
	require.NotNil(t, got)
}

func TestSVDRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := SVDPath(filepath.Join(dir, "corpus"), 2)

	u := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		0.5, 0.5,
	})
	vt := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	want := &svd.Triplet{Rank: 2, Sigma: []float64{3.5, 1.2}, U: u, Vt: vt}
	require.NoError(t, SaveSVD(path, want))

	got, err := LoadSVD(path, noWarn)
	require.NoError(t, err)
	require.Equal(t, want.Rank, got.Rank)
	require.InDelta(t, want.Sigma[0], got.Sigma[0], 1e-12)
	require.InDelta(t, want.Sigma[1], got.Sigma[1], 1e-12)

	ur, uc := got.U.Dims()
	require.Equal(t, 3, ur)
	require.Equal(t, 2, uc)
	vr, vc := got.Vt.Dims()
	require.Equal(t, 2, vr)
	require.Equal(t, 4, vc)

	for i := 0; i < ur; i++ {
		for j := 0; j < uc; j++ {
			require.InDelta(t, u.At(i, j), got.U.At(i, j), 1e-12)
		}
	}
	for i := 0; i < vr; i++ {
		for j := 0; j < vc; j++ {
			require.InDelta(t, vt.At(i, j), got.Vt.At(i, j), 1e-12)
		}
	}
}

func TestComponentPathsAndSVDPath(t *testing.T) {
	t.Parallel()
	terms, docs, matrix := ComponentPaths("/tmp/foo")
	require.Equal(t, "/tmp/foo_terms", terms)
	require.Equal(t, "/tmp/foo_docs", docs)
	require.Equal(t, "/tmp/foo_matrix", matrix)
	require.Equal(t, "/tmp/foo_svd_k8", SVDPath("/tmp/foo", 8))
}
