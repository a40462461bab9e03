package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mcjwsn/semindex/internal/corpus"
	"github.com/mcjwsn/semindex/internal/engine"
)

func testCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func buildCache(t *testing.T, base string) {
	t.Helper()
	docs := []corpus.Document{
		{ID: 1, Title: "Cats", URL: "https://example.com/cats", Text: "cats are small domesticated carnivorous mammals"},
		{ID: 2, Title: "Dogs", URL: "https://example.com/dogs", Text: "dogs are domesticated descendants of wolves"},
	}
	e, err := engine.Build(docs)
	require.NoError(t, err)
	require.NoError(t, e.Save(base))
}

func TestRunStats_NoCacheIsSilentError(t *testing.T) {
	cmd, _, errOut := testCmd()
	err := runStats(cmd, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.True(t, isSilentError(err))
	require.NotEmpty(t, errOut.String())
}

func TestRunStats_PrintsCounts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, out, _ := testCmd()
	err := runStats(cmd, base)
	require.NoError(t, err)
	require.Contains(t, out.String(), "\"document_count\": 2")
	require.Contains(t, out.String(), "\"vocabulary_size\"")
}

func TestRunQuery_TFIDFMode(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, out, _ := testCmd()
	err := runQuery(cmd, base, "domesticated mammals", "tfidf", 0, 10)
	require.NoError(t, err)
	require.Contains(t, out.String(), "\"title\": \"Cats\"")
}

func TestRunQuery_UnknownModeIsSilentError(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, _, errOut := testCmd()
	err := runQuery(cmd, base, "cats", "bogus", 0, 10)
	require.Error(t, err)
	require.True(t, isSilentError(err))
	require.NotEmpty(t, errOut.String())
}

func TestRunDoc_Found(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, out, _ := testCmd()
	err := runDoc(cmd, base, "1")
	require.NoError(t, err)
	require.Contains(t, out.String(), "Cats")
}

func TestRunDoc_NotFoundIsSilentError(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, _, errOut := testCmd()
	err := runDoc(cmd, base, "999")
	require.Error(t, err)
	require.True(t, isSilentError(err))
	require.NotEmpty(t, errOut.String())
}

func TestRunDoc_InvalidIDIsSilentError(t *testing.T) {
	cmd, _, errOut := testCmd()
	err := runDoc(cmd, filepath.Join(t.TempDir(), "cache"), "not-a-number")
	require.Error(t, err)
	require.True(t, isSilentError(err))
	require.NotEmpty(t, errOut.String())
}

func TestRunBuild_FromDump(t *testing.T) {
	dumpPath := filepath.Join(t.TempDir(), "corpus.dump")
	writeTestDump(t, dumpPath)

	base := filepath.Join(t.TempDir(), "cache")
	cmd, out, _ := testCmd()
	err := runBuild(cmd, dumpPath, base, "", true, "", true)
	require.NoError(t, err)
	require.Contains(t, out.String(), "indexed 2 documents")

	e, err := engine.Load(base)
	require.NoError(t, err)
	docCount, _ := e.Stats()
	require.Equal(t, 2, docCount)
}

func TestRunSVD_ComputesAndReports(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	buildCache(t, base)

	cmd, out, _ := testCmd()
	err := runSVD(cmd, base, 1)
	require.NoError(t, err)
	require.Contains(t, out.String(), "rank 1 ready")
}

func writeTestDump(t *testing.T, path string) {
	t.Helper()
	const dump = `.I 1
.T
Cats
.W
cats are small domesticated carnivorous mammals
.I 2
.T
Dogs
.W
dogs are domesticated descendants of wolves
`
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))
}
