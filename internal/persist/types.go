package persist

// Document is the persisted form of one corpus document. The
// corpus-ingestion package produces its own Document type (spec.md
// §1 keeps ingestion a separate external collaborator); the
// coordinator converts between the two at the build/save boundary so
// persist has no import dependency on corpus.
type Document struct {
	ID    int
	Title string
	URL   string
	Text  string
}

// Terms is the persisted vocabulary + idf component (`<base>_terms`).
type Terms struct {
	Vocabulary []string // sorted term list, index == column index
	IDF        []float64
}

// MatrixData is the persisted sparse matrix component
// (`<base>_matrix`): (nrows, ncols, column offsets, row indices,
// values) in CSC layout, per spec.md §4.8.
type MatrixData struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Values     []float64
}

// SVDData is the persisted per-rank SVD component
// (`<base>_svd_k{k}`): (rank, sigma, U, Vt).
type SVDData struct {
	Rank   int
	Sigma  []float64
	URows  int // U is URows x Rank
	UData  []float64
	VtCols int // Vt is Rank x VtCols
	VtData []float64
}
