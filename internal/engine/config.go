package engine

// Config collects the configuration knobs spec.md §6 lists: stop-word
// file path, Porter stemmer on/off, SVD ranks, reconstruction
// threshold, Lanczos tolerance/max-iterations, and the on-disk cache
// base path. Ranks and Threshold are stored but not read by the
// engine (see WithRanks and WithReconstructionThreshold). Built via functional options, following the
// rioloc-tfidf-go `TfIdfOption` idiom also used by
// internal/tokenize.Option and internal/svd.Option.
type Config struct {
	StopWordsPath string
	Stem          bool
	Ranks         []int
	Threshold     float64
	LanczosTol    float64
	LanczosIter   int
	CacheBase     string
}

// Option configures a Config.
type Option func(*Config)

// DefaultConfig returns the configuration spec.md §6 names as
// defaults: stemming on, ranks {10, 25, 50}, reconstruction threshold
// 1e-10, Lanczos tolerance 1e-6, 200 max iterations, no cache base
// (build-only, in-memory).
func DefaultConfig() Config {
	return Config{
		Stem:        true,
		Ranks:       []int{10, 25, 50},
		Threshold:   1e-10,
		LanczosTol:  1e-6,
		LanczosIter: 200,
	}
}

// WithStopWordsPath sets the stop-word file path; an empty path (the
// default) falls back to corpus.DefaultStopWords.
func WithStopWordsPath(path string) Option {
	return func(c *Config) { c.StopWordsPath = path }
}

// WithStemming enables or disables the Porter stemming step.
func WithStemming(enabled bool) Option {
	return func(c *Config) { c.Stem = enabled }
}

// WithRanks sets Config.Ranks. The engine does not read this field:
// no rank is precomputed, and each rank is built or loaded by
// EnsureRank the first time it is requested.
func WithRanks(ranks ...int) Option {
	return func(c *Config) { c.Ranks = ranks }
}

// WithReconstructionThreshold sets Config.Threshold. The engine does
// not pass this field on: the low-rank reconstruction always uses the
// svd package's default threshold of 1e-10.
func WithReconstructionThreshold(t float64) Option {
	return func(c *Config) { c.Threshold = t }
}

// WithLanczos overrides the Lanczos tolerance and max-iteration count.
func WithLanczos(tol float64, maxIter int) Option {
	return func(c *Config) {
		c.LanczosTol = tol
		c.LanczosIter = maxIter
	}
}

// WithCacheBase sets the on-disk cache base path (`<base>.idx` plus
// sibling component files, per spec.md §4.8). Empty means build-only,
// no persistence.
func WithCacheBase(base string) Option {
	return func(c *Config) { c.CacheBase = base }
}

func newConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
