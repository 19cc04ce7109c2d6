package retrieval

// Options tunes retrieval. Zero values fall back to package defaults.
type Options struct {
	TopK            int
	DatasetIDs      []string
	MaxContextChars int

	// ReformulateModel is the model hint used to rewrite queries.
	ReformulateModel string
	Temperature      float64
}

const (
	DefaultTopK            = 5
	DefaultMaxContextChars = 6000
)
