package retrieval

import "errors"

var (
	ErrEmptyReformulation = errors.New("retrieval: empty reformulated query")
	ErrSearchFailed       = errors.New("retrieval: knowledge search failed")
)
