package generator

import "errors"

var (
	ErrEmptyCompletion = errors.New("generator: empty completion")
)
