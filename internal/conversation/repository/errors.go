package repository

import "errors"

var (
	ErrFailedToLoad   = errors.New("failed to load conversation")
	ErrFailedToSave   = errors.New("failed to save conversation")
	ErrFailedToDelete = errors.New("failed to delete conversation")
)
