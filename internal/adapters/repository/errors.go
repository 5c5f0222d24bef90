package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnknownSeason  = errors.New("unknown season")
	ErrInvalidDataset = errors.New("invalid dataset")
)
