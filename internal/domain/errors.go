package domain

import "errors"

var (
	// ErrQueryTooShort signals a search query below the minimum length.
	ErrQueryTooShort = errors.New("query too short")
	// ErrUnknownTag signals an unrecognized tag name in a selection.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrUnknownDataset signals an unrecognized dataset variant.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrInvalidSelection signals a malformed filter selection.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrDatasetUnavailable signals that the source dataset could not be loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
