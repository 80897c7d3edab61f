package meter

import "errors"

var (
	// ErrInvalidOrder is returned when interpolation is asked to work with the
	// earlier reading placed after the later one.
	ErrInvalidOrder = errors.New("invalid order: previous reading is after next reading")

	// ErrDegenerateInterval is returned when both interpolation endpoints share
	// a timestamp.
	ErrDegenerateInterval = errors.New("degenerate interval: readings share a timestamp")

	// ErrInvalidInput is returned when consumption derivation does not get
	// exactly twelve monthly points ordered January to December.
	ErrInvalidInput = errors.New("invalid input")
)
