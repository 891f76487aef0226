package calendar

import (
	"errors"

	"deskcal/internal/model"
)

// User-facing, non-fatal outcomes. A failed operation leaves the controller
// unchanged; front-ends decide how to surface them.
var (
	ErrEmptyInput    = errors.New("event text is empty")
	ErrNoSelection   = errors.New("no date selected")
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicateID   = errors.New("event id already stored")
	ErrInvalidDate   = model.ErrInvalidDate
)
