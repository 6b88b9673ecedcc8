package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMinYear        = errors.New("invalid minimum year")
	ErrInvalidMaxYear        = errors.New("invalid maximum year")
	ErrInvalidYearOrder      = errors.New("invalid years: minimum year must be less than maximum year")
	ErrColumnNotFound        = errors.New("column not found")
	ErrMissingColumn         = errors.New("required column missing")
	ErrUnknownCategory       = errors.New("unknown category")
	ErrInvalidAnchorRule     = errors.New("invalid anchor rule")
	ErrInvalidStartYearRange = errors.New("invalid start year range")
	ErrInvalidEndYearRange   = errors.New("invalid end year range")
	ErrInvalidEventYears     = errors.New("event start year is after end year")
	ErrInvalidWindowLength   = errors.New("invalid window length")
	ErrInvalidValueKind      = errors.New("invalid value kind")
)

// CategoryError reports filter values that do not occur in a catalog.
// Valid lists the catalog's observed values in first-seen order.
type CategoryError struct {
	Field   string
	Unknown []string
	Valid   []string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("invalid %s(s): %s. Valid values: %s",
		e.Field, strings.Join(e.Unknown, ", "), strings.Join(e.Valid, ", "))
}

// Is makes errors.Is(err, ErrUnknownCategory) hold for any CategoryError.
func (e *CategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}
