package models

import "fmt"

// YearRange is an optional pair of year bounds. Zero means the bound is unset.
type YearRange struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// YearBounds are the domain limits a YearRange is checked against.
// A zero Min means there is no lower limit; a zero Max defaults to the
// reference year passed to Validate.
type YearBounds struct {
	Min int
	Max int
}

// HasMin reports whether the lower bound is set.
func (r YearRange) HasMin() bool { return r.Min != 0 }

// HasMax reports whether the upper bound is set.
func (r YearRange) HasMax() bool { return r.Max != 0 }

// IsZero reports whether neither bound is set.
func (r YearRange) IsZero() bool { return !r.HasMin() && !r.HasMax() }

// Validate checks r against bounds. asOf is the reference "current year";
// it is never read from the wall clock here. An inverted range fails with
// ErrInvalidYearOrder before either bound is checked on its own.
func (r YearRange) Validate(bounds YearBounds, asOf int) error {
	if r.HasMin() && r.HasMax() && r.Min > r.Max {
		return ErrInvalidYearOrder
	}

	if r.HasMin() {
		if bounds.Min != 0 && r.Min < bounds.Min {
			return fmt.Errorf("%w: minimum year cannot be less than %d, no data available", ErrInvalidMinYear, bounds.Min)
		}
		if r.Min > asOf {
			return fmt.Errorf("%w: minimum year cannot be greater than %d", ErrInvalidMinYear, asOf)
		}
	}

	maxPossible := bounds.Max
	if maxPossible == 0 {
		maxPossible = asOf
	}
	if r.HasMax() && r.Max > maxPossible {
		return fmt.Errorf("%w: maximum year cannot be greater than %d", ErrInvalidMaxYear, maxPossible)
	}

	return nil
}

// Contains reports whether year lies inside r. Unset bounds are open.
func (r YearRange) Contains(year int) bool {
	if r.HasMin() && year < r.Min {
		return false
	}
	if r.HasMax() && year > r.Max {
		return false
	}
	return true
}
