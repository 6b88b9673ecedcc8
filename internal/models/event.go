// Package models defines the domain entities shared by the loaders and the
// window/comparison pipeline: year ranges, historical events, anchor windows,
// optional numeric values, and drop reports.
//
// Terminology:
//   - Event: a pandemic, war, or other episode with a start and end year.
//   - Anchor year: the reference year a study window is centred on.
//   - Window: the inclusive [YStart, YEnd] year range cut around an anchor.
package models

import (
	"errors"
	"fmt"
)

// Event is a single record of the event catalog. Name is the unique key.
// Type and Range are open sets validated against the loaded catalog.
type Event struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Range      string `json:"range"` // geographic scope
	StartYear  int    `json:"start_year"`
	EndYear    int    `json:"end_year"`
	Fatalities string `json:"fatalities"` // ordered bucket label, e.g. "1-10m"
}

// Duration returns EndYear - StartYear.
func (e Event) Duration() int {
	return e.EndYear - e.StartYear
}

// Validate checks that all event fields are valid.
func (e *Event) Validate() error {
	if e.Name == "" {
		return errors.New("event name must not be empty")
	}
	if e.Type == "" {
		return errors.New("event type must not be empty")
	}
	if e.Range == "" {
		return errors.New("event range must not be empty")
	}
	if e.StartYear > e.EndYear {
		return fmt.Errorf("%w: %s (%d > %d)", ErrInvalidEventYears, e.Name, e.StartYear, e.EndYear)
	}
	return nil
}
