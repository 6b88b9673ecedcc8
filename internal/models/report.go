package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Kinds of dropped items.
const (
	DropUnmatchedCode  = "unmatched_code"
	DropOutOfCoverage  = "out_of_coverage"
	DropBeforeCoverage = "before_coverage"
)

// DroppedItem is one row-level item a filter left out.
type DroppedItem struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// DropReport collects items filtered out silently. Filters accept a nil
// *DropReport, in which case nothing is recorded.
type DropReport struct {
	ID    string        `json:"id"`
	Items []DroppedItem `json:"items"`
}

// NewDropReport returns an empty report with a fresh ID.
func NewDropReport() *DropReport {
	return &DropReport{ID: uuid.New().String()}
}

// Add records an item. It is a no-op on a nil report.
func (r *DropReport) Add(kind, key, format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.Items = append(r.Items, DroppedItem{Kind: kind, Key: key, Reason: fmt.Sprintf(format, args...)})
}

// Len returns the number of recorded items.
func (r *DropReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}
