// Package progress derives completion state from an aggregate's sections.
package progress

import (
	"math"

	"intake/internal/intake/models"
	"intake/internal/intake/registry"
)

// Result is the full completion derivation for one aggregate.
type Result struct {
	CompletedSections    []string      `json:"completedSections"`
	CompletedCount       int           `json:"completedCount"`
	TotalSections        int           `json:"totalSections"`
	CompletionPercentage int           `json:"completionPercentage"`
	Status               models.Status `json:"status"`
}

// Compute asks the registry's has-meaningful-data predicate for every section
// in declared order and derives percentage and status. The percentage is
// always round(100 * completed / 13) for the current content, never stored
// user input.
func Compute(sections *models.Sections) Result {
	var completed []string
	for _, name := range registry.Names() {
		if registry.Populated(name, sections) {
			completed = append(completed, name)
		}
	}
	pct := Percentage(len(completed))
	return Result{
		CompletedSections:    completed,
		CompletedCount:       len(completed),
		TotalSections:        registry.TotalSections,
		CompletionPercentage: pct,
		Status:               models.DeriveStatus(pct),
	}
}

// Percentage converts a completed-section count to the rounded percentage.
func Percentage(completedCount int) int {
	return int(math.Round(100 * float64(completedCount) / float64(registry.TotalSections)))
}
