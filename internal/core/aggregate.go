package core

import (
	"sort"

	"crime_service/internal/domain/model"
)

// Aggregation is the summary derived from a set of enriched rows.
type Aggregation struct {
	MissingOutcomeForces []string
	Counts               []model.AggregatedCount
}

// Aggregate computes the missing-outcome force list and the per-category
// counts of resolved crimes. It does not modify rows.
func Aggregate(rows []model.EnrichedRow) Aggregation {
	return Aggregation{
		MissingOutcomeForces: MissingOutcomeForces(rows),
		Counts:               CountByCategory(ResolvedRows(rows)),
	}
}

// MissingOutcomeForces returns the distinct forces of rows without an
// outcome, in order of first appearance.
func MissingOutcomeForces(rows []model.EnrichedRow) []string {
	seen := make(map[string]struct{})
	forces := make([]string, 0)
	for _, row := range rows {
		if !row.MissingOutcome {
			continue
		}
		if _, ok := seen[row.Force]; ok {
			continue
		}
		seen[row.Force] = struct{}{}
		forces = append(forces, row.Force)
	}
	return forces
}

// ResolvedRows keeps only rows that carry an outcome category.
func ResolvedRows(rows []model.EnrichedRow) []model.EnrichedRow {
	resolved := make([]model.EnrichedRow, 0, len(rows))
	for _, row := range rows {
		if row.OutcomeCategory != nil {
			resolved = append(resolved, row)
		}
	}
	return resolved
}

// CountByCategory counts rows per crime category, sorted by category.
func CountByCategory(rows []model.EnrichedRow) []model.AggregatedCount {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.CrimeCategory]++
	}

	result := make([]model.AggregatedCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, model.AggregatedCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}
