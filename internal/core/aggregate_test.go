package core

import (
	"reflect"
	"testing"

	"crime_service/internal/domain/model"
)

func sampleRows() []model.EnrichedRow {
	return []model.EnrichedRow{
		model.NewEnrichedRow("burglary", strPtr("no-further-action"), "Alpha"),
		model.NewEnrichedRow("robbery", nil, "Beta"),
		model.NewEnrichedRow("anti-social-behaviour", nil, "Gamma"),
		model.NewEnrichedRow("burglary", strPtr("Under investigation"), "Beta"),
		model.NewEnrichedRow("vehicle-crime", nil, "Beta"),
		model.NewEnrichedRow("anti-social-behaviour", strPtr("Local resolution"), "Alpha"),
	}
}

func TestAggregateTwoRecordScenario(t *testing.T) {
	rows := []model.EnrichedRow{
		model.NewEnrichedRow("burglary", strPtr("no-further-action"), "Alpha"),
		model.NewEnrichedRow("robbery", nil, "Beta"),
	}

	agg := Aggregate(rows)

	if want := []string{"Beta"}; !reflect.DeepEqual(agg.MissingOutcomeForces, want) {
		t.Errorf("forces = %v, want %v", agg.MissingOutcomeForces, want)
	}
	if want := []model.AggregatedCount{{Category: "burglary", Count: 1}}; !reflect.DeepEqual(agg.Counts, want) {
		t.Errorf("counts = %v, want %v", agg.Counts, want)
	}
}

func TestMissingOutcomeForcesDistinctAndFlaggedOnly(t *testing.T) {
	rows := sampleRows()
	forces := MissingOutcomeForces(rows)

	if want := []string{"Beta", "Gamma"}; !reflect.DeepEqual(forces, want) {
		t.Fatalf("forces = %v, want %v", forces, want)
	}

	flagged := make(map[string]bool)
	for _, r := range rows {
		if r.MissingOutcome {
			flagged[r.Force] = true
		}
	}
	seen := make(map[string]bool)
	for _, f := range forces {
		if !flagged[f] {
			t.Errorf("force %s has no flagged row", f)
		}
		if seen[f] {
			t.Errorf("force %s reported twice", f)
		}
		seen[f] = true
	}
}

func TestCountsSumToResolvedRows(t *testing.T) {
	rows := sampleRows()
	agg := Aggregate(rows)

	resolved := 0
	for _, r := range rows {
		if r.OutcomeCategory != nil {
			resolved++
		}
	}
	total := 0
	for _, c := range agg.Counts {
		total += c.Count
	}
	if total != resolved {
		t.Errorf("counts sum to %d, want %d", total, resolved)
	}

	want := []model.AggregatedCount{
		{Category: "anti-social-behaviour", Count: 1},
		{Category: "burglary", Count: 2},
	}
	if !reflect.DeepEqual(agg.Counts, want) {
		t.Errorf("counts = %v, want %v", agg.Counts, want)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	rows := sampleRows()
	first := Aggregate(rows)
	second := Aggregate(rows)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation differs between runs: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(rows, sampleRows()) {
		t.Errorf("aggregation modified its input")
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil)
	if len(agg.MissingOutcomeForces) != 0 || len(agg.Counts) != 0 {
		t.Errorf("got %+v", agg)
	}
}
