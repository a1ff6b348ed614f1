package parser

import (
	"testing"

	"costlens/internal/model"
)

func TestLookup_ExactBeatsNormalized(t *testing.T) {
	row := model.RawRowFrom([]string{"year ", "Year"}, map[string]any{"Year": 1, "year ": 2})

	got, ok := Lookup(row, []string{"Year"})
	if !ok || got != 1 {
		t.Fatalf("Lookup = %v,%v, want 1,true", got, ok)
	}
}

func TestLookup_CandidateOrder(t *testing.T) {
	row := model.RawRowFrom([]string{"year", "Year"}, map[string]any{"year": 2, "Year": 1})

	got, ok := Lookup(row, []string{"Year", "year"})
	if !ok || got != 1 {
		t.Fatalf("Lookup = %v,%v, want 1,true", got, ok)
	}
	got, ok = Lookup(row, []string{"year", "Year"})
	if !ok || got != 2 {
		t.Fatalf("Lookup reversed = %v,%v, want 2,true", got, ok)
	}
}

func TestLookup_NormalizedMatch(t *testing.T) {
	row := model.RawRowFrom([]string{" WAREHOUSE "}, map[string]any{" WAREHOUSE ": "WH-A"})

	got, ok := Lookup(row, warehouseAliases)
	if !ok || got != "WH-A" {
		t.Fatalf("Lookup = %v,%v, want WH-A,true", got, ok)
	}
}

func TestLookup_KeywordMatch(t *testing.T) {
	row := model.RawRowFrom(
		[]string{"Total Incurred Cost (SAR)"},
		map[string]any{"Total Incurred Cost (SAR)": 1500.0},
	)

	got, ok := Lookup(row, totalCostAliases)
	if !ok || got != 1500.0 {
		t.Fatalf("Lookup = %v,%v, want 1500,true", got, ok)
	}
}

func TestLookup_SkipsNilValues(t *testing.T) {
	row := model.RawRowFrom([]string{"Year", "Fiscal Year"}, map[string]any{"Year": nil, "Fiscal Year": 2024})

	got, ok := Lookup(row, yearAliases)
	if !ok || got != 2024 {
		t.Fatalf("Lookup = %v,%v, want 2024,true", got, ok)
	}
}

func TestLookup_EmptyStringIsAValue(t *testing.T) {
	row := model.RawRowFrom([]string{"Warehouse"}, map[string]any{"Warehouse": ""})

	got, ok := Lookup(row, warehouseAliases)
	if !ok || got != "" {
		t.Fatalf("Lookup = %q,%v, want \"\",true", got, ok)
	}
}

func TestResolve_Default(t *testing.T) {
	row := model.RawRowFrom([]string{"foo"}, map[string]any{"foo": "bar"})

	if got := Resolve(row, []string{"GL Account No"}, "n/a"); got != "n/a" {
		t.Fatalf("Resolve = %v, want n/a", got)
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("OpEx /CapEx")
	if len(got) != 2 || got[0] != "opex" || got[1] != "capex" {
		t.Fatalf("Keywords = %v", got)
	}
	if got := Keywords("WH"); len(got) != 0 {
		t.Fatalf("Keywords(WH) = %v, want none", got)
	}
}
