package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
	svcstore "costlens/internal/service/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "costlens.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecords() []model.CostRecord {
	return []model.CostRecord{
		{
			RowNo: 2, Year: 2025, Quarter: model.Q1, Warehouse: "WH-A", Type: "Rent",
			GLAccountNo: "6101", GLAccountName: "Building Rent", TCOModelCategories: "Warehousing",
			OpexCapex: "opex", TotalIncurredCost: decimal.RequireFromString("1000.25"),
			ValueDmsco:     decimal.NewFromInt(600),
			PharmaciesCost: decimal.NullDecimal{Decimal: decimal.NewFromInt(700), Valid: true},
		},
		{
			RowNo: 3, Year: 2025, Quarter: model.Q2, Warehouse: "WH-B", Type: "Fuel",
			GLAccountName: "Diesel", OpexCapex: "capex", TotalIncurredCost: decimal.NewFromInt(500),
		},
		{
			RowNo: 4, Year: 2024, Quarter: model.Q4, Warehouse: "WH-A", Type: "Rent",
			GLAccountName: "Yard rent", TotalIncurredCost: decimal.NewFromInt(250),
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SaveAll(ctx, testRecords(), false); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	all, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("LoadAll = %d records, want 3", len(all))
	}

	r := all[0]
	if r.ID == 0 || r.RowNo != 2 || r.Quarter != model.Q1 || r.GLAccountNo != "6101" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if !r.TotalIncurredCost.Equal(decimal.RequireFromString("1000.25")) {
		t.Fatalf("total = %s", r.TotalIncurredCost)
	}
	if !r.PharmaciesCost.Valid || !r.PharmaciesCost.Decimal.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("pharmacies = %+v", r.PharmaciesCost)
	}
	if r.DistributionCost.Valid {
		t.Fatalf("distribution should stay NULL")
	}
}

func TestStore_ClearExisting(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_ = s.SaveAll(ctx, testRecords(), false)
	if err := s.SaveAll(ctx, testRecords()[:1], true); err != nil {
		t.Fatalf("SaveAll clear: %v", err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
}

func TestStore_Query(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_ = s.SaveAll(ctx, testRecords(), false)

	year := 2025
	q := "q2"
	got, err := s.Query(ctx, model.RecordFilter{Year: &year, Quarter: &q})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Warehouse != "WH-B" {
		t.Fatalf("year+quarter = %+v", got)
	}

	name := "RENT"
	got, _ = s.Query(ctx, model.RecordFilter{GLAccountName: &name})
	if len(got) != 2 {
		t.Fatalf("glAccountName substring = %d records, want 2", len(got))
	}

	wh := "WH-A"
	typ := "Rent"
	got, _ = s.Query(ctx, model.RecordFilter{Warehouse: &wh, Type: &typ})
	if len(got) != 2 || got[0].Year != 2025 || got[1].Year != 2024 {
		t.Fatalf("warehouse+type = %+v", got)
	}

	cat := "Warehousing"
	got, _ = s.Query(ctx, model.RecordFilter{Category: &cat})
	if len(got) != 1 {
		t.Fatalf("category = %d records, want 1", len(got))
	}

	years, err := s.Years(ctx)
	if err != nil {
		t.Fatalf("Years: %v", err)
	}
	if len(years) != 2 || years[0] != 2024 || years[1] != 2025 {
		t.Fatalf("Years = %v", years)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "costlens.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = s.SaveAll(ctx, testRecords(), false)
	_ = s.Close()

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, _ := s.Count(ctx); n != 3 {
		t.Fatalf("Count after reopen = %d, want 3", n)
	}
}

func TestStore_ImportLogs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.LastImport(ctx); !errors.Is(err, svcstore.ErrNotFound) {
		t.Fatalf("LastImport err = %v, want ErrNotFound", err)
	}

	started := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	l := model.ImportLog{
		ID: "imp-1", Filename: "costs.xlsx", TotalRows: 3, Status: model.ImportProcessing, StartedAt: started,
	}
	if err := s.RecordImport(ctx, l); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}

	l.Status = model.ImportCompleted
	l.ImportedRows = 2
	l.DroppedRows = 1
	l.Warnings = []string{"第 4 行年份无效"}
	l.CompletedAt = started.Add(2 * time.Second)
	if err := s.RecordImport(ctx, l); err != nil {
		t.Fatalf("RecordImport update: %v", err)
	}

	last, err := s.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if last.Status != model.ImportCompleted || last.ImportedRows != 2 || last.DroppedRows != 1 {
		t.Fatalf("last = %+v", last)
	}
	if len(last.Warnings) != 1 || last.Warnings[0] != "第 4 行年份无效" {
		t.Fatalf("warnings = %v", last.Warnings)
	}
	if !last.StartedAt.Equal(started) || !last.CompletedAt.Equal(started.Add(2*time.Second)) {
		t.Fatalf("times = %v / %v", last.StartedAt, last.CompletedAt)
	}
}
