package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
	"costlens/internal/service/excel"
	svcstore "costlens/internal/service/store"
	"costlens/internal/store"
)

const sampleCSV = `Year,Quarter,Warehouse,Total Incurred Cost,OpEx /CapEx,Quartr Note
2025,q1,WH-A,1000,OpEx,
2025,Q1,WH-B,500,capex,
not-a-year,Q1,WH-C,999,opex,
2025,sometime,WH-A,20,opex,
`

func collect(ch <-chan ProgressEvent) []ProgressEvent {
	events := []ProgressEvent{}
	for evt := range ch {
		events = append(events, evt)
	}
	return events
}

func TestImport_CSVIntoMemory(t *testing.T) {
	st := svcstore.NewMemoryStore()
	c := NewCoordinator(st, nil)

	events := collect(c.Import(context.Background(), ImportOptions{
		Reader:   strings.NewReader(sampleCSV),
		Filename: "costs.csv",
	}))
	if len(events) == 0 || events[0].Type != EventStart {
		t.Fatalf("first event = %+v, want start", events)
	}
	last := events[len(events)-1]
	if last.Type != EventDone {
		t.Fatalf("last event = %+v, want done", last)
	}

	report, ok := last.Data.(*model.ImportReport)
	if !ok {
		t.Fatalf("unexpected report type: %T", last.Data)
	}
	if report.TotalRows != 4 || report.ImportedRows != 3 {
		t.Fatalf("report rows = %d/%d, want 4/3", report.TotalRows, report.ImportedRows)
	}
	if len(report.DroppedRows) != 1 || report.DroppedRows[0] != 4 {
		t.Fatalf("dropped = %v, want [4]", report.DroppedRows)
	}

	var sawDropped, sawQuarter bool
	for _, w := range report.Warnings {
		if strings.Contains(w, "第 4 行年份无效") {
			sawDropped = true
		}
		if strings.Contains(w, "第 5 行季度无法识别") {
			sawQuarter = true
		}
	}
	if !sawDropped || !sawQuarter {
		t.Fatalf("warnings = %v", report.Warnings)
	}

	records, _ := st.LoadAll(context.Background())
	if len(records) != 3 {
		t.Fatalf("stored = %d, want 3", len(records))
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.TotalIncurredCost)
	}
	if !total.Equal(decimal.NewFromInt(1520)) {
		t.Fatalf("stored total = %s, want 1520", total)
	}

	l, err := st.LastImport(context.Background())
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if l.ID != report.ImportID || l.Status != model.ImportCompleted || l.DroppedRows != 1 {
		t.Fatalf("import log = %+v", l)
	}
}

func TestImport_ClearExisting(t *testing.T) {
	ctx := context.Background()
	st := svcstore.NewMemoryStore()
	c := NewCoordinator(st, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.ImportSync(ctx, ImportOptions{Reader: strings.NewReader(sampleCSV), Filename: "a.csv"}); err != nil {
			t.Fatalf("ImportSync: %v", err)
		}
	}
	if n, _ := st.Count(ctx); n != 6 {
		t.Fatalf("append count = %d, want 6", n)
	}

	if _, err := c.ImportSync(ctx, ImportOptions{Reader: strings.NewReader(sampleCSV), Filename: "a.csv", ClearExisting: true}); err != nil {
		t.Fatalf("ImportSync clear: %v", err)
	}
	if n, _ := st.Count(ctx); n != 3 {
		t.Fatalf("cleared count = %d, want 3", n)
	}
}

func TestImport_UnsupportedFile(t *testing.T) {
	st := svcstore.NewMemoryStore()
	c := NewCoordinator(st, nil)

	events := collect(c.Import(context.Background(), ImportOptions{
		Reader:   strings.NewReader("%PDF"),
		Filename: "costs.pdf",
	}))
	last := events[len(events)-1]
	if last.Type != EventError {
		t.Fatalf("last event = %+v, want error", last)
	}

	l, err := st.LastImport(context.Background())
	if err != nil {
		t.Fatalf("LastImport: %v", err)
	}
	if l.Status != model.ImportFailed || l.ErrorMessage == "" {
		t.Fatalf("import log = %+v", l)
	}
}

func TestImport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := svcstore.NewMemoryStore()
	c := NewCoordinator(st, nil)
	if _, err := c.ImportSync(ctx, ImportOptions{Reader: strings.NewReader(sampleCSV), Filename: "a.csv"}); err == nil {
		t.Fatalf("cancelled import succeeded")
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Fatalf("cancelled import stored %d records", n)
	}
}

func TestImport_FileIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "costs.csv")
	if err := os.WriteFile(input, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	st, err := store.New(filepath.Join(dir, "costlens.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	report, err := NewCoordinator(st, nil).ImportSync(context.Background(), ImportOptions{FilePath: input, ClearExisting: true})
	if err != nil {
		t.Fatalf("ImportSync: %v", err)
	}
	if report.Filename != "costs.csv" || report.ImportedRows != 3 {
		t.Fatalf("report = %+v", report)
	}

	year := 2025
	records, err := st.Query(context.Background(), model.RecordFilter{Year: &year})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("2025 records = %d, want 3", len(records))
	}
}

func TestInspect(t *testing.T) {
	sheet, err := excel.ReadSheet(strings.NewReader(sampleCSV), "costs.csv")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	report := Inspect(sheet)

	if report.YearColumn != "Year" || report.TotalRows != 4 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Years) != 1 || report.Years[0] != 2025 {
		t.Fatalf("years = %v", report.Years)
	}
	if report.InvalidYear != 1 || report.NullYears != 0 {
		t.Fatalf("invalid/null = %d/%d", report.InvalidYear, report.NullYears)
	}
	if len(report.Preview) != 3 {
		t.Fatalf("preview = %d rows", len(report.Preview))
	}
}
