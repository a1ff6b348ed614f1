package metrics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"costlens/internal/model"
	"costlens/internal/parser"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func nd(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func twoRecords() []model.CostRecord {
	return []model.CostRecord{
		{Year: 2025, Quarter: model.Q1, Warehouse: "WH-A", OpexCapex: "opex", TotalIncurredCost: d(1000)},
		{Year: 2025, Quarter: model.Q1, Warehouse: "WH-B", OpexCapex: "capex", TotalIncurredCost: d(500)},
	}
}

func TestAggregate_TwoRows(t *testing.T) {
	m := Aggregate(twoRecords())

	if !m.TotalCost.Equal(d(1500)) || !m.TotalOpex.Equal(d(1000)) || !m.TotalCapex.Equal(d(500)) {
		t.Fatalf("totals = %s/%s/%s, want 1500/1000/500", m.TotalCost, m.TotalOpex, m.TotalCapex)
	}
	if len(m.CostByWarehouse) != 2 ||
		m.CostByWarehouse[0].Key != "WH-A" || !m.CostByWarehouse[0].Cost.Equal(d(1000)) ||
		m.CostByWarehouse[1].Key != "WH-B" || !m.CostByWarehouse[1].Cost.Equal(d(500)) {
		t.Fatalf("costByWarehouse = %+v", m.CostByWarehouse)
	}
	if len(m.CostByQuarter) != 1 || m.CostByQuarter[0].Key != "2025 Q1" || !m.CostByQuarter[0].TotalCost.Equal(d(1500)) {
		t.Fatalf("costByQuarter = %+v", m.CostByQuarter)
	}
	if m.RecordCount != 2 {
		t.Fatalf("recordCount = %d", m.RecordCount)
	}
}

func TestNormalizeAndAggregate_MixedHeaders(t *testing.T) {
	rows := []model.RawRow{
		model.RawRowFrom(
			[]string{"Year", "Quarter", "Warehouse", "total incured cost", "OpEx /CapEx"},
			map[string]any{"Year": 2025, "Quarter": "q1", "Warehouse": "WH-A", "total incured cost": 1000, "OpEx /CapEx": "OpEx"},
		),
		model.RawRowFrom(
			[]string{"year", "quarter", "warehouse", "Cost", "opexCapex"},
			map[string]any{"year": "2,025.00", "quarter": "Q2", "warehouse": "WH-B", "Cost": 500, "opexCapex": "capex"},
		),
	}

	result := parser.NewNormalizer(nil).NormalizeAll(rows)
	if len(result.Records) != 2 || len(result.DroppedRows) != 0 {
		t.Fatalf("records = %d, dropped = %v", len(result.Records), result.DroppedRows)
	}
	r1, r2 := result.Records[0], result.Records[1]
	if r1.Year != 2025 || r2.Year != 2025 || r1.Quarter != model.Q1 || r2.Quarter != model.Q2 {
		t.Fatalf("keys = %d %s / %d %s", r1.Year, r1.Quarter, r2.Year, r2.Quarter)
	}

	m := Aggregate(result.Records)
	if !m.TotalCost.Equal(d(1500)) || !m.TotalOpex.Equal(d(1000)) || !m.TotalCapex.Equal(d(500)) {
		t.Fatalf("totals = %s/%s/%s, want 1500/1000/500", m.TotalCost, m.TotalOpex, m.TotalCapex)
	}
	if len(m.CostByWarehouse) != 2 ||
		m.CostByWarehouse[0].Key != "WH-A" || !m.CostByWarehouse[0].Cost.Equal(d(1000)) ||
		m.CostByWarehouse[1].Key != "WH-B" || !m.CostByWarehouse[1].Cost.Equal(d(500)) {
		t.Fatalf("costByWarehouse = %+v", m.CostByWarehouse)
	}
}

func TestAggregate_WarehouseRollupComplete(t *testing.T) {
	records := []model.CostRecord{
		{Year: 2025, Quarter: model.Q1, Warehouse: "WH-A", TotalIncurredCost: d(100)},
		{Year: 2025, Quarter: model.Q1, Warehouse: "", TotalIncurredCost: d(40)},
		{Year: 2025, Quarter: model.Q2, Warehouse: "WH-B", TotalIncurredCost: d(-25)},
		{Year: 2025, Quarter: model.Q2, Warehouse: "", TotalIncurredCost: d(7)},
		{Year: 2025, Quarter: model.Q3, Warehouse: "WH-A", TotalIncurredCost: d(60)},
	}
	m := Aggregate(records)

	want := decimal.Zero
	for _, r := range records {
		if r.Warehouse != "" {
			want = want.Add(r.TotalIncurredCost)
		}
	}
	sum := decimal.Zero
	for _, kc := range m.CostByWarehouse {
		if kc.Key == "" {
			t.Fatalf("empty warehouse key in rollup: %+v", m.CostByWarehouse)
		}
		sum = sum.Add(kc.Cost)
	}
	if !sum.Equal(want) {
		t.Fatalf("warehouse rollup sum = %s, want %s", sum, want)
	}
	if !m.TotalCost.Equal(d(182)) {
		t.Fatalf("totalCost = %s, want 182", m.TotalCost)
	}
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)
	if !m.TotalCost.IsZero() || !m.DmscoTotal.IsZero() {
		t.Fatalf("non-zero totals for empty input")
	}
	if m.CostByQuarter == nil || m.CostByWarehouse == nil || m.CostByCategory == nil ||
		m.CostByType == nil || m.CostByGLAccount == nil || m.TopExpenses == nil {
		t.Fatalf("nil slices in empty result: %+v", m)
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := back["topExpenses"].([]any); !ok {
		t.Fatalf("topExpenses should marshal as []: %s", b)
	}
}

func TestAggregate_Additive(t *testing.T) {
	a := twoRecords()
	b := []model.CostRecord{
		{Year: 2024, Quarter: model.Q4, Warehouse: "WH-A", OpexCapex: "OPEX", TotalIncurredCost: d(250), ValueDmsco: d(40), Value3PL: d(10)},
	}
	all := append(append([]model.CostRecord{}, a...), b...)

	ma, mb, mall := Aggregate(a), Aggregate(b), Aggregate(all)
	for _, metric := range model.HeadlineMetrics {
		if !ma.Headline(metric).Add(mb.Headline(metric)).Equal(mall.Headline(metric)) {
			t.Fatalf("%s not additive: %s + %s != %s", metric, ma.Headline(metric), mb.Headline(metric), mall.Headline(metric))
		}
	}
}

func TestAggregate_Fallbacks(t *testing.T) {
	records := []model.CostRecord{
		{
			Year: 2025, Quarter: model.Q2, TotalIncurredCost: d(100),
			ValueDmsco: d(10), ValueAlFaris: d(20), ValueJaleel: d(30), Value3PL: d(40), ValueOther: d(5),
		},
		{
			Year: 2025, Quarter: model.Q2, TotalIncurredCost: d(100),
			ValueDmsco: d(10), Value3PL: d(40),
			PharmaciesCost: nd(1), Proceed3PLWHCost: nd(7),
		},
	}
	m := Aggregate(records)

	// 10+20+30 + 1+0+0
	if !m.DmscoTotal.Equal(d(61)) {
		t.Fatalf("dmscoTotal = %s, want 61", m.DmscoTotal)
	}
	if !m.Proceed3PLTotal.Equal(d(80)) {
		t.Fatalf("proceed3PLTotal = %s, want 80", m.Proceed3PLTotal)
	}
	q := m.CostByQuarter[0]
	if !q.PharmaciesCost.Equal(d(11)) || !q.Proceed3PLWHCost.Equal(d(27)) || !q.Proceed3PLTRSCost.Equal(d(40)) {
		t.Fatalf("quarter fallbacks = %+v", q)
	}
	if !q.WarehouseCost.Equal(d(20)) || !q.TransportationCost.Equal(d(5)) {
		t.Fatalf("quarter warehouse/transport = %s/%s", q.WarehouseCost, q.TransportationCost)
	}
}

func TestAggregate_RollupsAndTop(t *testing.T) {
	records := []model.CostRecord{
		{Year: 2025, Quarter: "q3", Type: "Rent", GLAccountName: "Rent", TotalIncurredCost: d(300)},
		{Year: 2025, Quarter: model.Q3, Type: "", GLAccountNo: "6101", TotalIncurredCost: d(300)},
		{Year: 2025, Quarter: model.Q3, TCOModelCategories: "Fleet", TotalIncurredCost: d(-50)},
		{Year: 2024, Quarter: model.Q1, Type: "Rent", TotalIncurredCost: d(0)},
	}
	m := AggregateN(records, 2)

	if len(m.CostByType) != 1 || !m.CostByType[0].Cost.Equal(d(300)) {
		t.Fatalf("costByType = %+v", m.CostByType)
	}
	keys := map[string]string{}
	for _, kc := range m.CostByGLAccount {
		keys[kc.Key] = kc.Cost.String()
	}
	if keys["Rent"] != "300" || keys["6101"] != "300" || keys[model.UnknownKey] != "-50" {
		t.Fatalf("costByGLAccount = %+v", m.CostByGLAccount)
	}
	if m.CostByGLAccount[0].Key != "Rent" {
		t.Fatalf("tie should keep first-seen order, got %s", m.CostByGLAccount[0].Key)
	}

	// 季度汇总的总额必须等于记录总额
	sum := decimal.Zero
	for _, q := range m.CostByQuarter {
		sum = sum.Add(q.TotalCost)
	}
	if !sum.Equal(m.TotalCost) {
		t.Fatalf("quarter sum %s != total %s", sum, m.TotalCost)
	}
	if m.CostByQuarter[0].Key != "2024 Q1" {
		t.Fatalf("quarters not sorted: %+v", m.CostByQuarter)
	}

	if len(m.TopExpenses) != 2 {
		t.Fatalf("topExpenses = %d, want 2", len(m.TopExpenses))
	}
	if m.TopExpenses[0].Quarter != model.Q3 || !m.TopExpenses[0].Cost.Equal(d(300)) {
		t.Fatalf("top[0] = %+v", m.TopExpenses[0])
	}
}

func TestCompare(t *testing.T) {
	cur := []model.CostRecord{{Year: 2025, OpexCapex: "opex", TotalIncurredCost: d(1500)}}
	prev := []model.CostRecord{{Year: 2024, OpexCapex: "opex", TotalIncurredCost: d(1000)}}

	c := Compare(cur, prev)
	delta := c.Deltas[model.MetricTotalCost]
	if !delta.Value.Equal(d(500)) || !delta.Percentage.Equal(d(50)) {
		t.Fatalf("totalCost delta = %+v, want 500/50", delta)
	}
	if !c.Current.TotalCost.Equal(d(1500)) || !c.Previous.TotalCost.Equal(d(1000)) {
		t.Fatalf("sides swapped: %s/%s", c.Current.TotalCost, c.Previous.TotalCost)
	}
	if zero := c.Deltas[model.MetricTotalCapex]; !zero.Value.IsZero() || !zero.Percentage.IsZero() {
		t.Fatalf("capex delta = %+v, want 0/0", zero)
	}
	if len(c.Deltas) != len(model.HeadlineMetrics) {
		t.Fatalf("deltas = %d entries", len(c.Deltas))
	}
}

func TestCompare_NilBase(t *testing.T) {
	c := Compare(twoRecords(), nil)

	delta := c.Deltas[model.MetricTotalCost]
	if !delta.Value.Equal(d(1500)) || !delta.Percentage.IsZero() {
		t.Fatalf("totalCost delta = %+v, want 1500/0", delta)
	}
	if !c.Previous.TotalCost.IsZero() || c.Previous.RecordCount != 0 {
		t.Fatalf("previous = %+v, want empty", c.Previous)
	}
	for _, metric := range model.HeadlineMetrics {
		got := c.Deltas[metric]
		if !got.Value.Equal(c.Current.Headline(metric)) || !got.Percentage.IsZero() {
			t.Fatalf("%s delta = %+v", metric, got)
		}
	}
}

func TestComputeDelta_ZeroBase(t *testing.T) {
	cases := []struct {
		cur, prev float64
		value     float64
		pct       float64
	}{
		{100, 0, 100, 0},
		{100, -20, 120, 0},
		{0, 0, 0, 0},
		{50, 200, -150, -75},
		{1, 3, -2, -66.6667},
	}
	for _, c := range cases {
		got := ComputeDelta(d(c.cur), d(c.prev))
		if !got.Value.Equal(d(c.value)) || !got.Percentage.Equal(d(c.pct)) {
			t.Fatalf("ComputeDelta(%v,%v) = %s/%s, want %v/%v", c.cur, c.prev, got.Value, got.Percentage, c.value, c.pct)
		}
	}
}

func TestAggregateByDimension(t *testing.T) {
	records := []model.CostRecord{
		{Warehouse: "WH-A", TotalIncurredCost: d(100), Value3PL: d(10)},
		{Warehouse: "", TotalIncurredCost: d(300)},
		{Warehouse: "WH-A", TotalIncurredCost: d(150), Proceed3PLWHCost: nd(2)},
	}
	rows, err := AggregateByDimension(records, model.DimWarehouse,
		[]model.Measure{model.MeasureTotalCost, model.MeasureProceed3PLWHValue})
	if err != nil {
		t.Fatalf("AggregateByDimension: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Name != model.UnknownKey || !rows[0].Value(model.MeasureTotalCost).Equal(d(300)) {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].Name != "WH-A" || !rows[1].Value(model.MeasureTotalCost).Equal(d(250)) ||
		!rows[1].Value(model.MeasureProceed3PLWHValue).Equal(d(7)) {
		t.Fatalf("rows[1] = %+v", rows[1])
	}

	b, err := json.Marshal(rows[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"WH-A","totalIncurredCost":"250","proceed3PLWHValue":"7"}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

// TestAggregateByDimension_RepeatedMeasure 测试重复度量只汇总一次
func TestAggregateByDimension_RepeatedMeasure(t *testing.T) {
	records := []model.CostRecord{
		{Warehouse: "WH-A", TotalIncurredCost: d(1000)},
		{Warehouse: "WH-B", TotalIncurredCost: d(500)},
	}
	rows, err := AggregateByDimension(records, model.DimWarehouse,
		[]model.Measure{model.MeasureTotalCost, model.MeasureTotalCost})
	if err != nil {
		t.Fatalf("AggregateByDimension: %v", err)
	}
	if len(rows) != 2 || !rows[0].Value(model.MeasureTotalCost).Equal(d(1000)) ||
		!rows[1].Value(model.MeasureTotalCost).Equal(d(500)) {
		t.Fatalf("rows = %+v, want WH-A 1000, WH-B 500", rows)
	}

	b, err := json.Marshal(rows[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"name":"WH-A","totalIncurredCost":"1000"}`; string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestAggregateByDimension_Errors(t *testing.T) {
	if _, err := AggregateByDimension(nil, "colour", []model.Measure{model.MeasureTotalCost}); !errors.Is(err, ErrUnknownDimension) {
		t.Fatalf("err = %v, want ErrUnknownDimension", err)
	}
	if _, err := AggregateByDimension(nil, model.DimYear, []model.Measure{"weight"}); !errors.Is(err, ErrUnknownMeasure) {
		t.Fatalf("err = %v, want ErrUnknownMeasure", err)
	}
	if _, err := AggregateByDimension(nil, model.DimYear, nil); !errors.Is(err, ErrUnknownMeasure) {
		t.Fatalf("err = %v, want ErrUnknownMeasure", err)
	}
}
