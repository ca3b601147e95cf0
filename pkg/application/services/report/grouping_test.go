package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/domain/entities"
	testhelpers "github.com/vsinha/orderdash/pkg/infrastructure/testing"
)

func TestGroupByPeriod_DeliveryRate(t *testing.T) {
	day := testhelpers.Day(2024, time.February, 10)
	records := []entities.OrderRecord{
		testhelpers.Order(day, time.Time{}, "ABC1", "Dealer A", 100, 50, 0),
		testhelpers.Order(day, time.Time{}, "ABC2", "Dealer A", 50, 30, 0),
	}

	result := GroupByPeriod(records, GroupSpec{PeriodColumn: entities.RequestedDate})

	if len(result.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Period != (entities.Period{Year: 2024, Month: 2}) {
		t.Errorf("Expected period 2024-02, got %s", row.Period)
	}
	if !row.OrderedQty.Equal(entities.NewQuantity(150)) || !row.DeliveredQty.Equal(entities.NewQuantity(80)) {
		t.Errorf("Expected 150 ordered / 80 delivered, got %s / %s", row.OrderedQty, row.DeliveredQty)
	}
	if !row.DeliveryRate.Valid {
		t.Fatal("Expected a defined delivery rate")
	}
	// Rate of the sums, not the mean of per-record rates (55)
	if got := row.DeliveryRate.Decimal.Round(2); !got.Equal(decimal.RequireFromString("53.33")) {
		t.Errorf("Expected rate 53.33, got %s", got)
	}
	if row.RateOutOfRange {
		t.Error("Expected rate within range")
	}
}

func TestGroupByPeriod_ZeroOrdered(t *testing.T) {
	day := testhelpers.Day(2024, time.February, 10)
	records := []entities.OrderRecord{
		testhelpers.Order(day, time.Time{}, "ABC1", "Dealer A", 0, 0, 0),
		testhelpers.Order(day, time.Time{}, "ABC2", "Dealer A", 0, 0, 0),
	}

	result := GroupByPeriod(records, GroupSpec{})

	if len(result.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(result.Rows))
	}
	if result.Rows[0].DeliveryRate.Valid {
		t.Errorf("Expected undefined rate, got %s", result.Rows[0].DeliveryRate.Decimal)
	}
}

func TestDeliveryRate(t *testing.T) {
	testCases := []struct {
		name      string
		delivered int64
		ordered   int64
		valid     bool
		expected  string
	}{
		{"full delivery", 40, 40, true, "100"},
		{"partial", 150, 200, true, "75"},
		{"nothing delivered", 0, 50, true, "0"},
		{"nothing ordered", 10, 0, false, ""},
		{"over delivered", 90, 75, true, "120"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate := DeliveryRate(entities.NewQuantity(tc.delivered), entities.NewQuantity(tc.ordered))
			if rate.Valid != tc.valid {
				t.Fatalf("Expected valid=%v, got %v", tc.valid, rate.Valid)
			}
			if tc.valid && !rate.Decimal.Equal(decimal.RequireFromString(tc.expected)) {
				t.Errorf("Expected %s, got %s", tc.expected, rate.Decimal)
			}
		})
	}
}

func TestGroupByPeriod_ByCustomer(t *testing.T) {
	ds := testhelpers.BuildDealerTestData()

	result := GroupByPeriod(ds.Records, GroupSpec{
		PeriodColumn: entities.RequestedDate,
		SecondaryKey: KeyCustomer,
	})

	if result.Skipped != 1 {
		t.Errorf("Expected the undated record to be skipped, got %d skipped", result.Skipped)
	}

	type bucket struct {
		period string
		key    string
	}
	var got []bucket
	for _, row := range result.Rows {
		got = append(got, bucket{row.Period.String(), row.Key})
	}
	expected := []bucket{
		{"2023-11", "Dealer A"},
		{"2024-01", "Dealer A"},
		{"2024-01", "Dealer B"},
		{"2024-03", "Dealer A"},
		{"2024-03", "Dealer C"},
		{"2024-04", "Dealer A"},
		{"2024-05", "Dealer B"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("Unexpected buckets:\n got %v\nwant %v", got, expected)
	}

	over := result.Rows[4]
	if !over.RateOutOfRange {
		t.Errorf("Expected %s %s flagged out of range", over.Period, over.Key)
	}
	if !over.DeliveryRate.Decimal.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected out-of-range rate reported as computed (120), got %s", over.DeliveryRate.Decimal)
	}
}

func TestGroupByPeriod_SumInvariant(t *testing.T) {
	ds := testhelpers.BuildDealerTestData()

	for _, key := range []SecondaryKey{KeyNone, KeyItem, KeyCustomer, KeyCatalogPrefix} {
		t.Run(key.String(), func(t *testing.T) {
			result := GroupByPeriod(ds.Records, GroupSpec{PeriodColumn: entities.RequestedDate, SecondaryKey: key})

			inputOrdered, inputDelivered := entities.ZeroQuantity, entities.ZeroQuantity
			for _, r := range ds.Records {
				if _, ok := entities.PeriodOf(r.RequestedDate); !ok {
					continue
				}
				if _, ok := key.keyOf(r); !ok {
					continue
				}
				inputOrdered = inputOrdered.Add(r.OrderedQty)
				inputDelivered = inputDelivered.Add(r.DeliveredQty)
			}

			outputOrdered, outputDelivered := entities.ZeroQuantity, entities.ZeroQuantity
			for _, row := range result.Rows {
				outputOrdered = outputOrdered.Add(row.OrderedQty)
				outputDelivered = outputDelivered.Add(row.DeliveredQty)
			}

			if !inputOrdered.Equal(outputOrdered) {
				t.Errorf("Ordered sum changed: input %s, output %s", inputOrdered, outputOrdered)
			}
			if !inputDelivered.Equal(outputDelivered) {
				t.Errorf("Delivered sum changed: input %s, output %s", inputDelivered, outputDelivered)
			}
		})
	}

	plain := GroupByPeriod(ds.Records, GroupSpec{})
	total := entities.ZeroQuantity
	for _, row := range plain.Rows {
		total = total.Add(row.OrderedQty)
	}
	if !total.Equal(entities.NewQuantity(520)) {
		t.Errorf("Expected 520 ordered across dated records, got %s", total)
	}
}

func TestGroupByPeriod_CatalogPrefixSkipsUncoded(t *testing.T) {
	ds := testhelpers.BuildDealerTestData()

	result := GroupByPeriod(ds.Records, GroupSpec{SecondaryKey: KeyCatalogPrefix})

	// One undated record and one without an item code
	if result.Skipped != 2 {
		t.Errorf("Expected 2 skipped, got %d", result.Skipped)
	}
	for _, row := range result.Rows {
		if row.Key == "" {
			t.Errorf("Unexpected empty prefix bucket at %s", row.Period)
		}
	}
}

func TestGroupByPeriod_Idempotent(t *testing.T) {
	ds := testhelpers.BuildDealerTestData()
	spec := GroupSpec{PeriodColumn: entities.DeliveryDate, SecondaryKey: KeyItem}

	first := GroupByPeriod(ds.Records, spec)
	second := GroupByPeriod(ds.Records, spec)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical inputs")
	}
}

func TestGroupByPeriod_Empty(t *testing.T) {
	result := GroupByPeriod(nil, GroupSpec{})
	if len(result.Rows) != 0 || result.Skipped != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}
