package testing

import (
	"time"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

// Order builds an OrderRecord with a requested date, optional delivery
// date (zero time for none) and quantities in whole units
func Order(
	requested time.Time,
	delivery time.Time,
	itemCode, customer string,
	ordered, delivered, inventory int64,
) entities.OrderRecord {
	record := entities.OrderRecord{
		ItemCode:     itemCode,
		CustomerName: customer,
		OrderedQty:   entities.NewQuantity(ordered),
		DeliveredQty: entities.NewQuantity(delivered),
		InventoryQty: entities.NewQuantity(inventory),
	}
	if !requested.IsZero() {
		record.RequestedDate = entities.DateOf(requested)
	}
	if !delivery.IsZero() {
		record.DeliveryDate = entities.DateOf(delivery)
	}
	return record
}

// Day is shorthand for a UTC calendar day
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// BuildDealerTestData builds a small order book spanning two years and
// three dealers, with one undated and one uncoded record
func BuildDealerTestData() *entities.Dataset {
	records := []entities.OrderRecord{
		Order(Day(2023, time.November, 3), Day(2023, time.November, 20), "ABC100", "Dealer A", 100, 80, 500),
		Order(Day(2023, time.November, 18), Day(2023, time.December, 2), "ABC200", "Dealer A", 50, 0, 300),
		Order(Day(2024, time.January, 9), Day(2024, time.January, 30), "ABC100", "Dealer A", 40, 40, 450),
		Order(Day(2024, time.January, 22), Day(2024, time.February, 14), "XYZ001", "Dealer B", 200, 150, 120),
		Order(Day(2024, time.March, 5), Day(2024, time.March, 28), "ABC200", "Dealer A", 0, 0, 5),
		Order(Day(2024, time.March, 11), Day(2024, time.April, 1), "XYZ002", "Dealer C", 75, 90, 60),
		Order(Day(2024, time.April, 2), Day(2024, time.April, 25), "QRS500", "Dealer A", 30, 10, 191),
		Order(time.Time{}, Day(2024, time.May, 6), "ABC300", "Dealer A", 10, 10, 5),
		Order(Day(2024, time.May, 17), Day(2024, time.June, 3), "", "Dealer B", 25, 25, 0),
	}
	for i := range records {
		records[i].Row = i + 2
		records[i].ItemDescription = "desc " + records[i].ItemCode
		records[i].MoldCode = "M-" + records[i].ItemCode
	}
	return entities.NewDataset("dealers.xlsx", records, nil)
}

// CanonicalHeader is the order schema in canonical column names
var CanonicalHeader = []string{
	"requested_date", "delivery_date", "item_code", "item_description", "mold_code",
	"customer_name", "ordered_qty", "delivered_qty", "inventory_qty",
}

// BuildRawTable renders records as a canonical raw table, the shape the file
// readers hand to the dataset loader
func BuildRawTable(records []entities.OrderRecord) entities.RawTable {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.RequestedDate.String(),
			r.DeliveryDate.String(),
			r.ItemCode,
			r.ItemDescription,
			r.MoldCode,
			r.CustomerName,
			r.OrderedQty.String(),
			r.DeliveredQty.String(),
			r.InventoryQty.String(),
		})
	}
	header := make([]string, len(CanonicalHeader))
	copy(header, CanonicalHeader)
	return entities.RawTable{Header: header, Rows: rows}
}
