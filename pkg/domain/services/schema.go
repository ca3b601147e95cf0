package services

import (
	"strings"
)

// Canonical column names of the order dataset
const (
	ColumnRequestedDate   = "requested_date"
	ColumnDeliveryDate    = "delivery_date"
	ColumnItemCode        = "item_code"
	ColumnItemDescription = "item_description"
	ColumnMoldCode        = "mold_code"
	ColumnCustomerName    = "customer_name"
	ColumnOrderedQty      = "ordered_qty"
	ColumnDeliveredQty    = "delivered_qty"
	ColumnInventoryQty    = "inventory_qty"
)

// RequiredColumns lists every canonical column in schema order
var RequiredColumns = []string{
	ColumnRequestedDate,
	ColumnDeliveryDate,
	ColumnItemCode,
	ColumnItemDescription,
	ColumnMoldCode,
	ColumnCustomerName,
	ColumnOrderedQty,
	ColumnDeliveredQty,
	ColumnInventoryQty,
}

// DefaultAliases maps canonical columns to the header spellings found in
// exported order books, including the ERP's Chinese headers
var DefaultAliases = map[string][]string{
	ColumnRequestedDate:   {"customer_requested_date", "requested", "客戶需求日期"},
	ColumnDeliveryDate:    {"delivered_date", "delivery", "交貨日"},
	ColumnItemCode:        {"item", "item_name", "項目名稱"},
	ColumnItemDescription: {"description", "項目說明"},
	ColumnMoldCode:        {"mold", "公模"},
	ColumnCustomerName:    {"customer", "dealer", "客戶名稱", "客戶"},
	ColumnOrderedQty:      {"ordered", "order_qty", "原始訂單數"},
	ColumnDeliveredQty:    {"delivered", "已交數"},
	ColumnInventoryQty:    {"inventory", "a1_inventory", "A1庫存"},
}

// Schema resolves spreadsheet headers to canonical columns
type Schema struct {
	lookup map[string]string
}

// NewSchema builds a schema from the default aliases plus any extra ones.
// Canonical names always match themselves.
func NewSchema(extra map[string][]string) *Schema {
	s := &Schema{lookup: make(map[string]string)}
	for _, column := range RequiredColumns {
		s.addAlias(column, column)
		for _, alias := range DefaultAliases[column] {
			s.addAlias(column, alias)
		}
		for _, alias := range extra[column] {
			s.addAlias(column, alias)
		}
	}
	return s
}

func (s *Schema) addAlias(column, alias string) {
	key := normalizeHeader(alias)
	if key == "" {
		return
	}
	if _, exists := s.lookup[key]; !exists {
		s.lookup[key] = column
	}
}

// Resolve maps each canonical column to its index in header. The first header
// matching a column wins. Missing columns are returned in schema order.
func (s *Schema) Resolve(header []string) (map[string]int, []string) {
	indices := make(map[string]int, len(RequiredColumns))
	for i, name := range header {
		column, ok := s.lookup[normalizeHeader(name)]
		if !ok {
			continue
		}
		if _, seen := indices[column]; !seen {
			indices[column] = i
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if _, ok := indices[column]; !ok {
			missing = append(missing, column)
		}
	}
	return indices, missing
}

func normalizeHeader(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "\ufeff")
	return strings.NewReplacer(" ", "_", "-", "_").Replace(n)
}
