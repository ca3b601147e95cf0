package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/orderdash/pkg/domain/entities"
)

func TestRate_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		rate     Rate
		expected string
	}{
		{"undefined", Rate{}, "null"},
		{"whole", NewRate(decimal.NewFromInt(100)), "100"},
		{"fraction", NewRate(decimal.RequireFromString("53.33")), "53.33"},
		{"negative", NewRate(decimal.NewFromInt(-20)), "-20"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.rate)
			if err != nil {
				t.Fatalf("Failed to marshal rate: %v", err)
			}
			if string(data) != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, data)
			}
		})
	}
}

func TestRowsEncodeNumbersAsNumbers(t *testing.T) {
	rows := struct {
		Trend     []PeriodRow    `json:"trend"`
		Inventory []InventoryRow `json:"inventory"`
	}{
		Trend: []PeriodRow{{
			Period:       entities.Period{Year: 2023, Month: 11},
			OrderedQty:   entities.NewQuantity(150),
			DeliveredQty: entities.NewQuantity(80),
			DeliveryRate: NewRate(decimal.RequireFromString("53.5")),
		}},
		Inventory: []InventoryRow{{
			ItemCode:     "ABC100",
			InventoryQty: entities.NewQuantity(450),
			SharePercent: NewRate(decimal.RequireFromString("69.66")),
		}},
	}

	data, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Failed to marshal rows: %v", err)
	}

	var decoded struct {
		Trend []struct {
			OrderedQty   float64 `json:"ordered_qty"`
			DeliveryRate float64 `json:"delivery_rate"`
		} `json:"trend"`
		Inventory []struct {
			InventoryQty float64 `json:"inventory_qty"`
			SharePercent float64 `json:"share_percent"`
		} `json:"inventory"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected numeric fields, failed to decode %s: %v", data, err)
	}
	if decoded.Trend[0].DeliveryRate != 53.5 {
		t.Errorf("Expected delivery rate 53.5, got %v", decoded.Trend[0].DeliveryRate)
	}
	if decoded.Inventory[0].SharePercent != 69.66 {
		t.Errorf("Expected share 69.66, got %v", decoded.Inventory[0].SharePercent)
	}
}
