package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/orderdash/pkg/application/services"
	"github.com/vsinha/orderdash/pkg/application/services/report"
	"github.com/vsinha/orderdash/pkg/domain/entities"
	domainservices "github.com/vsinha/orderdash/pkg/domain/services"
	"github.com/vsinha/orderdash/pkg/infrastructure/events"
	"github.com/vsinha/orderdash/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/orderdash/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// An upload as the file readers would hand it over, with the Chinese headers
	table := entities.RawTable{
		Header: []string{"客戶需求日期", "交貨日", "項目名稱", "項目說明", "公模", "客戶名稱", "原始訂單數", "已交數", "A1庫存"},
		Rows: [][]string{
			{"2024-01-05", "2024-01-25", "TYR100", "tyre 100", "M1", "嘉航車業", "120", "100", "900"},
			{"2024-01-18", "2024-02-10", "TYR200", "tyre 200", "M2", "嘉航車業", "80", "80", "400"},
			{"2024-02-02", "2024-02-28", "TYR100", "tyre 100", "M1", "明杰輪業", "60", "30", "850"},
			{"2024-03-11", "", "RIM050", "rim 50", "M9", "嘉航車業", "40", "0", "5"},
			{"2024-04-20", "2024-05-15", "TYR200", "tyre 200", "M2", "嘉航車業", "0", "0", "350"},
		},
	}

	session := services.NewSession(
		domainservices.NewDatasetLoader(),
		memory.NewDatasetRepository(),
		events.NewInMemoryEventStore(),
	)

	ds, err := session.Load(ctx, "example", table)
	if err != nil {
		fmt.Printf("❌ Load failed: %v\n", err)
		return
	}
	fmt.Printf("📂 Loaded %d order lines\n\n", ds.Len())

	requests := []report.ReportRequest{
		{View: report.ViewProductTrend, CatalogPrefix: "TYR"},
		{View: report.ViewCurrentInventory, Customer: "嘉航車業"},
		{
			View:     report.ViewSeasonality,
			Customer: "嘉航車業",
			Range:    report.NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)),
		},
	}

	for _, req := range requests {
		result, err := session.Run(ctx, req)
		if err != nil {
			fmt.Printf("❌ %s failed: %v\n", req.View, err)
			continue
		}
		if err := output.WriteText(os.Stdout, result, output.Config{}); err != nil {
			fmt.Printf("❌ %s output failed: %v\n", req.View, err)
		}
		fmt.Println()
	}

	history, _ := session.History()
	fmt.Printf("🧾 Session %s recorded %d events\n", session.ID(), len(history))
}
