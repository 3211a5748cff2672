package service

import (
	"context"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
	"github.com/riaziiii/pos-system/internal/repository/memory"
)

func seedOrders(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	orders := []*repository.Order{
		{
			ID: "o-1", OrderNumber: "ORD-20260815-AAAAAA",
			Status: repository.OrderCompleted, PaymentMethod: repository.PayCash,
			TotalAmount: 30.97, CreatedAt: base,
			Items: []*repository.OrderItem{
				{ProductID: "p-burger", Name: "Classic Burger", Category: "main", Quantity: 2, UnitPrice: 12.99, TotalPrice: 25.98},
				{ProductID: "p-fries", Name: "Crispy Fries", Category: "sides", Quantity: 1, UnitPrice: 4.99, TotalPrice: 4.99},
			},
		},
		{
			ID: "o-2", OrderNumber: "ORD-20260815-BBBBBB",
			Status: repository.OrderCompleted, PaymentMethod: repository.PayCard,
			TotalAmount: 12.99, CreatedAt: base.Add(time.Hour),
			Items: []*repository.OrderItem{
				{ProductID: "p-burger", Name: "Classic Burger", Category: "main", Quantity: 1, UnitPrice: 12.99, TotalPrice: 12.99},
			},
		},
		// Cancelled orders stay out of the rollup.
		{
			ID: "o-3", OrderNumber: "ORD-20260815-CCCCCC",
			Status: repository.OrderCancelled, PaymentMethod: repository.PayCash,
			TotalAmount: 99, CreatedAt: base,
			Items: []*repository.OrderItem{
				{ProductID: "p-pizza", Name: "Margherita Pizza", Category: "main", Quantity: 1, UnitPrice: 99, TotalPrice: 99},
			},
		},
		// Outside the report window.
		{
			ID: "o-4", OrderNumber: "ORD-20260901-DDDDDD",
			Status: repository.OrderCompleted, PaymentMethod: repository.PayCash,
			TotalAmount: 4.99, CreatedAt: base.AddDate(0, 0, 30),
			Items: []*repository.OrderItem{
				{ProductID: "p-fries", Name: "Crispy Fries", Category: "sides", Quantity: 1, UnitPrice: 4.99, TotalPrice: 4.99},
			},
		},
	}
	for _, o := range orders {
		if err := store.CreateOrder(ctx, o); err != nil {
			t.Fatalf("CreateOrder(%s) error = %v", o.ID, err)
		}
	}
}

func TestSalesSummary(t *testing.T) {
	store := memory.NewStore()
	seedOrders(t, store)
	svc := NewReportService(store, zerolog.Nop())

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.SalesSummary(context.Background(), from, to)
	if err != nil {
		t.Fatalf("SalesSummary() error = %v", err)
	}

	if summary.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", summary.TotalOrders)
	}
	if math.Abs(summary.TotalRevenue-43.96) > 1e-9 {
		t.Errorf("total revenue = %v, want 43.96", summary.TotalRevenue)
	}
	if math.Abs(summary.ByCategory["main"]-38.97) > 1e-9 {
		t.Errorf("main revenue = %v, want 38.97", summary.ByCategory["main"])
	}
	if math.Abs(summary.ByPayment[repository.PayCash]-30.97) > 1e-9 {
		t.Errorf("cash revenue = %v, want 30.97", summary.ByPayment[repository.PayCash])
	}

	if len(summary.TopProducts) == 0 {
		t.Fatal("no top products")
	}
	top := summary.TopProducts[0]
	if top.ProductID != "p-burger" || top.Quantity != 3 {
		t.Errorf("top product = %+v, want p-burger x3", top)
	}
}

func TestExportCSV(t *testing.T) {
	store := memory.NewStore()
	seedOrders(t, store)
	svc := NewReportService(store, zerolog.Nop())

	var buf strings.Builder
	filter := repository.OrderFilter{
		Status: repository.OrderCompleted,
		From:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.ExportCSV(context.Background(), &buf, filter); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}

	// Header plus one row per item line of the two completed orders.
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	if records[0][0] != "order_number" || records[0][4] != "item_name" {
		t.Errorf("header = %v", records[0])
	}
	for _, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			t.Errorf("ragged row: %v", rec)
		}
		if rec[2] != "completed" {
			t.Errorf("status = %q, want completed", rec[2])
		}
	}
}
