package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
)

// ReportService produces the sales rollup and the CSV export.
type ReportService struct {
	orders OrderStore
	log    zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(orders OrderStore, log zerolog.Logger) *ReportService {
	return &ReportService{orders: orders, log: log}
}

// SalesSummary computes the rollup over completed orders in [from, to).
func (s *ReportService) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	summary, err := s.orders.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute sales summary: %w", err)
	}
	return summary, nil
}

var csvHeader = []string{
	"order_number", "created_at", "status", "payment_method",
	"item_name", "category", "quantity", "unit_price", "total_price",
}

// ExportCSV writes one row per order line for the orders in [from, to).
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, f repository.OrderFilter) error {
	orders, err := s.orders.ListOrders(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to load orders for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, order := range orders {
		for _, item := range order.Items {
			record := []string{
				order.OrderNumber,
				order.CreatedAt.Format(time.RFC3339),
				string(order.Status),
				string(order.PaymentMethod),
				item.Name,
				item.Category,
				strconv.Itoa(item.Quantity),
				strconv.FormatFloat(item.UnitPrice, 'f', 2, 64),
				strconv.FormatFloat(item.TotalPrice, 'f', 2, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv record: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	s.log.Debug().Int("orders", len(orders)).Msg("Exported orders to CSV")
	return nil
}
