package service

import (
	"fmt"
	"strings"

	"github.com/riaziiii/pos-system/internal/repository"
)

const receiptWidth = 40

// Receipt renders a fixed-width text receipt for a completed order.
func Receipt(order *repository.Order) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	center := func(s string) {
		pad := (receiptWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + s + "\n")
	}
	line := func(left, right string) {
		gap := receiptWidth - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
	}

	center("RESTAURANT POS")
	center(order.OrderNumber)
	center(order.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString(rule + "\n")

	for _, item := range order.Items {
		line(
			fmt.Sprintf("%d x %s", item.Quantity, item.Name),
			fmt.Sprintf("$%.2f", item.TotalPrice),
		)
		if item.SpecialInstructions != nil {
			b.WriteString("    * " + *item.SpecialInstructions + "\n")
		}
	}

	b.WriteString(rule + "\n")
	line("TOTAL", fmt.Sprintf("$%.2f", order.TotalAmount))
	line("Paid by "+string(order.PaymentMethod), "")
	if order.TableNumber != nil {
		line("Table "+*order.TableNumber, "")
	}
	center("Thank you!")
	return b.String()
}
