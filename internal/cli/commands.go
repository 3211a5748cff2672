package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riaziiii/pos-system/internal/repository"
	"github.com/riaziiii/pos-system/internal/service"
)

const dateLayout = "2006-01-02"

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a 6-digit PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		pin, err := readPIN("PIN: ")
		if err != nil {
			return err
		}

		res := a.auth.Login(cmd.Context(), pin)
		if !res.Success {
			if a.auth.Locked() {
				fmt.Println("Account temporarily locked")
			}
			return fmt.Errorf("%s", res.Message)
		}

		user := a.auth.CurrentUser()
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of this terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		a.auth.RestoreSession(cmd.Context())
		a.auth.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.auth.RestoreSession(cmd.Context()) {
			fmt.Println("Not logged in")
			return nil
		}
		user := a.auth.CurrentUser()
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
		if user.LastLoginAt != nil {
			fmt.Printf("Last login: %s\n", user.LastLoginAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Manage your PIN",
}

var pinChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change the signed-in user's PIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		oldPin, err := readPIN("Current PIN: ")
		if err != nil {
			return err
		}
		newPin, err := readPIN("New PIN: ")
		if err != nil {
			return err
		}

		res := a.auth.ChangePin(cmd.Context(), oldPin, newPin)
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		fmt.Println("PIN updated")
		return nil
	},
}

var pinResetAttemptsCmd = &cobra.Command{
	Use:   "reset-attempts",
	Short: "Clear the failed-attempt counter on your own account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		a.auth.ResetLoginAttempts(cmd.Context())
		fmt.Println("Login attempts reset")
		return nil
	},
}

var menuCategory string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Browse the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		products, err := a.catalog.List(cmd.Context(), menuCategory)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("No products found")
			return nil
		}
		for _, p := range products {
			marker := " "
			if p.BestSeller {
				marker = "*"
			}
			fmt.Printf("%s %-12s %-20s %-10s $%.2f\n", marker, p.ID, p.Name, p.Category, p.Price)
		}
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place orders",
}

var (
	orderItems   []string
	orderPayment string
	orderTable   string
	orderType    string
	orderEmail   string
	orderPhone   string
)

// parseItemSpec splits an --item value of the form "id" or "id:qty".
func parseItemSpec(spec string) (string, int, error) {
	id, qtyStr, found := strings.Cut(spec, ":")
	if id == "" {
		return "", 0, fmt.Errorf("invalid item %q", spec)
	}
	if !found {
		return id, 1, nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("invalid quantity in %q", spec)
	}
	return id, qty, nil
}

var orderNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Build a cart from --item flags and check it out",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireCapability(cmd.Context(), repository.CapProcessSales); err != nil {
			return err
		}

		cart := service.NewCart()
		for _, spec := range orderItems {
			id, qty, err := parseItemSpec(spec)
			if err != nil {
				return err
			}
			product, err := a.catalog.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("unknown product %q", id)
			}
			cart.Add(product)
			cart.SetQuantity(product.ID, qty)
		}

		order, err := a.orders.Checkout(cmd.Context(), cart, service.CheckoutRequest{
			PaymentMethod: repository.PaymentMethod(orderPayment),
			CustomerEmail: orderEmail,
			CustomerPhone: orderPhone,
			OrderType:     orderType,
			TableNumber:   orderTable,
		})
		if err != nil {
			return err
		}
		cart.Clear()

		fmt.Print(service.Receipt(order))
		return nil
	},
}

var (
	ordersStatus string
	ordersLimit  int
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List recent orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireSession(cmd.Context()); err != nil {
			return err
		}

		orders, err := a.orders.List(cmd.Context(), repository.OrderFilter{
			Status: repository.OrderStatus(ordersStatus),
			Limit:  ordersLimit,
		})
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("No orders found")
			return nil
		}
		for _, o := range orders {
			fmt.Printf("%-20s %-10s %-5s $%8.2f  %d items  %s\n",
				o.OrderNumber, o.Status, o.PaymentMethod, o.TotalAmount,
				len(o.Items), o.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var (
	reportFrom string
	reportTo   string
	reportCSV  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Sales summary over a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireCapability(cmd.Context(), repository.CapViewReports); err != nil {
			return err
		}

		now := time.Now()
		from := now.AddDate(0, 0, -30)
		to := now
		if reportFrom != "" {
			if from, err = time.ParseInLocation(dateLayout, reportFrom, time.Local); err != nil {
				return fmt.Errorf("invalid --from date: %w", err)
			}
		}
		if reportTo != "" {
			day, err := time.ParseInLocation(dateLayout, reportTo, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}
			to = day.AddDate(0, 0, 1)
		}

		if reportCSV != "" {
			f, err := os.Create(reportCSV)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", reportCSV, err)
			}
			defer f.Close()

			filter := repository.OrderFilter{From: from, To: to}
			if err := a.reports.ExportCSV(cmd.Context(), f, filter); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", reportCSV)
			return nil
		}

		summary, err := a.reports.SalesSummary(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		fmt.Printf("Sales %s to %s\n", from.Format(dateLayout), to.Format(dateLayout))
		fmt.Printf("Orders:  %d\n", summary.TotalOrders)
		fmt.Printf("Revenue: $%.2f\n", summary.TotalRevenue)
		if len(summary.ByCategory) > 0 {
			fmt.Println("By category:")
			for category, revenue := range summary.ByCategory {
				fmt.Printf("  %-15s $%.2f\n", category, revenue)
			}
		}
		if len(summary.ByPayment) > 0 {
			fmt.Println("By payment method:")
			for method, revenue := range summary.ByPayment {
				fmt.Printf("  %-15s $%.2f\n", method, revenue)
			}
		}
		if len(summary.TopProducts) > 0 {
			fmt.Println("Top products:")
			for _, p := range summary.TopProducts {
				fmt.Printf("  %-20s x%-4d $%.2f\n", p.Name, p.Quantity, p.Revenue)
			}
		}
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Staff administration",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireCapability(cmd.Context(), repository.CapManageUsers); err != nil {
			return err
		}

		users, err := a.staff.List(cmd.Context())
		if err != nil {
			return err
		}
		now := time.Now()
		for _, u := range users {
			state := "active"
			switch {
			case u.Locked(now):
				state = fmt.Sprintf("locked until %s", u.LockedUntil.Local().Format("15:04"))
			case !u.IsActive:
				state = "inactive"
			}
			fmt.Printf("%-12s %-20s %-8s %s\n", u.ID, u.Name, u.Role, state)
		}
		return nil
	},
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.requireCapability(cmd.Context(), repository.CapManageUsers); err != nil {
				return err
			}
			if err := a.staff.SetActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			fmt.Printf("User %s %sd\n", args[0], use)
			return nil
		},
	}
}

var usersUnlockCmd = &cobra.Command{
	Use:   "unlock <user-id>",
	Short: "Clear a lockout and failed attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.requireCapability(cmd.Context(), repository.CapUnlockAccounts); err != nil {
			return err
		}
		if err := a.staff.Unlock(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("User %s unlocked\n", args[0])
		return nil
	},
}

func init() {
	pinCmd.AddCommand(pinChangeCmd, pinResetAttemptsCmd)

	menuCmd.Flags().StringVar(&menuCategory, "category", "", "filter by category")

	orderNewCmd.Flags().StringArrayVar(&orderItems, "item", nil, "product to add, as id or id:qty (repeatable)")
	orderNewCmd.Flags().StringVar(&orderPayment, "pay", "cash", "payment method (cash or card)")
	orderNewCmd.Flags().StringVar(&orderTable, "table", "", "table number")
	orderNewCmd.Flags().StringVar(&orderType, "type", "dine-in", "order type (dine-in or takeout)")
	orderNewCmd.Flags().StringVar(&orderEmail, "email", "", "customer email for the receipt")
	orderNewCmd.Flags().StringVar(&orderPhone, "phone", "", "customer phone")
	orderCmd.AddCommand(orderNewCmd)

	ordersCmd.Flags().StringVar(&ordersStatus, "status", "", "filter by status")
	ordersCmd.Flags().IntVar(&ordersLimit, "limit", 20, "maximum orders to show")

	reportCmd.Flags().StringVar(&reportFrom, "from", "", "start date (YYYY-MM-DD), default 30 days ago")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "end date (YYYY-MM-DD), inclusive")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "write a per-item CSV export to this path instead")

	usersCmd.AddCommand(
		usersListCmd,
		setActiveCmd("activate", "Re-enable a staff account", true),
		setActiveCmd("deactivate", "Disable a staff account", false),
		usersUnlockCmd,
	)
}
