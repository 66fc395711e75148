package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/inventory"
)

func (c *CLI) saleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record and list sales",
	}

	cmd.AddCommand(
		c.saleRecordCommand(),
		c.saleListCommand(),
	)
	return cmd
}

func (c *CLI) saleRecordCommand() *cobra.Command {
	var price, date string

	cmd := &cobra.Command{
		Use:   "record <product-id> <quantity>",
		Short: "Sell units of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.NewValidationError("invalid input",
					apperrors.ValidationDetail{Field: "quantity", Message: "must be an integer"})
			}

			var opts []inventory.SaleOption
			if cmd.Flags().Changed("price") {
				unit, err := parseMoney("price", price)
				if err != nil {
					return err
				}
				opts = append(opts, inventory.WithUnitPrice(unit))
			}
			if cmd.Flags().Changed("date") {
				at, err := parseTime("date", date, c.app.Location, false)
				if err != nil {
					return err
				}
				opts = append(opts, inventory.WithSaleDate(at))
			}

			sale, err := c.app.Inventory.RecordSale(cmd.Context(), id, quantity, opts...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sale %d: %d x %s @ %s = %s (profit %s)\n",
				sale.ID, sale.Quantity, sale.ProductName,
				sale.UnitPrice.StringFixed(2), sale.TotalAmount.StringFixed(2), sale.Profit.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "unit price, defaults to the product's sell price")
	cmd.Flags().StringVar(&date, "date", "", "sale time, defaults to now")
	return cmd
}

func (c *CLI) saleListCommand() *cobra.Command {
	var (
		from, to string
		product  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales in a date range or of one product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				sales []domain.Sale
				err   error
			)

			if cmd.Flags().Changed("product") {
				sales, err = c.app.Inventory.ListProductSales(cmd.Context(), product)
			} else {
				var start, end time.Time
				start, end, err = c.dateRange(from, to)
				if err != nil {
					return err
				}
				sales, err = c.app.Inventory.ListSales(cmd.Context(), start, end)
			}
			if err != nil {
				return err
			}

			return printSales(cmd.OutOrStdout(), sales, c.app.Location)
		},
	}

	c.rangeFlags(cmd, &from, &to)
	cmd.Flags().Int64Var(&product, "product", 0, "only sales of this product id")
	return cmd
}

func (c *CLI) rangeFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "range start (yyyy-MM-dd [HH:mm:ss]), defaults to today")
	cmd.Flags().StringVar(to, "to", "", "range end, inclusive, defaults to now")
}

func (c *CLI) dateRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().In(c.app.Location)
	start, end := startOfDay(now), now

	var err error
	if from != "" {
		if start, err = parseTime("from", from, c.app.Location, false); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to != "" {
		if end, err = parseTime("to", to, c.app.Location, true); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
