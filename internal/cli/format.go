package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/report/spreadsheet"
)

const (
	dateLayout     = time.DateOnly
	dateTimeLayout = spreadsheet.TimestampLayout
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printProducts(out io.Writer, products []domain.Product) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tBUY\tSELL\tQTY\tCRITICAL\tBARCODE\tSUPPLIER\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			p.ID, p.Name, p.BuyPrice.StringFixed(2), p.SellPrice.StringFixed(2),
			p.Quantity, p.CriticalLevel, p.Barcode, p.Supplier, spreadsheet.Status(p.IsLowStock()))
	}
	return tw.Flush()
}

func printProduct(out io.Writer, p *domain.Product) error {
	tw := newTable(out)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Buy price:\t%s\n", p.BuyPrice.StringFixed(2))
	fmt.Fprintf(tw, "Sell price:\t%s\n", p.SellPrice.StringFixed(2))
	fmt.Fprintf(tw, "Quantity:\t%d\n", p.Quantity)
	fmt.Fprintf(tw, "Critical level:\t%d\n", p.CriticalLevel)
	fmt.Fprintf(tw, "Barcode:\t%s\n", p.Barcode)
	fmt.Fprintf(tw, "Supplier:\t%s\n", p.Supplier)
	fmt.Fprintf(tw, "Stock value:\t%s\n", p.TotalValue().StringFixed(2))
	fmt.Fprintf(tw, "Status:\t%s\n", spreadsheet.Status(p.IsLowStock()))
	return tw.Flush()
}

func printSales(out io.Writer, sales []domain.Sale, loc *time.Location) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tPRODUCT\tNAME\tQTY\tUNIT\tTOTAL\tPROFIT\tDATE")
	for _, s := range sales {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			s.ID, s.ProductID, s.ProductName, s.Quantity,
			s.UnitPrice.StringFixed(2), s.TotalAmount.StringFixed(2), s.Profit.StringFixed(2),
			s.SaleDate.In(loc).Format(dateTimeLayout))
	}
	return tw.Flush()
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("invalid input",
			apperrors.ValidationDetail{Field: field, Message: "not a decimal number"})
	}
	return d, nil
}

// parseTime accepts a date or a date and time in loc. A bare date used as
// an upper bound covers the whole day.
func parseTime(field, value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.ParseInLocation(dateTimeLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		if endOfDay {
			return t.AddDate(0, 0, 1).Add(-time.Microsecond), nil
		}
		return t, nil
	}

	return time.Time{}, apperrors.NewValidationError("invalid input",
		apperrors.ValidationDetail{Field: field, Message: "expected yyyy-MM-dd or yyyy-MM-dd HH:mm:ss"})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
