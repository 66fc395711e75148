package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/report/pdf"
	"stockkeeper/internal/report/spreadsheet"
)

const (
	salesReportFile  = "sales_report.xlsx"
	stockReportFile  = "stock_report.xlsx"
	dailyChartFile   = "daily_sales.xlsx"
	distributionFile = "product_distribution.xlsx"
)

func (c *CLI) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Totals, reports and charts",
	}

	cmd.AddCommand(
		c.reportTotalsCommand(),
		c.reportSalesCommand(),
		c.reportStockCommand(),
		c.reportChartCommand(),
		c.reportDistributionCommand(),
	)
	return cmd
}

func (c *CLI) reportTotalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show revenue and profit over all sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			revenue, err := c.app.Inventory.TotalRevenue(cmd.Context())
			if err != nil {
				return err
			}
			profit, err := c.app.Inventory.TotalProfit(cmd.Context())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Total revenue:\t%s\n", revenue.StringFixed(2))
			fmt.Fprintf(tw, "Total profit:\t%s\n", profit.StringFixed(2))
			return tw.Flush()
		},
	}
}

func (c *CLI) reportSalesCommand() *cobra.Command {
	var from, to, file string

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Export the sales of a date range (.xlsx or .pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := c.dateRange(from, to)
			if err != nil {
				return err
			}

			r, err := c.app.Reports.SalesReport(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			path := c.reportPath(file, salesReportFile)
			var buf bytes.Buffer
			switch ext(path) {
			case ".pdf":
				data, err := pdf.SalesReport(r, c.app.Location)
				if err != nil {
					return err
				}
				buf.Write(data)
			default:
				if err := spreadsheet.WriteSalesReport(&buf, r, c.app.Location); err != nil {
					return err
				}
			}

			if err := c.save(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sales to %s (revenue %s, profit %s)\n",
				r.Summary.SaleCount, path, r.Summary.TotalRevenue.StringFixed(2), r.Summary.TotalProfit.StringFixed(2))
			return nil
		},
	}

	c.rangeFlags(cmd, &from, &to)
	cmd.Flags().StringVar(&file, "file", "", "output file, defaults to "+salesReportFile+" in the report directory")
	return cmd
}

func (c *CLI) reportStockCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Export current stock with status (.xlsx or .pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.app.Reports.StockReport(cmd.Context())
			if err != nil {
				return err
			}

			path := c.reportPath(file, stockReportFile)
			var buf bytes.Buffer
			switch ext(path) {
			case ".pdf":
				data, err := pdf.StockReport(r)
				if err != nil {
					return err
				}
				buf.Write(data)
			default:
				if err := spreadsheet.WriteStockReport(&buf, r); err != nil {
					return err
				}
			}

			if err := c.save(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products to %s (stock value %s, critical %d)\n",
				len(r.Products), path, r.Summary.TotalStockValue.StringFixed(2), r.Summary.LowStockCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "output file, defaults to "+stockReportFile+" in the report directory")
	return cmd
}

func (c *CLI) reportChartCommand() *cobra.Command {
	var from, to, file string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Daily sales totals with a line chart (.xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := c.dateRange(from, to)
			if err != nil {
				return err
			}

			daily, err := c.app.Reports.DailyChart(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			path := c.reportPath(file, dailyChartFile)
			if err := requireXLSX(path); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := spreadsheet.WriteDailyChart(&buf, daily); err != nil {
				return err
			}
			if err := c.save(path, buf.Bytes()); err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			for _, d := range daily {
				fmt.Fprintf(tw, "%s\t%s\n", d.Day, d.Total.StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d days to %s\n", len(daily), path)
			return nil
		},
	}

	c.rangeFlags(cmd, &from, &to)
	cmd.Flags().StringVar(&file, "file", "", "output file, defaults to "+dailyChartFile+" in the report directory")
	return cmd
}

func (c *CLI) reportDistributionCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Stock value per product with a pie chart (.xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := c.app.Reports.Distribution(cmd.Context())
			if err != nil {
				return err
			}

			path := c.reportPath(file, distributionFile)
			if err := requireXLSX(path); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := spreadsheet.WriteDistributionChart(&buf, shares); err != nil {
				return err
			}
			if err := c.save(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products to %s\n", len(shares), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "output file, defaults to "+distributionFile+" in the report directory")
	return cmd
}

func (c *CLI) reportPath(file, fallback string) string {
	if file != "" {
		return file
	}
	return filepath.Join(c.app.ReportDir, fallback)
}

func (c *CLI) save(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	c.app.Logger.Info("report written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func requireXLSX(path string) error {
	if ext(path) != ".xlsx" {
		return apperrors.NewValidationError("invalid input",
			apperrors.ValidationDetail{Field: "file", Message: "charts are written as .xlsx"})
	}
	return nil
}
