package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

func (c *CLI) productCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(
		c.productAddCommand(),
		c.productUpdateCommand(),
		c.productDeleteCommand(),
		c.productGetCommand(),
		c.productListCommand(),
		c.productScanCommand(),
		c.productImportCommand(),
		c.productExportCommand(),
	)
	return cmd
}

func (c *CLI) productAddCommand() *cobra.Command {
	var (
		name, buyPrice, sellPrice, barcode, supplier string
		quantity, critical                           int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buy, err := parseMoney("buyPrice", buyPrice)
			if err != nil {
				return err
			}
			sell, err := parseMoney("sellPrice", sellPrice)
			if err != nil {
				return err
			}

			draft := domain.ProductDraft{
				Name:      name,
				BuyPrice:  buy,
				SellPrice: sell,
				Quantity:  quantity,
				Barcode:   barcode,
				Supplier:  supplier,
			}
			if cmd.Flags().Changed("critical-level") {
				draft.CriticalLevel = &critical
			}

			p, err := c.app.Inventory.CreateProduct(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&buyPrice, "buy-price", "0", "purchase price per unit")
	cmd.Flags().StringVar(&sellPrice, "sell-price", "0", "list price per unit")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "units on hand")
	cmd.Flags().IntVar(&critical, "critical-level", domain.DefaultCriticalLevel, "low stock threshold")
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode, unique when set")
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name")
	return cmd
}

func (c *CLI) productUpdateCommand() *cobra.Command {
	var (
		name, buyPrice, sellPrice, barcode, supplier string
		quantity, critical                           int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			p, err := c.app.Inventory.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("buy-price") {
				if p.BuyPrice, err = parseMoney("buyPrice", buyPrice); err != nil {
					return err
				}
			}
			if flags.Changed("sell-price") {
				if p.SellPrice, err = parseMoney("sellPrice", sellPrice); err != nil {
					return err
				}
			}
			if flags.Changed("quantity") {
				p.Quantity = quantity
			}
			if flags.Changed("critical-level") {
				p.CriticalLevel = critical
			}
			if flags.Changed("barcode") {
				p.Barcode = barcode
			}
			if flags.Changed("supplier") {
				p.Supplier = supplier
			}

			if err := c.app.Inventory.UpdateProduct(cmd.Context(), *p); err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&buyPrice, "buy-price", "", "purchase price per unit")
	cmd.Flags().StringVar(&sellPrice, "sell-price", "", "list price per unit")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "units on hand")
	cmd.Flags().IntVar(&critical, "critical-level", 0, "low stock threshold")
	cmd.Flags().StringVar(&barcode, "barcode", "", "barcode, empty clears it")
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name")
	return cmd
}

func (c *CLI) productDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product, its sales are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "Delete product %d? (y/N): ", id)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.TrimSpace(answer); a != "y" && a != "Y" {
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}

			if err := c.app.Inventory.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted product %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	return cmd
}

func (c *CLI) productGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			p, err := c.app.Inventory.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}
}

func (c *CLI) productListCommand() *cobra.Command {
	var lowStock bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				products []domain.Product
				err      error
			)
			if lowStock {
				products, err = c.app.Inventory.ListLowStock(cmd.Context())
			} else {
				products, err = c.app.Inventory.ListProducts(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}

	cmd.Flags().BoolVar(&lowStock, "low-stock", false, "only products at or below their critical level")
	return cmd
}

func (c *CLI) productScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <barcode>",
		Short: "Look a product up by barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.Inventory.FindByBarcode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), p)
		},
	}
}

func (c *CLI) productImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import --file <catalog.yaml>",
		Short: "Create products from a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Catalog.ImportFile(cmd.Context(), file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s, created: %d, failed: %d\n",
				result.Status, len(result.Successes), len(result.Failures))
			for _, f := range result.Failures {
				fmt.Fprintf(out, "  entry %d (%s): %s\n", f.Line, f.Name, f.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "catalog file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (c *CLI) productExportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export --file <catalog.yaml>",
		Short: "Write all products to a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Catalog.ExportFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d products to %s\n", n, file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "catalog file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid input",
			apperrors.ValidationDetail{Field: "id", Message: "must be a positive integer"})
	}
	return id, nil
}
