package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockkeeper/internal/config"
	apperrors "stockkeeper/internal/errors"
	"stockkeeper/internal/infrastructure/telemetry"
	"stockkeeper/internal/testutil"
)

type harness struct {
	cli       *CLI
	reportDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, dialect := testutil.SetupTestDB(t)
	reportDir := t.TempDir()
	cfg := &config.Config{
		Inventory: config.InventoryConfig{
			DefaultCriticalLevel: 10,
			TxTimeout:            5 * time.Second,
			Location:             time.UTC,
		},
		Report: config.ReportConfig{Directory: reportDir},
	}

	app, err := NewApp(db, dialect, cfg, zap.NewNop(), telemetry.NewNoop())
	require.NoError(t, err)

	return &harness{cli: NewWithApp(app), reportDir: reportDir}
}

func (h *harness) run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	err := h.cli.Execute(context.Background(), args, strings.NewReader(input), &out, &errOut)
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, _, err := h.run(t, "", args...)
	require.NoError(t, err, "running %v", args)
	return out
}

func (h *harness) addWidget(t *testing.T) {
	t.Helper()

	h.mustRun(t, "product", "add",
		"--name", "Widget",
		"--buy-price", "5",
		"--sell-price", "10",
		"--quantity", "20",
		"--critical-level", "5",
		"--barcode", "123",
	)
}

func TestCLI_ProductLifecycle(t *testing.T) {
	h := newHarness(t)

	h.addWidget(t)

	out := h.mustRun(t, "product", "get", "1")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "100.00", "stock value at buy price")
	assert.Contains(t, out, "Normal")

	out = h.mustRun(t, "product", "scan", "123")
	assert.Contains(t, out, "Widget")

	h.mustRun(t, "product", "update", "1", "--quantity", "3", "--supplier", "ACME")
	out = h.mustRun(t, "product", "list", "--low-stock")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "Critical")

	out = h.mustRun(t, "product", "delete", "1", "--force")
	assert.Contains(t, out, "deleted product 1")

	_, _, err := h.run(t, "", "product", "get", "1")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "got %v", err)
}

func TestCLI_ProductAdd_DefaultCriticalLevel(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "product", "add", "--name", "Bolt", "--quantity", "50")

	assert.Regexp(t, `Critical level:\s+10`, out)
}

func TestCLI_ProductAdd_Errors(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)

	_, _, err := h.run(t, "", "product", "add", "--name", "Other", "--barcode", "123")
	_, ok := apperrors.IsDuplicateBarcodeError(err)
	assert.True(t, ok, "got %v", err)

	_, _, err = h.run(t, "", "product", "add", "--name", "Bad", "--buy-price", "abc")
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "got %v", err)

	_, _, err = h.run(t, "", "product", "get", "zero")
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "got %v", err)
}

func TestCLI_ProductDelete_Confirmation(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)

	out, _, err := h.run(t, "n\n", "product", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	h.mustRun(t, "product", "get", "1")

	out, _, err = h.run(t, "y\n", "product", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted product 1")
}

func TestCLI_SaleFlow(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)

	out := h.mustRun(t, "sale", "record", "1", "16", "--date", "2024-01-15 10:00:00")
	assert.Equal(t, "sale 1: 16 x Widget @ 10.00 = 160.00 (profit 80.00)\n", out)

	out = h.mustRun(t, "product", "get", "1")
	assert.Regexp(t, `Quantity:\s+4`, out)

	_, _, err := h.run(t, "", "sale", "record", "1", "5")
	insufficient, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, 4, insufficient.Available)

	_, _, err = h.run(t, "", "sale", "record", "1", "0")
	_, ok = apperrors.IsInvalidQuantityError(err)
	assert.True(t, ok, "got %v", err)

	out = h.mustRun(t, "sale", "list", "--from", "2024-01-15", "--to", "2024-01-15")
	assert.Contains(t, out, "2024-01-15 10:00:00")
	assert.Contains(t, out, "160.00")

	out = h.mustRun(t, "sale", "list", "--from", "2024-01-16", "--to", "2024-01-20")
	assert.NotContains(t, out, "Widget")

	out = h.mustRun(t, "sale", "list", "--product", "1")
	assert.Contains(t, out, "Widget")

	out = h.mustRun(t, "report", "totals")
	assert.Regexp(t, `Total revenue:\s+160.00`, out)
	assert.Regexp(t, `Total profit:\s+80.00`, out)
}

func TestCLI_SaleRecord_PriceOverride(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)

	out := h.mustRun(t, "sale", "record", "1", "2", "--price", "4")

	assert.Contains(t, out, "= 8.00 (profit -2.00)")
}

func TestCLI_Reports(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)
	h.mustRun(t, "sale", "record", "1", "3", "--date", "2024-01-15 10:00:00")
	h.mustRun(t, "sale", "record", "1", "2", "--date", "2024-01-16 09:00:00")

	out := h.mustRun(t, "report", "sales", "--from", "2024-01-01", "--to", "2024-01-31")
	assert.Contains(t, out, "wrote 2 sales")
	assert.FileExists(t, filepath.Join(h.reportDir, salesReportFile))

	pdfPath := filepath.Join(h.reportDir, "nested", "sales.pdf")
	h.mustRun(t, "report", "sales", "--from", "2024-01-01", "--to", "2024-01-31", "--file", pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	out = h.mustRun(t, "report", "stock")
	assert.Contains(t, out, "stock value 75.00")
	assert.FileExists(t, filepath.Join(h.reportDir, stockReportFile))

	h.mustRun(t, "report", "stock", "--file", filepath.Join(h.reportDir, "stock.pdf"))
	assert.FileExists(t, filepath.Join(h.reportDir, "stock.pdf"))

	out = h.mustRun(t, "report", "chart", "--from", "2024-01-01", "--to", "2024-01-31")
	assert.Regexp(t, `2024-01-15\s+30.00`, out)
	assert.Regexp(t, `2024-01-16\s+20.00`, out)
	assert.FileExists(t, filepath.Join(h.reportDir, dailyChartFile))

	h.mustRun(t, "report", "distribution")
	assert.FileExists(t, filepath.Join(h.reportDir, distributionFile))

	_, _, err = h.run(t, "", "report", "distribution", "--file", filepath.Join(h.reportDir, "pie.pdf"))
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "got %v", err)
}

func TestCLI_CatalogImportExport(t *testing.T) {
	h := newHarness(t)
	h.addWidget(t)

	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(`products:
  - name: Gadget
    buyPrice: "2"
    sellPrice: "4"
    quantity: 8
  - name: Clone
    buyPrice: "1"
    sellPrice: "2"
    barcode: "123"
`), 0o644))

	out := h.mustRun(t, "product", "import", "--file", catalog)
	assert.Contains(t, out, "status: PARTIAL, created: 1, failed: 1")
	assert.Contains(t, out, "entry 2 (Clone)")

	exported := filepath.Join(t.TempDir(), "out.yaml")
	out = h.mustRun(t, "product", "export", "--file", exported)
	assert.Contains(t, out, "exported 2 products")

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Gadget")

	_, _, err = h.run(t, "", "product", "import")
	assert.Error(t, err, "--file is required")
}

func TestCLI_Shell(t *testing.T) {
	h := newHarness(t)

	input := strings.Join([]string{
		`product add --name "Blue Widget" --quantity 3 --sell-price 2`,
		``,
		`product list`,
		`sale record 1 9`,
		`product delete 1`,
		`y`,
		`product list`,
		`exit`,
		`product list`,
	}, "\n") + "\n"

	out, errOut, err := h.run(t, input, "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "Blue Widget")
	assert.Contains(t, out, "deleted product 1")
	assert.Equal(t, 1, strings.Count(errOut, "error:"))
	assert.Contains(t, errOut, "insufficient stock")
	assert.Equal(t, 7, strings.Count(out, shellPrompt))
}

func TestCLI_Shell_EOF(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "product list", "shell")

	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
}

func TestCLI_BootstrapsOnce(t *testing.T) {
	db, dialect := testutil.SetupTestDB(t)
	calls := 0
	c := New(func(ctx context.Context, cfg *config.Config) (*App, error) {
		calls++
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		return NewApp(db, dialect, cfg, zap.NewNop(), telemetry.NewNoop())
	})

	var out, errOut bytes.Buffer
	input := strings.NewReader("product list\nreport totals\n")
	require.NoError(t, c.Execute(context.Background(), []string{"shell"}, input, &out, &errOut))

	assert.Equal(t, 1, calls)
	assert.Empty(t, errOut.String())
	assert.NoError(t, c.Close())
}

func TestBootstrap_SQLite(t *testing.T) {
	v := config.NewViper()
	v.Set("database.dsn", filepath.Join(t.TempDir(), "app.db"))
	v.Set("log.level", "error")
	v.Set("report.directory", t.TempDir())
	cfg, err := config.Load(v, "")
	require.NoError(t, err)

	app, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)

	products, err := app.Inventory.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.NoError(t, app.Close())
}

func TestSplitFields(t *testing.T) {
	fields, err := splitFields(`product add --name "Blue  Widget" --supplier ""  --quantity 3`)
	require.NoError(t, err)
	assert.Equal(t, []string{"product", "add", "--name", "Blue  Widget", "--supplier", "", "--quantity", "3"}, fields)

	_, err = splitFields(`product add --name "open`)
	assert.Error(t, err)
}
