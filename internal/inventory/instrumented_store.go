package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"stockkeeper/internal/domain"
	apperrors "stockkeeper/internal/errors"
)

// InstrumentedStore decorates an Inventory with a span per operation plus
// operation counters, latency and units-sold metrics.
type InstrumentedStore struct {
	next   Inventory
	tracer trace.Tracer

	operations        metric.Int64Counter
	operationDuration metric.Float64Histogram
	unitsSold         metric.Int64Counter
}

var _ Inventory = (*InstrumentedStore)(nil)

func NewInstrumentedStore(next Inventory, tracer trace.Tracer, meter metric.Meter) (*InstrumentedStore, error) {
	operations, err := meter.Int64Counter("inventory_operations_total",
		metric.WithDescription("Total number of inventory operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("inventory_operation_duration_seconds",
		metric.WithDescription("Duration of inventory operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	unitsSold, err := meter.Int64Counter("inventory_units_sold_total",
		metric.WithDescription("Units removed from stock by recorded sales"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedStore{
		next:              next,
		tracer:            tracer,
		operations:        operations,
		operationDuration: operationDuration,
		unitsSold:         unitsSold,
	}, nil
}

func (s *InstrumentedStore) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	var p *domain.Product
	err := s.observe(ctx, "create_product", func(ctx context.Context, span trace.Span) error {
		var err error
		p, err = s.next.CreateProduct(ctx, draft)
		if err == nil {
			span.SetAttributes(attribute.Int64("product.id", p.ID))
		}
		return err
	}, attribute.String("product.name", draft.Name))
	return p, err
}

func (s *InstrumentedStore) UpdateProduct(ctx context.Context, product domain.Product) error {
	return s.observe(ctx, "update_product", func(ctx context.Context, _ trace.Span) error {
		return s.next.UpdateProduct(ctx, product)
	}, attribute.Int64("product.id", product.ID))
}

func (s *InstrumentedStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.observe(ctx, "delete_product", func(ctx context.Context, _ trace.Span) error {
		return s.next.DeleteProduct(ctx, id)
	}, attribute.Int64("product.id", id))
}

func (s *InstrumentedStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p *domain.Product
	err := s.observe(ctx, "get_product", func(ctx context.Context, _ trace.Span) error {
		var err error
		p, err = s.next.GetProduct(ctx, id)
		return err
	}, attribute.Int64("product.id", id))
	return p, err
}

func (s *InstrumentedStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.observe(ctx, "list_products", func(ctx context.Context, span trace.Span) error {
		var err error
		products, err = s.next.ListProducts(ctx)
		span.SetAttributes(attribute.Int("products.count", len(products)))
		return err
	})
	return products, err
}

func (s *InstrumentedStore) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.observe(ctx, "list_low_stock", func(ctx context.Context, span trace.Span) error {
		var err error
		products, err = s.next.ListLowStock(ctx)
		span.SetAttributes(attribute.Int("products.count", len(products)))
		return err
	})
	return products, err
}

func (s *InstrumentedStore) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var p *domain.Product
	err := s.observe(ctx, "find_by_barcode", func(ctx context.Context, _ trace.Span) error {
		var err error
		p, err = s.next.FindByBarcode(ctx, barcode)
		return err
	}, attribute.String("product.barcode", barcode))
	return p, err
}

func (s *InstrumentedStore) RecordSale(ctx context.Context, productID int64, quantity int, opts ...SaleOption) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.observe(ctx, "record_sale", func(ctx context.Context, span trace.Span) error {
		var err error
		sale, err = s.next.RecordSale(ctx, productID, quantity, opts...)
		if err != nil {
			return err
		}
		span.SetAttributes(
			attribute.Int64("sale.id", sale.ID),
			attribute.String("sale.total_amount", sale.TotalAmount.StringFixed(2)),
		)
		span.AddEvent("stock_decremented")
		s.unitsSold.Add(ctx, int64(quantity), metric.WithAttributes(attribute.Int64("product.id", productID)))
		return nil
	}, attribute.Int64("product.id", productID), attribute.Int("sale.quantity", quantity))
	return sale, err
}

func (s *InstrumentedStore) ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := s.observe(ctx, "list_sales", func(ctx context.Context, span trace.Span) error {
		var err error
		sales, err = s.next.ListSales(ctx, from, to)
		span.SetAttributes(attribute.Int("sales.count", len(sales)))
		return err
	}, attribute.String("range.from", from.Format(time.RFC3339)), attribute.String("range.to", to.Format(time.RFC3339)))
	return sales, err
}

func (s *InstrumentedStore) ListProductSales(ctx context.Context, productID int64) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := s.observe(ctx, "list_product_sales", func(ctx context.Context, span trace.Span) error {
		var err error
		sales, err = s.next.ListProductSales(ctx, productID)
		span.SetAttributes(attribute.Int("sales.count", len(sales)))
		return err
	}, attribute.Int64("product.id", productID))
	return sales, err
}

func (s *InstrumentedStore) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.observe(ctx, "total_revenue", func(ctx context.Context, _ trace.Span) error {
		var err error
		total, err = s.next.TotalRevenue(ctx)
		return err
	})
	return total, err
}

func (s *InstrumentedStore) TotalProfit(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.observe(ctx, "total_profit", func(ctx context.Context, _ trace.Span) error {
		var err error
		total, err = s.next.TotalProfit(ctx)
		return err
	})
	return total, err
}

func (s *InstrumentedStore) observe(
	ctx context.Context,
	operation string,
	fn func(ctx context.Context, span trace.Span) error,
	attrs ...attribute.KeyValue,
) error {
	ctx, span := s.tracer.Start(ctx, "inventory."+operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.String("status", statusOf(err)),
	}

	if err != nil {
		span.RecordError(err)
		// Only storage failures mark the span as failed.
		if !apperrors.IsDomainError(err) {
			span.SetStatus(codes.Error, err.Error())
		}
	}

	s.operations.Add(ctx, 1, metric.WithAttributes(labels...))
	s.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case isKind(err, apperrors.IsNotFoundError):
		return "not_found"
	case isKind(err, apperrors.IsDuplicateBarcodeError):
		return "duplicate_barcode"
	case isKind(err, apperrors.IsInvalidQuantityError):
		return "invalid_quantity"
	case isKind(err, apperrors.IsInsufficientStockError):
		return "insufficient_stock"
	case isKind(err, apperrors.IsValidationError):
		return "invalid"
	default:
		return "failed"
	}
}

func isKind[T any](err error, probe func(error) (T, bool)) bool {
	_, ok := probe(err)
	return ok
}
