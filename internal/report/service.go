package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stockkeeper/internal/domain"
)

// Source is the part of the inventory the reports read from.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListSales(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
}

type SalesReport struct {
	From    time.Time
	To      time.Time
	Sales   []domain.Sale
	Summary SalesSummary
	Daily   []DailyTotal
}

type StockReport struct {
	GeneratedAt time.Time
	Products    []domain.Product
	Summary     StockSummary
}

// Service builds reports whose summaries are computed from the same single
// read as their rows.
type Service struct {
	source Source
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewService(source Source, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		source: source,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	sales, err := s.source.ListSales(ctx, from, to)
	if err != nil {
		s.logger.Error("loading sales for report", zap.Time("from", from), zap.Time("to", to), zap.Error(err))
		return nil, err
	}

	report := &SalesReport{
		From:    from,
		To:      to,
		Sales:   sales,
		Summary: SummarizeSales(sales),
		Daily:   GroupDailySales(sales, s.loc),
	}

	s.logger.Debug("sales report built", zap.Int("sales", report.Summary.SaleCount), zap.Int("days", len(report.Daily)))
	return report, nil
}

func (s *Service) StockReport(ctx context.Context) (*StockReport, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		s.logger.Error("loading products for report", zap.Error(err))
		return nil, err
	}

	report := &StockReport{
		GeneratedAt: s.now().In(s.loc),
		Products:    products,
		Summary:     SummarizeProducts(products),
	}

	s.logger.Debug("stock report built", zap.Int("products", len(products)), zap.Int("lowStock", report.Summary.LowStockCount))
	return report, nil
}

// ChartData groups an already loaded sale sequence by day.
func (s *Service) ChartData(sales []domain.Sale) []DailyTotal {
	return GroupDailySales(sales, s.loc)
}

func (s *Service) DailyChart(ctx context.Context, from, to time.Time) ([]DailyTotal, error) {
	sales, err := s.source.ListSales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.ChartData(sales), nil
}

func (s *Service) Distribution(ctx context.Context) ([]ValueShare, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return ProductDistribution(products), nil
}
