package service

import (
	"context"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/dto"
	apperrors "stockkeeper/internal/errors"
)

type Inventory interface {
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type CatalogService struct {
	inv Inventory
}

func NewCatalogService(inv Inventory) *CatalogService {
	return &CatalogService{inv: inv}
}

// Import creates one product per entry. A failing entry does not stop the
// ones after it; storage failures abort the whole import.
func (s *CatalogService) Import(ctx context.Context, entries []dto.CatalogEntry) (*dto.ImportResult, error) {
	result := &dto.ImportResult{
		Successes: []dto.ImportSuccess{},
		Failures:  []dto.ImportFailure{},
	}

	for i, entry := range entries {
		line := i + 1

		draft, err := entry.ToDraft()
		if err == nil {
			var p *domain.Product
			p, err = s.inv.CreateProduct(ctx, draft)
			if err == nil {
				result.Successes = append(result.Successes, dto.ImportSuccess{Line: line, ProductID: p.ID, Name: p.Name})
				continue
			}
		}

		reason, ok := reasonFor(err)
		if !ok {
			return nil, err
		}
		result.Failures = append(result.Failures, dto.ImportFailure{
			Line:    line,
			Name:    entry.Name,
			Reason:  reason,
			Message: err.Error(),
		})
	}

	result.Status = dto.StatusOf(len(result.Successes), len(result.Failures))
	return result, nil
}

func (s *CatalogService) Export(ctx context.Context) (dto.Catalog, error) {
	products, err := s.inv.ListProducts(ctx)
	if err != nil {
		return dto.Catalog{}, err
	}

	entries := make([]dto.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, dto.NewCatalogEntry(p))
	}
	return dto.Catalog{Products: entries}, nil
}

func reasonFor(err error) (dto.FailureReason, bool) {
	if _, ok := apperrors.IsDuplicateBarcodeError(err); ok {
		return dto.ReasonDuplicateBarcode, true
	}
	if _, ok := apperrors.IsValidationError(err); ok {
		return dto.ReasonInvalid, true
	}
	return dto.ReasonStorage, false
}
