package usecase

import (
	"context"

	"go.uber.org/zap"

	"stockkeeper/internal/commons"
	"stockkeeper/internal/dto"
)

type Service interface {
	Import(ctx context.Context, entries []dto.CatalogEntry) (*dto.ImportResult, error)
	Export(ctx context.Context) (dto.Catalog, error)
}

type CatalogUseCase struct {
	service Service
	logger  *zap.Logger
}

func NewCatalogUseCase(service Service, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{service: service, logger: logger}
}

func (uc *CatalogUseCase) ImportFile(ctx context.Context, path string) (*dto.ImportResult, error) {
	catalog, err := commons.ReadYAML[dto.Catalog](path)
	if err != nil {
		return nil, err
	}

	result, err := uc.service.Import(ctx, catalog.Products)
	if err != nil {
		uc.logger.Error("catalog import aborted", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("catalog imported",
		zap.String("path", path),
		zap.String("status", string(result.Status)),
		zap.Int("created", len(result.Successes)),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func (uc *CatalogUseCase) ExportFile(ctx context.Context, path string) (int, error) {
	catalog, err := uc.service.Export(ctx)
	if err != nil {
		return 0, err
	}

	if err := commons.WriteYAML(path, catalog); err != nil {
		return 0, err
	}

	uc.logger.Info("catalog exported", zap.String("path", path), zap.Int("products", len(catalog.Products)))
	return len(catalog.Products), nil
}
