package product

import (
	"context"

	"stockkeeper/internal/dto"
)

// CatalogUseCase moves the product catalog in and out of YAML files.
type CatalogUseCase interface {
	ImportFile(ctx context.Context, path string) (*dto.ImportResult, error)
	ExportFile(ctx context.Context, path string) (int, error)
}
