package product

import (
	"go.uber.org/zap"

	"stockkeeper/internal/product/service"
	"stockkeeper/internal/product/usecase"
)

func NewCatalogModule(inv service.Inventory, logger *zap.Logger) CatalogUseCase {
	svc := service.NewCatalogService(inv)
	return usecase.NewCatalogUseCase(svc, logger)
}
