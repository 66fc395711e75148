package inventory

import (
	"database/sql"

	"go.uber.org/zap"

	"stockkeeper/internal/config"
	"stockkeeper/internal/infrastructure/database"
	productrepo "stockkeeper/internal/product/repository"
	salerepo "stockkeeper/internal/sale/repository"
)

func NewModule(db *sql.DB, dialect database.Dialect, cfg config.InventoryConfig, logger *zap.Logger) *Store {
	productRepo := productrepo.NewSQLRepository(db, dialect)
	saleRepo := salerepo.NewSQLSaleRepository(db, dialect)

	return NewStore(
		db,
		productRepo,
		saleRepo,
		logger,
		WithTxOptions(dialect.TxOptions()),
		WithTxTimeout(cfg.TxTimeout),
		WithDefaultCriticalLevel(cfg.DefaultCriticalLevel),
	)
}
