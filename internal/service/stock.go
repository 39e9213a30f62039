// Package service holds the stateful business operations: the stock ledger,
// the order lifecycle, settings defaults, invoices, stores, authentication
// and payments.
package service

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RestoreReport lists the outcome of restoring stock for each product of an
// order.
type RestoreReport struct {
	Restored []uint `json:"restored"`
	Skipped  []uint `json:"skipped"`
	Failed   []uint `json:"failed"`
}

// Partial reports whether at least one item could not be restored.
func (r RestoreReport) Partial() bool {
	return len(r.Failed) > 0
}

// StockLedger moves product quantities in and out of the catalog.
type StockLedger struct {
	catalog *repository.CatalogRepository
	log     *zap.Logger
}

// NewStockLedger creates a stock ledger
func NewStockLedger(catalog *repository.CatalogRepository, log *zap.Logger) *StockLedger {
	return &StockLedger{catalog: catalog, log: log}
}

// WithTx returns a ledger bound to tx
func (l *StockLedger) WithTx(tx *gorm.DB) *StockLedger {
	return &StockLedger{catalog: l.catalog.WithTx(tx), log: l.log}
}

// Reserve takes qty units of a product. Untracked products are left alone.
func (l *StockLedger) Reserve(ctx context.Context, scope tenant.Scope, productID uint, qty int) error {
	_, err := l.catalog.DecrementStock(ctx, scope, productID, qty)
	return err
}

// Restore returns qty units of a product. It reports false when the product
// does not track quantity.
func (l *StockLedger) Restore(ctx context.Context, scope tenant.Scope, productID uint, qty int) (bool, error) {
	return l.catalog.IncrementStock(ctx, scope, productID, qty)
}

// RestoreItems returns the stock of every item. A failing item is logged and
// the remaining items are still restored.
func (l *StockLedger) RestoreItems(ctx context.Context, scope tenant.Scope, items []model.OrderItem) RestoreReport {
	report := RestoreReport{}
	for _, item := range items {
		restored, err := l.Restore(ctx, scope, item.ProductID, item.Quantity)
		switch {
		case err != nil:
			report.Failed = append(report.Failed, item.ProductID)
			prometheus.RecordStockRestore("failed")
			l.log.Warn("Failed to restore stock",
				zap.Uint("store_id", scope.StoreID),
				zap.Uint("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		case restored:
			report.Restored = append(report.Restored, item.ProductID)
			prometheus.RecordStockRestore("restored")
		default:
			report.Skipped = append(report.Skipped, item.ProductID)
			prometheus.RecordStockRestore("skipped")
		}
	}
	return report
}
