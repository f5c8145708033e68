package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/metrics"
)

// Applied is one deduction written to the ledger.
type Applied struct {
	Deduction
	QuantityAfter int `json:"quantityAfter"`
}

// Result summarizes a deduction run.
type Result struct {
	Applied []Applied   `json:"applied"`
	Skipped []Deduction `json:"skipped"`
}

// Deductor applies deduction plans against the stock ledger.
type Deductor struct {
	repo    *Repository
	logg    *logger.Logger
	metrics *metrics.POSMetrics
}

// NewDeductor wires a deductor. Logger and metrics may be nil.
func NewDeductor(repo *Repository, logg *logger.Logger, m *metrics.POSMetrics) *Deductor {
	return &Deductor{repo: repo, logg: logg, metrics: m}
}

// Apply decrements every planned resource inside tx. Resources without a stock
// row are skipped and reported; any other failure aborts the run so the
// caller's transaction rolls back.
func (d *Deductor) Apply(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, plan []Deduction) (*Result, error) {
	repo := d.repo.WithTx(tx)
	result := &Result{}

	for _, entry := range plan {
		row, err := repo.FindByResource(ctx, entry.ResourceType, entry.ResourceID)
		if errors.Is(err, ErrNoStockRow) {
			d.skip(ctx, entry)
			result.Skipped = append(result.Skipped, entry)
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock row")
		}

		after, err := repo.Decrement(ctx, row, entry.Quantity, orderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
		}
		d.metrics.StockDecremented(entry.ResourceType.String())
		result.Applied = append(result.Applied, Applied{Deduction: entry, QuantityAfter: after})
	}
	return result, nil
}

func (d *Deductor) skip(ctx context.Context, entry Deduction) {
	d.metrics.StockDeductionSkipped(entry.ResourceType.String())
	if d.logg == nil {
		return
	}
	ctx = d.logg.WithFields(ctx, map[string]any{
		"resource_type": entry.ResourceType.String(),
		"resource_id":   entry.ResourceID.String(),
		"quantity":      entry.Quantity,
	})
	d.logg.Warn(ctx, "stock.deduction_skipped")
}
