package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
)

// ErrNoStockRow is returned when a resource has no stock counter.
var ErrNoStockRow = errors.New("stock row not found")

// Repository persists stock counters and their movement ledger.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts the stock row for a new resource and records the opening balance.
func (r *Repository) Create(ctx context.Context, row *models.Stock) (*models.Stock, error) {
	if kind, _ := row.Resource(); kind == "" {
		return nil, fmt.Errorf("stock row needs an owner")
	}
	if err := r.DB(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	if err := r.appendMovement(ctx, row, row.Quantity, enums.StockMovementInitial, nil); err != nil {
		return nil, err
	}
	return row, nil
}

// FindByResource returns the stock row owned by the given resource.
func (r *Repository) FindByResource(ctx context.Context, kind enums.StockResourceType, id uuid.UUID) (*models.Stock, error) {
	column, err := ownerColumn(kind)
	if err != nil {
		return nil, err
	}
	var row models.Stock
	err = r.DB(ctx).Where(column+" = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoStockRow
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SetQuantity overwrites the on-hand quantity (restock) and optionally the
// low-stock threshold. The delta against the previous value is journaled.
func (r *Repository) SetQuantity(ctx context.Context, kind enums.StockResourceType, id uuid.UUID, quantity *int, threshold *int) (*models.Stock, error) {
	row, err := r.FindByResource(ctx, kind, id)
	if errors.Is(err, ErrNoStockRow) {
		row = newStockRow(kind, id)
		if quantity != nil {
			row.Quantity = *quantity
		}
		if threshold != nil {
			row.LowStockThreshold = *threshold
		}
		return r.Create(ctx, row)
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	delta := 0
	if quantity != nil {
		delta = *quantity - row.Quantity
		updates["quantity"] = *quantity
	}
	if threshold != nil {
		updates["low_stock_threshold"] = *threshold
	}
	if len(updates) == 0 {
		return row, nil
	}
	if err := r.DB(ctx).Model(&models.Stock{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	if quantity != nil {
		row.Quantity = *quantity
	}
	if threshold != nil {
		row.LowStockThreshold = *threshold
	}
	if quantity != nil && delta != 0 {
		if err := r.appendMovement(ctx, row, delta, enums.StockMovementRestock, nil); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Decrement subtracts n from the stock row atomically and returns the new quantity.
// The quantity is allowed to go negative.
func (r *Repository) Decrement(ctx context.Context, row *models.Stock, n int, orderID uuid.UUID) (int, error) {
	res := r.DB(ctx).
		Model(&models.Stock{}).
		Where("id = ?", row.ID).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNoStockRow
	}

	var after int
	if err := r.DB(ctx).
		Model(&models.Stock{}).
		Where("id = ?", row.ID).
		Pluck("quantity", &after).Error; err != nil {
		return 0, err
	}
	row.Quantity = after

	if err := r.appendMovement(ctx, row, -n, enums.StockMovementSale, &orderID); err != nil {
		return 0, err
	}
	return after, nil
}

// DeleteByResource removes the stock row and its ledger for a deleted resource.
func (r *Repository) DeleteByResource(ctx context.Context, kind enums.StockResourceType, id uuid.UUID) error {
	column, err := ownerColumn(kind)
	if err != nil {
		return err
	}
	db := r.DB(ctx)
	if err := db.Where("resource_type = ? AND resource_id = ?", kind, id).Delete(&models.StockMovement{}).Error; err != nil {
		return err
	}
	return db.Where(column+" = ?", id).Delete(&models.Stock{}).Error
}

// LowStockItem is a stock row at or below its threshold, named for display.
type LowStockItem struct {
	ResourceType enums.StockResourceType `json:"resourceType"`
	ResourceID   uuid.UUID               `json:"resourceId"`
	Name         string                  `json:"name"`
	Quantity     int                     `json:"quantity"`
	Threshold    int                     `json:"threshold"`
}

const lowStockQuery = `
SELECT 'ingredient' AS resource_type, i.id AS resource_id, i.name AS name, s.quantity AS quantity, s.low_stock_threshold AS threshold
FROM stocks s JOIN ingredients i ON i.id = s.ingredient_id
WHERE s.quantity <= s.low_stock_threshold
UNION ALL
SELECT 'material', m.id, m.name, s.quantity, s.low_stock_threshold
FROM stocks s JOIN materials m ON m.id = s.material_id
WHERE s.quantity <= s.low_stock_threshold
UNION ALL
SELECT 'addon', a.id, a.name, s.quantity, s.low_stock_threshold
FROM stocks s JOIN addons a ON a.id = s.addon_id
WHERE s.quantity <= s.low_stock_threshold
ORDER BY quantity ASC, name ASC
`

// ListLow returns every resource whose quantity is at or below its threshold.
func (r *Repository) ListLow(ctx context.Context) ([]LowStockItem, error) {
	var rows []LowStockItem
	if err := r.DB(ctx).Raw(lowStockQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMovements returns the ledger for one resource, newest first.
func (r *Repository) ListMovements(ctx context.Context, kind enums.StockResourceType, id uuid.UUID) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.DB(ctx).
		Where("resource_type = ? AND resource_id = ?", kind, id).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) appendMovement(ctx context.Context, row *models.Stock, delta int, reason enums.StockMovementReason, orderID *uuid.UUID) error {
	kind, resourceID := row.Resource()
	movement := &models.StockMovement{
		StockID:       row.ID,
		ResourceType:  kind,
		ResourceID:    resourceID,
		Delta:         delta,
		QuantityAfter: row.Quantity,
		Reason:        reason,
		OrderID:       orderID,
	}
	return r.DB(ctx).Create(movement).Error
}

func newStockRow(kind enums.StockResourceType, id uuid.UUID) *models.Stock {
	owner := id
	row := &models.Stock{}
	switch kind {
	case enums.StockResourceIngredient:
		row.IngredientID = &owner
	case enums.StockResourceMaterial:
		row.MaterialID = &owner
	case enums.StockResourceAddon:
		row.AddonID = &owner
	}
	return row
}

// NewRow builds an unsaved stock row owned by the given resource.
func NewRow(kind enums.StockResourceType, id uuid.UUID, quantity, threshold int) *models.Stock {
	row := newStockRow(kind, id)
	row.Quantity = quantity
	row.LowStockThreshold = threshold
	return row
}

func ownerColumn(kind enums.StockResourceType) (string, error) {
	switch kind {
	case enums.StockResourceIngredient:
		return "ingredient_id", nil
	case enums.StockResourceMaterial:
		return "material_id", nil
	case enums.StockResourceAddon:
		return "addon_id", nil
	}
	return "", fmt.Errorf("unknown stock resource type %q", kind)
}
