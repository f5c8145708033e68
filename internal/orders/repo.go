package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

// LoadVariants returns the requested variants keyed by id with their product.
func (r *repository) LoadVariants(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Variant, error) {
	out := make(map[uuid.UUID]models.Variant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Variant
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// NextOrderNumber returns the next display number for the business day.
func (r *repository) NextOrderNumber(ctx context.Context, businessDate string) (int, error) {
	var current int
	err := r.DB(ctx).
		Model(&models.Order{}).
		Select("COALESCE(MAX(order_number), 0)").
		Where("business_date = ?", businessDate).
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// CreateOrder inserts the order with its lines and line add-ons.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.position ASC") }).
		Preload("Lines.Product").
		Preload("Lines.Variant.Ingredients").
		Preload("Lines.Variant.Materials").
		Preload("Lines.Addons", func(db *gorm.DB) *gorm.DB { return db.Order("order_line_addons.position ASC") }).
		Preload("Lines.Addons.Addon")
}

// FindOrderDetail loads the full order graph including each variant's recipe.
func (r *repository) FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withLines(r.DB(ctx)).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first, optionally limited to a window.
func (r *repository) ListOrders(ctx context.Context, window *Window) ([]models.Order, error) {
	query := withLines(r.DB(ctx)).Order("orders.created_at DESC").Order("orders.order_number DESC")
	if window != nil {
		query = query.Where("orders.created_at >= ? AND orders.created_at < ?", window.From.UTC(), window.To.UTC())
	}
	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
