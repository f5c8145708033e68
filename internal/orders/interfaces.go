package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LoadVariants(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Variant, error)
	NextOrderNumber(ctx context.Context, businessDate string) (int, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, window *Window) ([]models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addonLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Addon, error)
}

type stockDeductor interface {
	Apply(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, plan []stock.Deduction) (*stock.Result, error)
}

type receiptRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Receipt, error)
}
