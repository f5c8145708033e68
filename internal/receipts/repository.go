package receipts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
)

// Repository persists receipts.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.DB(ctx).Omit("Order").Create(receipt).Error
}

// List returns every receipt newest first with the live order attached.
func (r *Repository) List(ctx context.Context) ([]models.Receipt, error) {
	var rows []models.Receipt
	err := r.DB(ctx).
		Preload("Order").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error) {
	var row models.Receipt
	if err := r.DB(ctx).Preload("Order").First(&row, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
