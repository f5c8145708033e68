package receipts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// ReceiptDTO is a stored snapshot plus the order's current status and type.
type ReceiptDTO struct {
	ID          uuid.UUID              `json:"id"`
	OrderID     uuid.UUID              `json:"orderId"`
	Snapshot    models.ReceiptSnapshot `json:"snapshot"`
	OrderStatus enums.OrderStatus      `json:"orderStatus,omitempty"`
	OrderType   enums.OrderType        `json:"orderType,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func newReceiptDTO(row *models.Receipt) ReceiptDTO {
	dto := ReceiptDTO{
		ID:        row.ID,
		OrderID:   row.OrderID,
		Snapshot:  row.Snapshot,
		CreatedAt: row.CreatedAt,
	}
	if row.Order != nil {
		dto.OrderStatus = row.Order.Status
		dto.OrderType = row.Order.OrderType
	}
	return dto
}

// Service reads receipts.
type Service interface {
	List(ctx context.Context) ([]ReceiptDTO, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*ReceiptDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ReceiptDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list receipts")
	}
	out := make([]ReceiptDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newReceiptDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*ReceiptDTO, error) {
	row, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, repo.WrapReadError(err, "receipt")
	}
	dto := newReceiptDTO(row)
	return &dto, nil
}

// Writer records receipts as part of the order transaction.
type Writer struct {
	repo *Repository
}

func NewWriter(repo *Repository) *Writer {
	return &Writer{repo: repo}
}

// Record snapshots the fully loaded order and stores it inside tx.
func (w *Writer) Record(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Receipt, error) {
	receipt := &models.Receipt{
		OrderID:   order.ID,
		Snapshot:  BuildSnapshot(order),
		CreatedAt: order.CreatedAt,
	}
	if err := w.repo.WithTx(tx).Create(ctx, receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert receipt")
	}
	return receipt, nil
}
