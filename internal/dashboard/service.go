package dashboard

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// Summary is the dashboard payload.
type Summary struct {
	Report
	LowStock    []stock.LowStockItem `json:"lowStock"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// Repository reads the order history for reporting.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// LoadSales returns every order reduced to what the fold needs.
func (r *Repository) LoadSales(ctx context.Context) ([]Sale, error) {
	var orders []models.Order
	err := r.DB(ctx).
		Preload("Lines.Product").
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	sales := make([]Sale, 0, len(orders))
	for _, order := range orders {
		sale := Sale{CreatedAt: order.CreatedAt, Total: order.Total, Lines: make([]SaleLine, 0, len(order.Lines))}
		for _, line := range order.Lines {
			name := line.ProductID.String()
			if line.Product != nil {
				name = line.Product.Name
			}
			sale.Lines = append(sale.Lines, SaleLine{ProductName: name, Quantity: line.Quantity})
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

type lowStockLister interface {
	ListLow(ctx context.Context) ([]stock.LowStockItem, error)
}

// Service builds the dashboard.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo  *Repository
	stock lowStockLister
	loc   *time.Location
	now   func() time.Time
}

// NewService wires the dashboard. A nil clock means time.Now.
func NewService(repo *Repository, stockRepo lowStockLister, loc *time.Location, clock func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, stock: stockRepo, loc: loc, now: clock}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	sales, err := s.repo.LoadSales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sales")
	}
	low, err := s.stock.ListLow(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock")
	}
	if low == nil {
		low = []stock.LowStockItem{}
	}
	now := s.now()
	return &Summary{
		Report:      Fold(sales, now, s.loc),
		LowStock:    low,
		GeneratedAt: now.UTC(),
	}, nil
}
