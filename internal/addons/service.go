package addons

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

const entity = "addon"

// Service manages add-ons sold on top of order lines.
type Service interface {
	List(ctx context.Context) ([]AddonDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AddonDTO, error)
	Create(ctx context.Context, input CreateInput) (*AddonDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*AddonDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateInput struct {
	Name              string
	Price             decimal.Decimal
	Stock             int
	LowStockThreshold int
}

type UpdateInput struct {
	Name              *string
	Price             *decimal.Decimal
	Stock             *int
	LowStockThreshold *int
}

type service struct {
	repo      *Repository
	stockRepo *stock.Repository
	dbClient  *db.Client
}

func NewService(repo *Repository, stockRepo *stock.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addon repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, stockRepo: stockRepo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]AddonDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addons")
	}
	out := make([]AddonDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewAddonDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AddonDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}
	return NewAddonDTO(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*AddonDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
	}

	row := &models.Addon{Name: name, Price: input.Price}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "insert")
		}
		opening := stock.NewRow(enums.StockResourceAddon, row.ID, input.Stock, input.LowStockThreshold)
		if _, err := s.stockRepo.WithTx(tx).Create(ctx, opening); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert addon stock")
		}
		return nil
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "create addon")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*AddonDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
		}
		row.Price = *input.Price
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "update")
		}
		if input.Stock == nil && input.LowStockThreshold == nil {
			return nil
		}
		if _, err := s.stockRepo.WithTx(tx).SetQuantity(ctx, enums.StockResourceAddon, row.ID, input.Stock, input.LowStockThreshold); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restock addon")
		}
		return nil
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "update addon")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return repo.WrapReadError(err, entity)
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		sold, err := txRepo.CountOrderUsage(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count addon usage")
		}
		if sold > 0 {
			return pkgerrors.New(pkgerrors.CodeInUse, "addon has been sold on orders").
				WithDetails(map[string]any{"orderLines": sold})
		}
		if err := s.stockRepo.WithTx(tx).DeleteByResource(ctx, enums.StockResourceAddon, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete addon stock")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete addon")
		}
		return nil
	})
	return repo.WrapTxError(err, "delete addon")
}
