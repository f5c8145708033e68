package ingredients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/pricing"
	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

const entity = "ingredient"

// Service exposes ingredient management operations.
type Service interface {
	List(ctx context.Context) ([]IngredientDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*IngredientDTO, error)
	Create(ctx context.Context, input CreateInput) (*IngredientDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*IngredientDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInput holds the validated payload to create an ingredient.
type CreateInput struct {
	Name              string
	Unit              string
	PricePerPurchase  decimal.Decimal
	UnitsPerPurchase  int
	Stock             int
	LowStockThreshold int
}

// UpdateInput holds optional mutation values. Stock is an absolute restock.
type UpdateInput struct {
	Name              *string
	Unit              *string
	PricePerPurchase  *decimal.Decimal
	UnitsPerPurchase  *int
	Stock             *int
	LowStockThreshold *int
}

type service struct {
	repo      *Repository
	stockRepo *stock.Repository
	dbClient  *db.Client
}

// NewService constructs an ingredient service instance.
func NewService(repo *Repository, stockRepo *stock.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, stockRepo: stockRepo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]IngredientDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ingredients")
	}
	out := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewIngredientDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*IngredientDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}
	return NewIngredientDTO(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*IngredientDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PricePerPurchase.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricePerPurchase must be >= 0")
	}

	row := &models.Ingredient{
		Name:             name,
		Unit:             strings.TrimSpace(input.Unit),
		PricePerPurchase: input.PricePerPurchase,
		UnitsPerPurchase: input.UnitsPerPurchase,
		PricePerUnit:     pricing.IngredientPricePerUnit(input.PricePerPurchase, input.UnitsPerPurchase),
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "insert")
		}
		stockRow := stock.NewRow(enums.StockResourceIngredient, row.ID, input.Stock, input.LowStockThreshold)
		if _, err := s.stockRepo.WithTx(tx).Create(ctx, stockRow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ingredient stock")
		}
		return nil
	}); err != nil {
		return nil, repo.WrapTxError(err, "create ingredient")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*IngredientDTO, error) {
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
	if input.Unit != nil {
		row.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.PricePerPurchase != nil {
		if input.PricePerPurchase.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricePerPurchase must be >= 0")
		}
		row.PricePerPurchase = *input.PricePerPurchase
	}
	if input.UnitsPerPurchase != nil {
		row.UnitsPerPurchase = *input.UnitsPerPurchase
	}
	row.PricePerUnit = pricing.IngredientPricePerUnit(row.PricePerPurchase, row.UnitsPerPurchase)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "update")
		}
		if input.Stock != nil || input.LowStockThreshold != nil {
			if _, err := s.stockRepo.WithTx(tx).SetQuantity(ctx, enums.StockResourceIngredient, row.ID, input.Stock, input.LowStockThreshold); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restock ingredient")
			}
		}
		return nil
	}); err != nil {
		return nil, repo.WrapTxError(err, "update ingredient")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return repo.WrapReadError(err, entity)
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		used, err := txRepo.CountVariantUsage(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count ingredient usage")
		}
		if used > 0 {
			return pkgerrors.New(pkgerrors.CodeInUse, "ingredient is used by product variants").
				WithDetails(map[string]any{"variants": used})
		}
		if err := s.stockRepo.WithTx(tx).DeleteByResource(ctx, enums.StockResourceIngredient, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete ingredient stock")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete ingredient")
		}
		return nil
	})
	return repo.WrapTxError(err, "delete ingredient")
}
