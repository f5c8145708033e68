package materials

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

const entity = "material"

// Service manages packaging materials and their stock.
type Service interface {
	List(ctx context.Context) ([]MaterialDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)
	Create(ctx context.Context, input CreateInput) (*MaterialDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MaterialDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInput carries a new material. PricePerPiece is only read for loose
// materials; packaged ones derive it from the package price.
type CreateInput struct {
	Name              string
	IsPackage         bool
	PackagePrice      decimal.Decimal
	UnitsPerPackage   int
	PricePerPiece     decimal.Decimal
	Stock             int
	LowStockThreshold int
}

type UpdateInput struct {
	Name              *string
	IsPackage         *bool
	PackagePrice      *decimal.Decimal
	UnitsPerPackage   *int
	PricePerPiece     *decimal.Decimal
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
		return nil, fmt.Errorf("material repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, stockRepo: stockRepo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]MaterialDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list materials")
	}
	out := make([]MaterialDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewMaterialDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}
	return NewMaterialDTO(row), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*MaterialDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	perPiece, err := pricing.MaterialPricePerPiece(input.IsPackage, input.PackagePrice, input.UnitsPerPackage, input.PricePerPiece)
	if err != nil {
		return nil, err
	}

	row := &models.Material{
		Name:            name,
		IsPackage:       input.IsPackage,
		PackagePrice:    input.PackagePrice,
		UnitsPerPackage: input.UnitsPerPackage,
		PricePerPiece:   perPiece,
	}
	if !row.IsPackage {
		row.PackagePrice = decimal.Zero
		row.UnitsPerPackage = 0
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "insert")
		}
		opening := stock.NewRow(enums.StockResourceMaterial, row.ID, input.Stock, input.LowStockThreshold)
		if _, err := s.stockRepo.WithTx(tx).Create(ctx, opening); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert material stock")
		}
		return nil
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "create material")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MaterialDTO, error) {
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
	if input.IsPackage != nil {
		row.IsPackage = *input.IsPackage
	}
	if input.PackagePrice != nil {
		row.PackagePrice = *input.PackagePrice
	}
	if input.UnitsPerPackage != nil {
		row.UnitsPerPackage = *input.UnitsPerPackage
	}
	supplied := row.PricePerPiece
	if input.PricePerPiece != nil {
		supplied = *input.PricePerPiece
	}
	perPiece, err := pricing.MaterialPricePerPiece(row.IsPackage, row.PackagePrice, row.UnitsPerPackage, supplied)
	if err != nil {
		return nil, err
	}
	row.PricePerPiece = perPiece
	if !row.IsPackage {
		row.PackagePrice = decimal.Zero
		row.UnitsPerPackage = 0
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, row); err != nil {
			return repo.WrapWriteError(err, entity, "update")
		}
		if input.Stock == nil && input.LowStockThreshold == nil {
			return nil
		}
		if _, err := s.stockRepo.WithTx(tx).SetQuantity(ctx, enums.StockResourceMaterial, row.ID, input.Stock, input.LowStockThreshold); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restock material")
		}
		return nil
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "update material")
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
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count material usage")
		}
		if used > 0 {
			return pkgerrors.New(pkgerrors.CodeInUse, "material is used by product variants").
				WithDetails(map[string]any{"variants": used})
		}
		if err := s.stockRepo.WithTx(tx).DeleteByResource(ctx, enums.StockResourceMaterial, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete material stock")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete material")
		}
		return nil
	})
	return repo.WrapTxError(err, "delete material")
}
