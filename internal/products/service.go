package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/repo"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

const entity = "product"

// Service exposes menu management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name      string
	Category  enums.ProductCategory
	ImagePath *string
	Variants  []VariantInput
}

// UpdateProductInput holds optional mutation values for a product. A non-nil
// Variants replaces the variant set, matched by name.
type UpdateProductInput struct {
	Name      *string
	Category  *enums.ProductCategory
	ImagePath *string
	Variants  *[]VariantInput
}

// VariantInput describes one sellable variant and what it consumes per unit.
type VariantInput struct {
	Name        string
	Price       decimal.Decimal
	Ingredients []RecipeInput
	Materials   []RecipeInput
}

// RecipeInput links a variant to an ingredient or material.
type RecipeInput struct {
	ResourceID   uuid.UUID
	QuantityUsed int
}

type resourceChecker interface {
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	ingredients resourceChecker
	materials   resourceChecker
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, ingredients resourceChecker, materials resourceChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if ingredients == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if materials == nil {
		return nil, fmt.Errorf("material repository required")
	}
	return &service{repo: repo, dbClient: dbClient, ingredients: ingredients, materials: materials}, nil
}

// CreateProduct creates the product with its variants and recipes.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	variants, err := s.normalizeVariants(ctx, input.Variants)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:      name,
		Category:  input.Category,
		ImagePath: normalizeImagePath(input.ImagePath),
	}
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateProduct(ctx, product); err != nil {
			return repo.WrapWriteError(err, entity, "insert")
		}
		for _, input := range variants {
			variant := newVariantModel(product.ID, input)
			if err := txRepo.CreateVariant(ctx, variant); err != nil {
				return repo.WrapWriteError(err, "variant", "insert")
			}
		}
		return nil
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "create product")
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies field changes and reconciles variants by name.
// Variants dropped from the list are deleted unless already sold; sold ones
// stay for order history with their recipe cleared.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		product.Category = *input.Category
	}
	if input.ImagePath != nil {
		product.ImagePath = normalizeImagePath(input.ImagePath)
	}

	var variants []VariantInput
	if input.Variants != nil {
		variants, err = s.normalizeVariants(ctx, *input.Variants)
		if err != nil {
			return nil, err
		}
	}

	existing := product.Variants
	product.Variants = nil
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateProduct(ctx, product); err != nil {
			return repo.WrapWriteError(err, entity, "update")
		}
		if input.Variants == nil {
			return nil
		}
		return reconcileVariants(ctx, txRepo, product.ID, existing, variants)
	})
	if err != nil {
		return nil, repo.WrapTxError(err, "update product")
	}
	return s.GetProduct(ctx, product.ID)
}

func reconcileVariants(ctx context.Context, txRepo *Repository, productID uuid.UUID, existing []models.Variant, wanted []VariantInput) error {
	byName := make(map[string]models.Variant, len(existing))
	for _, variant := range existing {
		byName[variant.Name] = variant
	}

	kept := make(map[uuid.UUID]bool, len(wanted))
	for _, input := range wanted {
		current, ok := byName[input.Name]
		if !ok {
			variant := newVariantModel(productID, input)
			if err := txRepo.CreateVariant(ctx, variant); err != nil {
				return repo.WrapWriteError(err, "variant", "insert")
			}
			continue
		}
		kept[current.ID] = true
		if err := txRepo.UpdateVariantPrice(ctx, current.ID, input.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update variant")
		}
		ingredients, materials := recipeRows(input)
		if err := txRepo.ReplaceRecipe(ctx, current.ID, ingredients, materials); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variant recipe")
		}
	}

	for _, variant := range existing {
		if kept[variant.ID] {
			continue
		}
		sold, err := txRepo.CountVariantOrderLines(ctx, variant.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count variant order lines")
		}
		if sold > 0 {
			if err := txRepo.ClearRecipe(ctx, variant.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear variant recipe")
			}
			continue
		}
		if err := txRepo.DeleteVariant(ctx, variant.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variant")
		}
	}
	return nil
}

// DeleteProduct removes a product that has never been sold.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return repo.WrapReadError(err, entity)
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		sold, err := txRepo.CountOrderLines(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count product order lines")
		}
		if sold > 0 {
			return pkgerrors.New(pkgerrors.CodeInUse, "product has been sold and cannot be deleted").
				WithDetails(map[string]any{"orderLines": sold})
		}
		if err := txRepo.DeleteProduct(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		return nil
	})
	return repo.WrapTxError(err, "delete product")
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, repo.WrapReadError(err, entity)
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error) {
	if category != nil && !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	products, err := s.repo.ListProducts(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out, nil
}

// normalizeVariants trims names, rejects duplicates and bad amounts, and
// checks every referenced ingredient and material exists.
func (s *service) normalizeVariants(ctx context.Context, inputs []VariantInput) ([]VariantInput, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
	}

	seen := make(map[string]struct{}, len(inputs))
	var ingredientIDs, materialIDs []uuid.UUID
	out := make([]VariantInput, 0, len(inputs))
	for i, input := range inputs {
		input.Name = strings.TrimSpace(input.Name)
		if input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variants[%d].name is required", i))
		}
		if _, dup := seen[input.Name]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate variant name %q", input.Name))
		}
		seen[input.Name] = struct{}{}
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variants[%d].price must be >= 0", i))
		}
		for _, item := range input.Ingredients {
			if item.QuantityUsed < 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variants[%d] ingredient quantityUsed must be >= 0", i))
			}
			ingredientIDs = append(ingredientIDs, item.ResourceID)
		}
		for _, item := range input.Materials {
			if item.QuantityUsed < 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("variants[%d] material quantityUsed must be >= 0", i))
			}
			materialIDs = append(materialIDs, item.ResourceID)
		}
		out = append(out, input)
	}

	if err := ensureExisting(ctx, s.ingredients, ingredientIDs, "ingredient"); err != nil {
		return nil, err
	}
	if err := ensureExisting(ctx, s.materials, materialIDs, "material"); err != nil {
		return nil, err
	}
	return out, nil
}

func ensureExisting(ctx context.Context, checker resourceChecker, ids []uuid.UUID, kind string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := checker.ExistingIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+kind+"s")
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown "+kind+" id").
			WithDetails(map[string]any{kind + "Ids": missing})
	}
	return nil
}

func newVariantModel(productID uuid.UUID, input VariantInput) *models.Variant {
	ingredients, materials := recipeRows(input)
	return &models.Variant{
		ProductID:   productID,
		Name:        input.Name,
		Price:       input.Price,
		Ingredients: ingredients,
		Materials:   materials,
	}
}

func recipeRows(input VariantInput) ([]models.VariantIngredient, []models.VariantMaterial) {
	ingredients := make([]models.VariantIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		ingredients = append(ingredients, models.VariantIngredient{IngredientID: item.ResourceID, QuantityUsed: item.QuantityUsed})
	}
	materials := make([]models.VariantMaterial, 0, len(input.Materials))
	for _, item := range input.Materials {
		materials = append(materials, models.VariantMaterial{MaterialID: item.ResourceID, QuantityUsed: item.QuantityUsed})
	}
	return ingredients, materials
}

func normalizeImagePath(path *string) *string {
	if path == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*path)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
