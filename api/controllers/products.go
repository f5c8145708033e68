package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cafepos-backend/api/responses"
	"github.com/angelmondragon/cafepos-backend/api/validators"
	productsvc "github.com/angelmondragon/cafepos-backend/internal/products"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
)

const maxNameLength = 120

// ListProducts returns the catalog, optionally narrowed by ?category=.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var category *enums.ProductCategory
		if raw := validators.QueryString(r, "category"); raw != "" {
			parsed, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
					WithDetails(map[string]any{"field": "category"}))
				return
			}
			category = &parsed
		}

		products, err := svc.ListProducts(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct creates a product with its variants and recipes.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update. A variants array replaces the
// variant set, matched by name.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createProductRequest struct {
	Name      string           `json:"name" validate:"required"`
	Category  string           `json:"category" validate:"required"`
	ImagePath *string          `json:"imagePath,omitempty"`
	Variants  []variantRequest `json:"variants" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	Name      *string           `json:"name,omitempty" validate:"omitempty,min=1"`
	Category  *string           `json:"category,omitempty"`
	ImagePath *string           `json:"imagePath,omitempty"`
	Variants  *[]variantRequest `json:"variants,omitempty" validate:"omitempty,min=1,dive"`
}

type variantRequest struct {
	Name        string              `json:"name" validate:"required"`
	Price       *decimal.Decimal    `json:"price" validate:"required"`
	Ingredients []recipeItemRequest `json:"ingredients" validate:"omitempty,dive"`
	Materials   []recipeItemRequest `json:"materials" validate:"omitempty,dive"`
}

type recipeItemRequest struct {
	ID           uuid.UUID `json:"id"`
	QuantityUsed int       `json:"quantityUsed" validate:"gte=0"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	category, err := parseCategory(r.Category)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}
	return productsvc.CreateProductInput{
		Name:      validators.SanitizeString(r.Name, maxNameLength),
		Category:  category,
		ImagePath: trimmedPointer(r.ImagePath),
		Variants:  toVariantInputs(r.Variants),
	}, nil
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		ImagePath: trimmedPointer(r.ImagePath),
	}
	if r.Name != nil {
		name := validators.SanitizeString(*r.Name, maxNameLength)
		input.Name = &name
	}
	if r.Category != nil {
		category, err := parseCategory(*r.Category)
		if err != nil {
			return productsvc.UpdateProductInput{}, err
		}
		input.Category = &category
	}
	if r.Variants != nil {
		variants := toVariantInputs(*r.Variants)
		input.Variants = &variants
	}
	return input, nil
}

func toVariantInputs(reqs []variantRequest) []productsvc.VariantInput {
	variants := make([]productsvc.VariantInput, 0, len(reqs))
	for _, req := range reqs {
		variant := productsvc.VariantInput{
			Name:        validators.SanitizeString(req.Name, maxNameLength),
			Ingredients: toRecipeInputs(req.Ingredients),
			Materials:   toRecipeInputs(req.Materials),
		}
		if req.Price != nil {
			variant.Price = *req.Price
		}
		variants = append(variants, variant)
	}
	return variants
}

func toRecipeInputs(reqs []recipeItemRequest) []productsvc.RecipeInput {
	items := make([]productsvc.RecipeInput, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, productsvc.RecipeInput{ResourceID: req.ID, QuantityUsed: req.QuantityUsed})
	}
	return items
}

func parseCategory(raw string) (enums.ProductCategory, error) {
	category, err := enums.ParseProductCategory(validators.SanitizeString(raw, 0))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
			WithDetails(map[string]any{"field": "category"})
	}
	return category, nil
}

func trimmedPointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := validators.SanitizeString(*value, 0)
	return &trimmed
}
