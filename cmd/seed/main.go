package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/internal/addons"
	"github.com/angelmondragon/cafepos-backend/internal/ingredients"
	"github.com/angelmondragon/cafepos-backend/internal/materials"
	products "github.com/angelmondragon/cafepos-backend/internal/products"
	"github.com/angelmondragon/cafepos-backend/internal/stock"
	"github.com/angelmondragon/cafepos-backend/pkg/config"
	"github.com/angelmondragon/cafepos-backend/pkg/db"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/migrate"
)

// Children first so foreign keys hold during the wipe.
var resetTables = []string{
	"receipts",
	"order_line_addons",
	"order_lines",
	"orders",
	"stock_movements",
	"stocks",
	"variant_ingredients",
	"variant_materials",
	"variants",
	"products",
	"addons",
	"materials",
	"ingredients",
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	reset := flag.Bool("reset", false, "delete catalog, stock and order rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "reset": *reset})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "dev migrations", err)
	}

	if *reset {
		err := dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			for _, table := range resetTables {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("reset %s: %w", table, err)
				}
			}
			return nil
		})
		requireResource(ctx, logg, "reset", err)
		logg.Info(ctx, "existing data removed")
	}

	requireResource(ctx, logg, "seed", seed(ctx, dbClient))
	logg.Info(ctx, "seed complete")
}

func seed(ctx context.Context, client *db.Client) error {
	conn := client.DB()
	stockRepo := stock.NewRepository(conn)
	ingredientRepo := ingredients.NewRepository(conn)
	materialRepo := materials.NewRepository(conn)

	ingredientSvc, err := ingredients.NewService(ingredientRepo, stockRepo, client)
	if err != nil {
		return err
	}
	materialSvc, err := materials.NewService(materialRepo, stockRepo, client)
	if err != nil {
		return err
	}
	addonSvc, err := addons.NewService(addons.NewRepository(conn), stockRepo, client)
	if err != nil {
		return err
	}
	productSvc, err := products.NewService(products.NewRepository(conn), client, ingredientRepo, materialRepo)
	if err != nil {
		return err
	}

	beans, err := ingredientSvc.Create(ctx, ingredients.CreateInput{
		Name: "Espresso Beans", Unit: "g",
		PricePerPurchase: decimal.NewFromInt(900), UnitsPerPurchase: 1000,
		Stock: 5000, LowStockThreshold: 500,
	})
	if err != nil {
		return fmt.Errorf("seed ingredient: %w", err)
	}
	milk, err := ingredientSvc.Create(ctx, ingredients.CreateInput{
		Name: "Fresh Milk", Unit: "ml",
		PricePerPurchase: decimal.NewFromInt(95), UnitsPerPurchase: 1000,
		Stock: 10000, LowStockThreshold: 1000,
	})
	if err != nil {
		return fmt.Errorf("seed ingredient: %w", err)
	}
	cup, err := materialSvc.Create(ctx, materials.CreateInput{
		Name: "12oz Cup", IsPackage: true,
		PackagePrice: decimal.NewFromInt(250), UnitsPerPackage: 50,
		Stock: 500, LowStockThreshold: 50,
	})
	if err != nil {
		return fmt.Errorf("seed material: %w", err)
	}
	lid, err := materialSvc.Create(ctx, materials.CreateInput{
		Name: "Cup Lid", PricePerPiece: decimal.RequireFromString("1.50"),
		Stock: 500, LowStockThreshold: 50,
	})
	if err != nil {
		return fmt.Errorf("seed material: %w", err)
	}

	for _, addon := range []addons.CreateInput{
		{Name: "Extra Shot", Price: decimal.NewFromInt(30), Stock: 200, LowStockThreshold: 20},
		{Name: "Vanilla Syrup", Price: decimal.NewFromInt(20), Stock: 100, LowStockThreshold: 10},
	} {
		if _, err := addonSvc.Create(ctx, addon); err != nil {
			return fmt.Errorf("seed addon %s: %w", addon.Name, err)
		}
	}

	packaging := []products.RecipeInput{
		{ResourceID: cup.ID, QuantityUsed: 1},
		{ResourceID: lid.ID, QuantityUsed: 1},
	}
	menu := []products.CreateProductInput{
		{
			Name:     "Americano",
			Category: enums.ProductCategoryCoffee,
			Variants: []products.VariantInput{
				{Name: "Hot", Price: decimal.NewFromInt(100), Ingredients: []products.RecipeInput{{ResourceID: beans.ID, QuantityUsed: 18}}, Materials: packaging},
				{Name: "Iced", Price: decimal.NewFromInt(110), Ingredients: []products.RecipeInput{{ResourceID: beans.ID, QuantityUsed: 18}}, Materials: packaging},
			},
		},
		{
			Name:     "Cafe Latte",
			Category: enums.ProductCategoryCoffee,
			Variants: []products.VariantInput{
				{
					Name:  "Hot",
					Price: decimal.NewFromInt(130),
					Ingredients: []products.RecipeInput{
						{ResourceID: beans.ID, QuantityUsed: 18},
						{ResourceID: milk.ID, QuantityUsed: 200},
					},
					Materials: packaging,
				},
			},
		},
		{
			Name:     "Chocolate",
			Category: enums.ProductCategoryNonCoffee,
			Variants: []products.VariantInput{
				{Name: "Iced", Price: decimal.NewFromInt(120), Ingredients: []products.RecipeInput{{ResourceID: milk.ID, QuantityUsed: 250}}, Materials: packaging},
			},
		},
	}
	for _, item := range menu {
		if _, err := productSvc.CreateProduct(ctx, item); err != nil {
			return fmt.Errorf("seed product %s: %w", item.Name, err)
		}
	}
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
