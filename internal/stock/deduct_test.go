package stock

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/cafepos-backend/pkg/db/models"
	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	"github.com/angelmondragon/cafepos-backend/pkg/logger"
	"github.com/angelmondragon/cafepos-backend/pkg/metrics"
)

func seedIngredient(t *testing.T, db *gorm.DB, name string, qty int) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, Unit: "g", PricePerPurchase: decimal.NewFromInt(100), UnitsPerPurchase: 100, PricePerUnit: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(ing).Error)
	_, err := NewRepository(db).Create(context.Background(), NewRow(enums.StockResourceIngredient, ing.ID, qty, 5))
	require.NoError(t, err)
	return ing
}

func TestDeductorAppliesScaledQuantity(t *testing.T) {
	db := dbtest.Open(t, "deduct")
	ctx := context.Background()
	beans := seedIngredient(t, db, "Beans", 20)
	orderID := uuid.New()

	plan := BuildPlan([]models.OrderLine{{
		Quantity: 3,
		Variant:  &models.Variant{Ingredients: []models.VariantIngredient{{IngredientID: beans.ID, QuantityUsed: 2}}},
	}})

	deductor := NewDeductor(NewRepository(db), nil, nil)
	var result *Result
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = deductor.Apply(ctx, tx, orderID, plan)
		return err
	}))

	require.Len(t, result.Applied, 1)
	require.Equal(t, 14, result.Applied[0].QuantityAfter)

	row, err := NewRepository(db).FindByResource(ctx, enums.StockResourceIngredient, beans.ID)
	require.NoError(t, err)
	require.Equal(t, 14, row.Quantity)

	movements, err := NewRepository(db).ListMovements(ctx, enums.StockResourceIngredient, beans.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, enums.StockMovementInitial, movements[1].Reason)
	sale := movements[0]
	require.Equal(t, enums.StockMovementSale, sale.Reason)
	require.Equal(t, -6, sale.Delta)
	require.Equal(t, 14, sale.QuantityAfter)
	require.NotNil(t, sale.OrderID)
	require.Equal(t, orderID, *sale.OrderID)
}

func TestDeductorAllowsNegativeStock(t *testing.T) {
	db := dbtest.Open(t, "deduct_negative")
	ctx := context.Background()
	syrup := seedIngredient(t, db, "Syrup", 1)

	plan := []Deduction{{ResourceType: enums.StockResourceIngredient, ResourceID: syrup.ID, Quantity: 4}}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := NewDeductor(NewRepository(db), nil, nil).Apply(ctx, tx, uuid.New(), plan)
		return err
	}))

	row, err := NewRepository(db).FindByResource(ctx, enums.StockResourceIngredient, syrup.ID)
	require.NoError(t, err)
	require.Equal(t, -3, row.Quantity)
}

func TestDeductorSkipsMissingStockRow(t *testing.T) {
	db := dbtest.Open(t, "deduct_skip")
	ctx := context.Background()
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	reg := prometheus.NewRegistry()
	m := metrics.NewPOSMetrics(reg)

	ghost := uuid.New()
	plan := []Deduction{{ResourceType: enums.StockResourceAddon, ResourceID: ghost, Quantity: 1}}

	var result *Result
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = NewDeductor(NewRepository(db), logg, m).Apply(ctx, tx, uuid.New(), plan)
		return err
	}))
	require.Empty(t, result.Applied)
	require.Equal(t, plan, result.Skipped)
	require.Contains(t, buf.String(), "stock.deduction_skipped")
	require.Contains(t, buf.String(), ghost.String())

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "cafepos_stock_deduction_skipped_total" {
			found = mf.GetMetric()[0].GetCounter().GetValue() == 1
		}
	}
	require.True(t, found, "expected skipped counter to be 1")
}

func TestSetQuantityJournalsRestock(t *testing.T) {
	db := dbtest.Open(t, "stock_restock")
	ctx := context.Background()
	milk := seedIngredient(t, db, "Milk", 10)
	repo := NewRepository(db)

	qty, threshold := 25, 8
	row, err := repo.SetQuantity(ctx, enums.StockResourceIngredient, milk.ID, &qty, &threshold)
	require.NoError(t, err)
	require.Equal(t, 25, row.Quantity)
	require.Equal(t, 8, row.LowStockThreshold)

	movements, err := repo.ListMovements(ctx, enums.StockResourceIngredient, milk.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, enums.StockMovementRestock, movements[0].Reason)
	require.Equal(t, 15, movements[0].Delta)
	require.Equal(t, enums.StockMovementInitial, movements[1].Reason)

	same := 25
	_, err = repo.SetQuantity(ctx, enums.StockResourceIngredient, milk.ID, &same, nil)
	require.NoError(t, err)
	movements, err = repo.ListMovements(ctx, enums.StockResourceIngredient, milk.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2, "unchanged quantity writes no movement")
}

func TestListMovementsNewestFirst(t *testing.T) {
	db := dbtest.Open(t, "stock_movement_order")
	ctx := context.Background()
	milk := seedIngredient(t, db, "Milk", 10)
	repo := NewRepository(db)

	for _, qty := range []int{30, 12} {
		time.Sleep(5 * time.Millisecond)
		next := qty
		_, err := repo.SetQuantity(ctx, enums.StockResourceIngredient, milk.ID, &next, nil)
		require.NoError(t, err)
	}

	movements, err := repo.ListMovements(ctx, enums.StockResourceIngredient, milk.ID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	require.Equal(t, enums.StockMovementRestock, movements[0].Reason)
	require.Equal(t, -18, movements[0].Delta)
	require.Equal(t, 12, movements[0].QuantityAfter)
	require.Equal(t, 20, movements[1].Delta)
	require.Equal(t, enums.StockMovementInitial, movements[2].Reason)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	db := dbtest.Open(t, "stock_tx")
	ctx := context.Background()
	milk := seedIngredient(t, db, "Milk", 10)
	repo := NewRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		qty := 40
		if _, err := repo.WithTx(tx).SetQuantity(ctx, enums.StockResourceIngredient, milk.ID, &qty, nil); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	row, err := repo.FindByResource(ctx, enums.StockResourceIngredient, milk.ID)
	require.NoError(t, err)
	require.Equal(t, 10, row.Quantity)
	movements, err := repo.ListMovements(ctx, enums.StockResourceIngredient, milk.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
}

func TestListLow(t *testing.T) {
	db := dbtest.Open(t, "stock_low")
	ctx := context.Background()
	seedIngredient(t, db, "Cocoa", 2)
	seedIngredient(t, db, "Sugar", 50)

	items, err := NewRepository(db).ListLow(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Cocoa", items[0].Name)
	require.Equal(t, enums.StockResourceIngredient, items[0].ResourceType)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, 5, items[0].Threshold)
}
