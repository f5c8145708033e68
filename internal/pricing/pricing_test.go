package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestMaterialPricePerPiece(t *testing.T) {
	got, err := MaterialPricePerPiece(true, d("100"), 4, decimal.Zero)
	require.NoError(t, err)
	require.True(t, got.Equal(d("25")), "got %s", got)

	got, err = MaterialPricePerPiece(false, d("100"), 4, d("3.75"))
	require.NoError(t, err)
	require.True(t, got.Equal(d("3.75")), "non-package keeps supplied price, got %s", got)

	got, err = MaterialPricePerPiece(true, d("100"), 3, decimal.Zero)
	require.NoError(t, err)
	require.Equal(t, "33.3333", got.StringFixed(DerivedScale))

	_, err = MaterialPricePerPiece(true, d("100"), 0, decimal.Zero)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestIngredientPricePerUnit(t *testing.T) {
	require.True(t, IngredientPricePerUnit(d("95"), 1000).Equal(d("0.095")))
	require.True(t, IngredientPricePerUnit(d("95"), 0).Equal(d("95")))
	require.True(t, IngredientPricePerUnit(d("10"), 3).Equal(d("3.3333")))
}

func TestLineTotal(t *testing.T) {
	total := LineTotal(d("120"), 2, []AddonCharge{
		{UnitPrice: d("25"), Quantity: 1},
		{UnitPrice: d("15.50"), Quantity: 2},
	})
	require.True(t, total.Equal(d("296")), "got %s", total)

	require.True(t, LineTotal(d("99.99"), 1, nil).Equal(d("99.99")))
	require.True(t, Sum(d("1.10"), d("2.20"), d("3.30")).Equal(d("6.60")))
	require.True(t, Sum().IsZero())
}
