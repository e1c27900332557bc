package mysql

import (
	"context"
	"testing"

	"gestion-api/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_CreateFindUpdate(t *testing.T) {
	s := requireDB(t)
	cleanTables(t, s)
	ctx := context.Background()

	catID, err := s.CreateCategory(ctx, storage.Category{Name: "Ciment"})
	require.NoError(t, err)

	cat, err := s.FindCategoryByName(ctx, "CIMENT")
	require.NoError(t, err)
	assert.Equal(t, catID, cat.ID)

	id, err := s.CreateProduct(ctx, storage.Product{
		Name:           "Ciment CPJ 45",
		Code:           "CIM-45",
		CategoryID:     &catID,
		Unit:           "sac",
		Quantity:       decimal.NewFromInt(3),
		AlertThreshold: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	p, err := s.FindProductByCode(ctx, "CIM-45")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, storage.StockAlert, p.Status)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, catID, *p.CategoryID)

	p.Quantity = decimal.NewFromInt(50)
	require.NoError(t, s.UpdateProduct(ctx, *p))

	p, err = s.FindProductByName(ctx, "ciment cpj 45")
	require.NoError(t, err)
	assert.Equal(t, storage.StockOK, p.Status)

	_, err = s.FindProductByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateProduct_Missing(t *testing.T) {
	s := requireDB(t)
	cleanTables(t, s)

	err := s.UpdateProduct(context.Background(), storage.Product{ID: 999999, Name: "Ciment", Unit: "sac"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
