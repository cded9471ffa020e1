package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artmorais77/backend-orise/internal/dto"
)

func newProductService(mem *memStore) ProductService {
	return NewProductService(&fakeProductRepo{mem: mem}, &fakeSequenceRepo{mem: mem})
}

func mustID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestCreateProduct(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)
	sc := newScope()

	resp, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromFloat(9.50),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Code)
	assert.True(t, resp.IsActive)

	second, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Bolo", Category: "Doces", Price: decimal.NewFromInt(18),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Code)
}

func TestCreateProductDuplicateName(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)
	sc := newScope()

	_, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	// Case-insensitive inside the store
	_, err = svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "CAFÉ", Category: "Bebidas", Price: decimal.NewFromInt(10),
	})
	assert.ErrorContains(t, err, "Já existe um produto com esse nome")
}

func TestCreateProductSameNameOtherStore(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)

	_, err := svc.Create(context.Background(), newScope(), dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	// Different store, same name — allowed
	resp, err := svc.Create(context.Background(), newScope(), dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(11),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Code)
}

func TestUpdateProduct(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)
	sc := newScope()

	created, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	newPrice := decimal.NewFromFloat(10.50)
	updated, err := svc.Update(context.Background(), sc, mustID(t, created.ID), dto.UpdateProductRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.5", updated.Price.String())
	assert.Equal(t, "Café", updated.Name)
}

func TestUpdateProductNonPositivePrice(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)
	sc := newScope()

	created, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	zero := decimal.Zero
	_, err = svc.Update(context.Background(), sc, mustID(t, created.ID), dto.UpdateProductRequest{
		Price: &zero,
	})
	assert.ErrorContains(t, err, "O preço deve ser maior que 0")
}

func TestDeactivateProduct(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)
	sc := newScope()

	created, err := svc.Create(context.Background(), sc, dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), sc, mustID(t, created.ID)))

	got, err := svc.Get(context.Background(), sc, mustID(t, created.ID))
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestGetProductCrossStoreHidden(t *testing.T) {
	mem := newMemStore()
	svc := newProductService(mem)

	created, err := svc.Create(context.Background(), newScope(), dto.CreateProductRequest{
		Name: "Café", Category: "Bebidas", Price: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), newScope(), mustID(t, created.ID))
	assert.ErrorContains(t, err, "Produto inexistente")
}
