package service

import (
	"context"
	"errors"
	"testing"

	"dijital-vitrin/models"
	"dijital-vitrin/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(t *testing.T) (*ProductService, *fakeProducts, *memoryListingCache) {
	t.Helper()
	stores, categories, products := apparelFixture()
	listings := newMemoryListingCache()
	cache := schema.NewCache()
	storefront := NewStorefrontService(stores, categories, products, listings, cache)
	svc := NewProductService(products, NewCategoryService(categories, cache), storefront, NewMediaStore(t.TempDir()))
	return svc, products, listings
}

func TestCreateProduct(t *testing.T) {
	svc, products, listings := newProductService(t)

	p, err := svc.Create(context.Background(), "s1", models.CreateProductRequest{
		CategoryID: strPtr("c1"),
		Name:       "  Elbise ",
		Price:      250,
		Attributes: models.Attributes{"size": models.Multi("M", "L")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Elbise", p.Name)
	assert.Len(t, products.products, 5)
	assert.Contains(t, listings.invalidated, "s1")
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.Create(context.Background(), "s1", models.CreateProductRequest{
		CategoryID: strPtr("c1"),
		Price:      -1,
		Attributes: models.Attributes{"size": models.Single("XS")},
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Errors, "name")
	assert.Contains(t, ve.Errors, "price")
	assert.Equal(t, []string{"Beden must be one of: S, M, L"}, ve.Errors["attributes.size"])

	_, err = svc.Create(context.Background(), "s1", models.CreateProductRequest{Name: "x", CategoryID: strPtr("nope")})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Errors, "categoryId")
}

func TestSetImage(t *testing.T) {
	svc, products, _ := newProductService(t)

	url, err := svc.SetImage(context.Background(), "s1", "p1", pngBytes(t, 40, 40))
	require.NoError(t, err)
	assert.Equal(t, "/media/products/p1_medium.jpg", url)
	assert.Equal(t, url, products.products[0].ImageURL)

	_, err = svc.SetImage(context.Background(), "s1", "p1", []byte("nope"))
	assert.Error(t, err)
}
