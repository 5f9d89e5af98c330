package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dijital-vitrin/models"
	"dijital-vitrin/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogPaginates(t *testing.T) {
	var products []models.Product
	for i := 0; i < 20; i++ {
		products = append(products, models.Product{ID: fmt.Sprintf("p%d", i), Name: "Ürün", Price: 1500})
	}
	catalog := BuildCatalog(apparelStore(), products)

	require.Len(t, catalog.Pages, 3)
	assert.Len(t, catalog.Pages[0], 9)
	assert.Len(t, catalog.Pages[2], 2)
	assert.Equal(t, "1.500 TL", catalog.Pages[0][0].PriceLabel)
}

func TestRenderCatalogHTML(t *testing.T) {
	stores, categories, products := apparelFixture()
	storefront := NewStorefrontService(stores, categories, products, nil, schema.NewCache())
	svc := NewCatalogService(storefront, "http://localhost:8080", "")

	var out strings.Builder
	require.NoError(t, svc.RenderCatalogHTML(context.Background(), &out, apparelStore()))
	html := out.String()
	assert.Contains(t, html, "Mavi Butik")
	assert.Contains(t, html, "Gömlek")
	assert.Contains(t, html, "<del>100 TL</del> 80 TL")
	assert.Contains(t, html, "size: S, M")
	assert.NotContains(t, html, "Eski")
}

func TestDetectChromePathFallsBack(t *testing.T) {
	assert.NotEqual(t, "/definitely/not/chrome", detectChromePath("/definitely/not/chrome"))
}
