package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/http/render"
	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/internal/shared/apperr"
	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/pages"
)

const (
	indexProductLimit  = 48
	indexSkeletonCount = 8
	defaultLoadTimeout = 2 * time.Second

	allProductsTitle       = "🌟 Nuestros Sabores 🌟"
	unknownCollectionTitle = "Colección"
)

type IndexHandler struct {
	Products    ProductCatalog
	Collections CollectionLister
	Resolver    variants.Resolver
	Timeout     time.Duration
	Log         *slog.Logger
}

type indexData struct {
	products    []catalog.Product
	collections []catalog.Collection
	productsErr error
	colsErr     error
}

// load fetches products and collections concurrently. A source that fails or
// misses the deadline is reported through its own error.
func (h *IndexHandler) load(ctx context.Context) indexData {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d indexData
	var g errgroup.Group
	g.Go(func() error {
		d.products, d.productsErr = h.Products.List(ctx, indexProductLimit, 0)
		return d.productsErr
	})
	g.Go(func() error {
		d.collections, d.colsErr = h.Collections.List(ctx)
		return d.colsErr
	})
	if err := g.Wait(); err != nil {
		h.logger().LogAttrs(ctx, slog.LevelWarn, "index_load_degraded",
			slog.Bool("products_failed", d.productsErr != nil),
			slog.Bool("collections_failed", d.colsErr != nil),
			slog.Any("err", err),
		)
	}
	return d
}

func (h *IndexHandler) page(c *gin.Context, d indexData) view.IndexPage {
	selected := strings.TrimSpace(c.Query("collection"))

	p := view.IndexPage{
		Header:               middleware.BuildHeaderCtx(c),
		Flash:                middleware.GetFlash(c),
		LoadingCollections:   d.colsErr != nil,
		Loading:              d.productsErr != nil,
		SelectedCollectionID: selected,
		ProductsTitle:        allProductsTitle,
		ShowAllHref:          "/#productos",
		FragmentHref:         "/fragments/products",
		SkeletonCount:        indexSkeletonCount,
	}
	if selected != "" {
		p.FragmentHref += "?collection=" + url.QueryEscape(selected)
		// Without collections the filter cannot be applied yet.
		if d.colsErr != nil {
			p.Loading = true
		}
	}

	if !p.LoadingCollections {
		p.Collections = make([]view.CollectionCardVM, 0, len(d.collections))
		for _, col := range d.collections {
			p.Collections = append(p.Collections, collectionCard(col))
		}
	}

	var col catalog.Collection
	found := false
	if selected != "" {
		col, found = catalog.FindCollection(d.collections, selected)
		p.ProductsTitle = unknownCollectionTitle
		if found {
			p.ProductsTitle = col.Name
		}
	}

	if !p.Loading {
		items := d.products
		if selected != "" {
			items = catalog.ProductsInCollection(d.products, col)
		}
		p.Products = productCards(h.Resolver, items)
	}
	return p
}

// Index renders the storefront home. ?collection=<id> filters the products.
func (h *IndexHandler) Index(c *gin.Context) {
	d := h.load(c.Request.Context())
	render.Component(c, http.StatusOK, pages.Index(h.page(c, d)))
}

// ProductsFragment renders just the product grid; the home page requests it
// when its first load left the grid in the loading state.
func (h *IndexHandler) ProductsFragment(c *gin.Context) {
	d := h.load(c.Request.Context())
	if d.productsErr != nil {
		middleware.Fail(c, apperr.Wrap(d.productsErr))
		return
	}
	render.Component(c, http.StatusOK, pages.ProductGrid(h.page(c, d)))
}

func (h *IndexHandler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}
