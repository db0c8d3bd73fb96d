package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/http/render"
	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/internal/shared/apperr"
	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/components"
	"loscarnales.mx/storefront/templates/pages"
)

const msgProductNotFound = "No encontramos ese producto."

// ProductsHandler serves the product page and the card fragment that option
// buttons swap in.
type ProductsHandler struct {
	Products ProductCatalog
	Resolver variants.Resolver
}

func NewProductsHandler(p ProductCatalog, r variants.Resolver) *ProductsHandler {
	return &ProductsHandler{Products: p, Resolver: r}
}

// Show handles GET /products/:slug?opt[<dim>]=<value>.
func (h *ProductsHandler) Show(c *gin.Context) {
	p, ok := h.product(c)
	if !ok {
		return
	}
	card := productCard(h.Resolver, p, querySelection(c))

	header := middleware.BuildHeaderCtx(c)
	header.PageTitle = p.Title

	vm := view.ProductDetailPage{
		Header: header,
		Flash:  middleware.GetFlash(c),
		Card:   card,
		Images: p.Images,
	}
	if v, ok := p.VariantByID(card.VariantID); ok {
		vm.SKU = v.SKU
	}
	render.Component(c, http.StatusOK, pages.Product(vm))
}

// Card handles GET /products/:slug/card, the HTMX target of option clicks.
func (h *ProductsHandler) Card(c *gin.Context) {
	p, ok := h.product(c)
	if !ok {
		return
	}
	render.Component(c, http.StatusOK, components.ProductCard(productCard(h.Resolver, p, querySelection(c))))
}

func (h *ProductsHandler) product(c *gin.Context) (catalog.Product, bool) {
	p, err := h.Products.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			middleware.Fail(c, apperr.NotFoundErr(msgProductNotFound).WithErr(err))
		} else {
			middleware.Fail(c, apperr.Wrap(err))
		}
		return catalog.Product{}, false
	}
	return p, true
}
