package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/cartcookie"
	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/http/render"
	"loscarnales.mx/storefront/internal/http/validation"
	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/internal/shared/apperr"
	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/components"
	"loscarnales.mx/storefront/templates/pages"
)

const hxTriggerCartUpdated = "cart-updated"

// CartHandler serves the cart page, drawer and badge, and the cart mutations.
type CartHandler struct {
	Store    CartStore
	Products ProductCatalog
	Resolver variants.Resolver
	Badges   *middleware.BadgeCounts
	Flash    *flash.Codec
	CK       *cartcookie.Codec
	Log      *slog.Logger
}

type addForm struct {
	ProductSlug string `form:"product_slug" binding:"required"`
	Qty         int    `form:"qty" binding:"omitempty,gte=1,lte=99"`
}

type lineForm struct {
	VariantID string `form:"variant_id" binding:"required"`
	Qty       int    `form:"qty" binding:"gte=0"`
}

// Add handles POST /cart/add. The variant is resolved here from the posted
// selection; the request is refused unless that selection can be added.
func (h *CartHandler) Add(c *gin.Context) {
	var f addForm
	if err := c.ShouldBind(&f); err != nil {
		h.reject(c, "/", apperr.InvalidErr("Revisa los datos del formulario.", validation.FromBindError(err, &f)).WithErr(err))
		return
	}
	if f.Qty == 0 {
		f.Qty = 1
	}
	ctx := c.Request.Context()

	p, err := h.Products.Detail(ctx, strings.TrimSpace(f.ProductSlug))
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			h.reject(c, "/", apperr.NotFoundErr("Ese producto ya no está disponible.").WithErr(err))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	sel := formSelection(c)
	back := productHref(p.Slug, sel)
	v, matched := h.Resolver.MatchingVariant(p, sel)
	if !matched {
		h.reject(c, back, apperr.InvalidErr("Elige una combinación disponible.", nil))
		return
	}
	if !h.Resolver.CanAddToCart(p, sel) {
		h.reject(c, back, apperr.ConflictErr("Esta opción está agotada."))
		return
	}

	cartID, err := h.ensureCart(c)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	ev, err := h.Store.Add(ctx, cartID, v.ID, f.Qty)
	if err != nil {
		h.mutationFailed(c, back, err)
		return
	}
	h.done(c, ev, "/cart", "¡Agregado al carrito! 🌽")
}

// Update handles POST /cart/items/update; qty 0 removes the line.
func (h *CartHandler) Update(c *gin.Context) {
	var f lineForm
	if err := c.ShouldBind(&f); err != nil {
		h.reject(c, "/cart", apperr.InvalidErr("Cantidad no válida.", validation.FromBindError(err, &f)).WithErr(err))
		return
	}
	ev, err := h.Store.UpdateQty(c.Request.Context(), middleware.GetCartID(c), strings.TrimSpace(f.VariantID), f.Qty)
	if err != nil {
		h.mutationFailed(c, "/cart", err)
		return
	}
	msg := "Cantidad actualizada."
	if ev.Kind == cart.EventRemoved {
		msg = "Producto eliminado del carrito."
	}
	h.done(c, ev, "/cart", msg)
}

// Remove handles POST /cart/items/remove.
func (h *CartHandler) Remove(c *gin.Context) {
	variantID := strings.TrimSpace(c.PostForm("variant_id"))
	if variantID == "" {
		h.reject(c, "/cart", apperr.InvalidErr("Producto no válido.", map[string]string{"variant_id": "Este campo es obligatorio."}))
		return
	}
	ev, err := h.Store.Remove(c.Request.Context(), middleware.GetCartID(c), variantID)
	if err != nil {
		h.mutationFailed(c, "/cart", err)
		return
	}
	h.done(c, ev, "/cart", "Producto eliminado del carrito.")
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	page.Header = middleware.BuildHeaderCtx(c)
	page.Header.PageTitle = "Tu carrito"
	page.Flash = middleware.GetFlash(c)
	render.Component(c, http.StatusOK, pages.Cart(page))
}

// Drawer handles GET /cart/drawer, the floating cart.
func (h *CartHandler) Drawer(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	render.Component(c, http.StatusOK, components.CartDrawer(page))
}

// Badge handles GET /cart/badge, refreshed by htmx after cart changes.
func (h *CartHandler) Badge(c *gin.Context) {
	middleware.SetCartCount(c, h.Badges.Count(c.Request.Context(), middleware.GetCartID(c)))
	render.Component(c, http.StatusOK, components.CartBadge(middleware.BuildHeaderCtx(c)))
}

func (h *CartHandler) page(c *gin.Context) (view.CartPage, bool) {
	page, err := h.Store.Page(c.Request.Context(), middleware.GetCartID(c))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return view.CartPage{}, false
	}
	return page, true
}

func (h *CartHandler) ensureCart(c *gin.Context) (string, error) {
	if id := middleware.GetCartID(c); id != "" {
		return id, nil
	}
	id, err := h.Store.NewCart(c.Request.Context())
	if err != nil {
		return "", err
	}
	h.CK.Set(c, id)
	c.Set(middleware.CtxKeyCartID, id)
	return id, nil
}

func (h *CartHandler) mutationFailed(c *gin.Context, back string, err error) {
	var oos *cart.OutOfStockError
	switch {
	case errors.As(err, &oos):
		h.reject(c, back, apperr.ConflictErr("No hay suficiente inventario para esa cantidad.").WithErr(err))
	case errors.Is(err, cart.ErrItemNotFound), errors.Is(err, cart.ErrMissingCart):
		h.reject(c, "/cart", apperr.NotFoundErr("Ese producto ya no está en tu carrito.").WithErr(err))
	case errors.Is(err, cart.ErrVariantNotFound):
		h.reject(c, back, apperr.NotFoundErr("Esa opción ya no está disponible.").WithErr(err))
	case errors.Is(err, cart.ErrInvalidQuantity):
		h.reject(c, back, apperr.InvalidErr("Cantidad no válida.", nil).WithErr(err))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

// reject answers a refused mutation: API and htmx callers get the error
// status, form posts are redirected with a flash message.
func (h *CartHandler) reject(c *gin.Context, location string, ae *apperr.AppError) {
	if middleware.WantsJSON(c) || middleware.IsHTMX(c) {
		middleware.Fail(c, ae)
		return
	}
	h.logger().LogAttrs(c.Request.Context(), slog.LevelInfo, "cart_rejected",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("kind", string(ae.Kind)),
		slog.Any("err", ae.Err),
	)
	render.RedirectWithFlash(c, h.Flash, location, view.FlashError, ae.PublicMsg)
}

func (h *CartHandler) done(c *gin.Context, ev cart.Event, location, msg string) {
	total := ev.TotalItems
	if !ev.TotalKnown {
		total = h.Badges.Count(c.Request.Context(), ev.CartID)
	}
	middleware.SetCartCount(c, total)
	switch {
	case middleware.IsHTMX(c):
		c.Header("HX-Trigger", hxTriggerCartUpdated)
		render.Component(c, http.StatusOK, components.CartBadge(middleware.BuildHeaderCtx(c)))
	case middleware.WantsJSON(c):
		c.JSON(http.StatusOK, gin.H{
			"variant_id":  ev.VariantID,
			"qty":         ev.Qty,
			"total_items": total,
		})
	default:
		render.RedirectWithFlash(c, h.Flash, location, view.FlashSuccess, msg)
	}
}

func (h *CartHandler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}
