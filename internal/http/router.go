package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/cartcookie"
	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/handlers"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/http/render"
	"loscarnales.mx/storefront/internal/shared/apperr"
)

type Deps struct {
	Log        *slog.Logger
	Flash      *flash.Codec
	CartCookie *cartcookie.Codec
	Badges     *middleware.BadgeCounts

	Index      *handlers.IndexHandler
	Products   *handlers.ProductsHandler
	Cart       *handlers.CartHandler
	Newsletter *handlers.NewsletterHandler
	DB         handlers.Pinger

	// StaticDir and UploadsDir are served when set. UploadsURL defaults
	// to /uploads.
	StaticDir  string
	UploadsDir string
	UploadsURL string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log, "/healthz", "/cart/badge"))
	r.Use(middleware.ErrorHandler(d.Log, render.ErrorPage))
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Flash(d.Flash))
	r.Use(middleware.CartCount(d.CartCookie, d.Badges))

	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
	}
	if d.UploadsDir != "" {
		prefix := d.UploadsURL
		if prefix == "" {
			prefix = "/uploads"
		}
		r.Static(prefix, d.UploadsDir)
	}

	r.GET("/healthz", handlers.Healthz(d.DB))

	r.GET("/", d.Index.Index)
	r.GET("/fragments/products", d.Index.ProductsFragment)
	r.GET("/collections/:id/products", handlers.ViewCollectionProducts)

	r.GET("/products/:slug", d.Products.Show)
	r.GET("/products/:slug/card", d.Products.Card)

	r.GET("/cart", d.Cart.Get)
	r.GET("/cart/drawer", d.Cart.Drawer)
	r.GET("/cart/badge", d.Cart.Badge)
	r.POST("/cart/add", d.Cart.Add)
	r.POST("/cart/items/update", d.Cart.Update)
	r.POST("/cart/items/remove", d.Cart.Remove)

	r.POST("/newsletter", d.Newsletter.Subscribe)

	r.NoRoute(func(c *gin.Context) {
		middleware.Fail(c, apperr.NotFoundErr("La página que buscas no existe."))
	})

	return r
}
