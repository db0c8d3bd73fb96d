// Package pages renders full storefront documents. Every page shares the
// layout and component templates from package components.
package pages

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/components"
)

//go:embed *.gohtml
var files embed.FS

var set = template.Must(
	template.Must(template.New("pages").Funcs(components.Funcs).ParseFS(components.FS, "*.gohtml")).
		ParseFS(files, "*.gohtml"),
)

func named(name string, data any) templ.Component {
	return templ.FromGoHTML(set.Lookup(name), data)
}

func Index(p view.IndexPage) templ.Component { return named("index", p) }

// ProductGrid is the products section alone, fetched when the index rendered
// its loading skeletons.
func ProductGrid(p view.IndexPage) templ.Component { return named("product_grid", p) }

func Product(p view.ProductDetailPage) templ.Component { return named("product", p) }

func Cart(p view.CartPage) templ.Component { return named("cart", p) }

func Error(p view.ErrorPage) templ.Component { return named("error", p) }
