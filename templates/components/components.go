// Package components holds the storefront's reusable view pieces. Sources are
// html/template files; each is exposed as a templ.Component.
package components

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"loscarnales.mx/storefront/pkg/view"
)

//go:embed *.gohtml
var FS embed.FS

// Funcs is shared with every template set that includes these components.
var Funcs = template.FuncMap{
	"seq": seq,
}

var set = template.Must(template.New("components").Funcs(Funcs).ParseFS(FS, "*.gohtml"))

func named(name string, data any) templ.Component {
	return templ.FromGoHTML(set.Lookup(name), data)
}

func CollectionCard(vm view.CollectionCardVM) templ.Component {
	return named("collection_card", vm)
}

func ProductCard(vm view.ProductCardVM) templ.Component {
	return named("product_card", vm)
}

func CartBadge(h view.HeaderCtx) templ.Component {
	return named("cart_badge", h)
}

func CartDrawer(p view.CartPage) templ.Component {
	return named("cart_drawer", p)
}

func seq(n int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
