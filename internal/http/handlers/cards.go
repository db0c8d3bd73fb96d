package handlers

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/shared"
)

const (
	labelAdd     = "🛒 Agregar"
	labelSoldOut = "Agotado"
)

// productCard maps a product and the shopper's selection to the card view.
// Option links carry the selection that choosing the value would produce.
func productCard(res variants.Resolver, p catalog.Product, sel variants.Selection) view.ProductCardVM {
	r := res.Resolve(p, sel)

	vm := view.ProductCardVM{
		ID:           p.ID,
		DOMID:        "card-" + p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Href:         productHref(p.Slug, r.Selected),
		Featured:     p.Featured,
		Discount:     r.Discount,
		HasDiscount:  r.HasDiscount,
		InStock:      r.InStock,
		Price:        shared.FormatMoney(p.Currency, int64(r.CurrentPrice)),
		HasVariants:  p.HasVariants(),
		CanAddToCart: r.CanAddToCart,
		AddLabel:     labelSoldOut,
	}
	if r.InStock {
		vm.AddLabel = labelAdd
	}
	if p.Description != nil {
		vm.Description = view.StripTags(*p.Description)
	}
	if r.HasCompareAt && r.CompareAt > r.CurrentPrice {
		vm.CompareAt = shared.FormatMoney(p.Currency, int64(r.CompareAt))
	}

	if r.HasMatch {
		vm.VariantID = r.Matching.ID
		if r.Matching.Image != nil && *r.Matching.Image != "" {
			vm.ImageURL = *r.Matching.Image
		}
	}
	if vm.ImageURL == "" {
		vm.ImageURL, _ = p.FirstImage()
	}

	if vm.HasVariants {
		vm.Options = make([]view.OptionVM, 0, len(r.Options))
		for _, o := range r.Options {
			opt := view.OptionVM{Name: o.Dimension.Name}
			for _, v := range o.Values {
				if !v.Available {
					continue
				}
				next := res.HandleOptionChange(r.Selected, o.Dimension.Name, v.Value)
				opt.Values = append(opt.Values, view.OptionValueVM{
					Value:    v.Value,
					Label:    o.Dimension.Name + ": " + v.Value,
					Href:     productHref(p.Slug, next),
					CardHref: cardHref(p.Slug, next),
					Selected: v.Selected,
					Dimmed:   v.Dimmed,
					Swatch:   v.Swatch,
				})
			}
			vm.Options = append(vm.Options, opt)
		}
	}

	for _, d := range p.Options {
		if v, ok := r.Selected[d.Name]; ok {
			vm.Selected = append(vm.Selected, view.SelectedOption{Name: d.Name, Value: v})
		}
	}
	return vm
}

func productCards(res variants.Resolver, items []catalog.Product) []view.ProductCardVM {
	out := make([]view.ProductCardVM, 0, len(items))
	for _, p := range items {
		out = append(out, productCard(res, p, nil))
	}
	return out
}

func collectionCard(c catalog.Collection) view.CollectionCardVM {
	vm := view.CollectionCardVM{
		ID:           c.ID,
		Name:         c.Name,
		Featured:     c.Featured,
		ProductsHref: "/collections/" + url.PathEscape(c.ID) + "/products",
	}
	if c.Description != nil {
		vm.Description = *c.Description
	}
	if c.Image != nil {
		vm.ImageURL = *c.Image
	}
	return vm
}

func productHref(slug string, sel variants.Selection) string {
	return withSelection("/products/"+url.PathEscape(slug), sel)
}

func cardHref(slug string, sel variants.Selection) string {
	return withSelection("/products/"+url.PathEscape(slug)+"/card", sel)
}

func withSelection(path string, sel variants.Selection) string {
	if len(sel) == 0 {
		return path
	}
	return path + "?" + sel.Query().Encode()
}

// querySelection reads opt[<dimension>]=<value> pairs from the URL.
func querySelection(c *gin.Context) variants.Selection {
	return variants.NewSelection(c.QueryMap("opt"))
}

func formSelection(c *gin.Context) variants.Selection {
	return variants.NewSelection(c.PostFormMap("opt"))
}
