package products

import (
	"sort"
	"strings"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

// ToCatalog maps a loaded row (with Options, Variants and Images preloaded)
// to the catalog record the storefront renders. UpdatedAt is the latest
// change across the product, its variants and its images, so a stock or
// price edit on a single variant still bumps the version.
func ToCatalog(p Product, defaultCurrency string) catalog.Product {
	out := catalog.Product{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Name,
		Featured:  p.Featured,
		Currency:  defaultCurrency,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		d := strings.TrimSpace(*p.Description)
		out.Description = &d
	}

	imgs := append([]Image(nil), p.Images...)
	sort.SliceStable(imgs, func(i, j int) bool { return imgs[i].Position < imgs[j].Position })
	out.Images = make([]string, 0, len(imgs))
	for _, im := range imgs {
		if im.CreatedAt.After(out.UpdatedAt) {
			out.UpdatedAt = im.CreatedAt
		}
		if im.URL != "" {
			out.Images = append(out.Images, im.URL)
		}
	}

	opts := append([]Option(nil), p.Options...)
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Position < opts[j].Position })
	out.Options = make([]catalog.OptionDimension, 0, len(opts))
	for _, o := range opts {
		out.Options = append(out.Options, catalog.OptionDimension{
			ID:       o.ID,
			Name:     o.Name,
			Values:   append([]string(nil), o.Values...),
			Swatches: o.Swatches.Data(),
		})
	}

	vars := append([]Variant(nil), p.Variants...)
	sort.SliceStable(vars, func(i, j int) bool { return vars[i].Position < vars[j].Position })
	out.Variants = make([]catalog.Variant, 0, len(vars))
	for _, v := range vars {
		if v.UpdatedAt.After(out.UpdatedAt) {
			out.UpdatedAt = v.UpdatedAt
		}
		cv := catalog.Variant{
			ID:        v.ID,
			SKU:       v.SKU,
			Options:   v.Options.Data(),
			Price:     catalog.Money(v.PriceCents),
			Stock:     v.Stock,
			Available: v.Available,
			Image:     v.ImageURL,
		}
		if cv.Options == nil {
			cv.Options = map[string]string{}
		}
		if v.CompareAtCents != nil {
			c := catalog.Money(*v.CompareAtCents)
			cv.CompareAt = &c
		}
		if v.Currency != "" {
			out.Currency = strings.ToUpper(v.Currency)
		}
		out.Variants = append(out.Variants, cv)
	}
	return out
}
