package seed

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/internal/shared/slug"
)

// File is the YAML catalog document read by the seed tool.
type File struct {
	Currency    string          `yaml:"currency"`
	Products    []ProductDoc    `yaml:"products"`
	Collections []CollectionDoc `yaml:"collections"`
}

type ProductDoc struct {
	Name        string       `yaml:"name"`
	Slug        string       `yaml:"slug"`
	Description string       `yaml:"description"`
	Status      string       `yaml:"status"`
	Featured    bool         `yaml:"featured"`
	Images      []string     `yaml:"images"`
	Options     []OptionDoc  `yaml:"options"`
	Variants    []VariantDoc `yaml:"variants"`
}

type OptionDoc struct {
	Name     string            `yaml:"name"`
	Values   []string          `yaml:"values"`
	Swatches map[string]string `yaml:"swatches"`
}

// VariantDoc prices are decimal strings in major units ("25.50").
type VariantDoc struct {
	SKU       string            `yaml:"sku"`
	Options   map[string]string `yaml:"options"`
	Price     string            `yaml:"price"`
	CompareAt string            `yaml:"compare_at"`
	Stock     *int              `yaml:"stock"`
	Available *bool             `yaml:"available"`
	Image     string            `yaml:"image"`
}

type CollectionDoc struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Featured    bool     `yaml:"featured"`
	Products    []string `yaml:"products"`
}

// Parse decodes a catalog document, rejecting unknown keys.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("seed: decode: %w", err)
	}
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Currency == "" {
		f.Currency = "MXN"
	}
	for i := range f.Products {
		p := &f.Products[i]
		if strings.TrimSpace(p.Slug) == "" {
			p.Slug = slug.FromName(p.Name)
		}
	}
	for i := range f.Collections {
		c := &f.Collections[i]
		if strings.TrimSpace(c.Slug) == "" {
			c.Slug = slug.FromName(c.Name)
		}
	}
	return f, nil
}

// ParseCents converts "25.50" to 2550. More than two decimals is an error.
func ParseCents(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("price %q has more than two decimals", s)
	}
	if cents.IsNegative() {
		return 0, fmt.Errorf("price %q is negative", s)
	}
	return int(cents.IntPart()), nil
}

// Catalog builds the storefront record for p so it can be checked before
// anything is written. Images are left out; they are resolved on upload.
func (p ProductDoc) Catalog(currency string) (catalog.Product, error) {
	out := catalog.Product{
		Slug:     p.Slug,
		Title:    strings.TrimSpace(p.Name),
		Featured: p.Featured,
		Currency: currency,
	}
	if out.Title == "" {
		return catalog.Product{}, fmt.Errorf("product %q: name is required", p.Slug)
	}
	if !slug.Valid(p.Slug) {
		return catalog.Product{}, fmt.Errorf("product %q: invalid slug", p.Slug)
	}
	for _, o := range p.Options {
		for value, c := range o.Swatches {
			if !catalog.ValidSwatch(c) {
				return catalog.Product{}, fmt.Errorf("product %q option %q: swatch %q for %q must be a hex or named color", p.Slug, o.Name, c, value)
			}
		}
		out.Options = append(out.Options, catalog.OptionDimension{
			Name:     strings.TrimSpace(o.Name),
			Values:   o.Values,
			Swatches: o.Swatches,
		})
	}
	skus := map[string]bool{}
	for i, v := range p.Variants {
		if v.SKU == "" {
			return catalog.Product{}, fmt.Errorf("product %q: variant %d has no sku", p.Slug, i)
		}
		if skus[v.SKU] {
			return catalog.Product{}, fmt.Errorf("product %q: duplicate sku %q", p.Slug, v.SKU)
		}
		skus[v.SKU] = true

		price, err := ParseCents(v.Price)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("product %q sku %q: %w", p.Slug, v.SKU, err)
		}
		cv := catalog.Variant{
			ID:        v.SKU,
			SKU:       v.SKU,
			Options:   v.Options,
			Price:     catalog.Money(price),
			Stock:     v.Stock,
			Available: v.Available == nil || *v.Available,
		}
		if cv.Options == nil {
			cv.Options = map[string]string{}
		}
		if v.CompareAt != "" {
			c, err := ParseCents(v.CompareAt)
			if err != nil {
				return catalog.Product{}, fmt.Errorf("product %q sku %q: %w", p.Slug, v.SKU, err)
			}
			m := catalog.Money(c)
			cv.CompareAt = &m
		}
		out.Variants = append(out.Variants, cv)
	}
	if err := out.Validate(); err != nil {
		return catalog.Product{}, fmt.Errorf("product %q: %w", p.Slug, err)
	}
	return out, nil
}

// Validate checks every product and that collections only reference
// products defined in the same document.
func (f File) Validate() error {
	slugs := map[string]bool{}
	for _, p := range f.Products {
		if slugs[p.Slug] {
			return fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		slugs[p.Slug] = true
		if _, err := p.Catalog(f.Currency); err != nil {
			return err
		}
	}
	for _, c := range f.Collections {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("collection %q: name is required", c.Slug)
		}
		for _, s := range c.Products {
			if !slugs[s] {
				return fmt.Errorf("collection %q references unknown product %q", c.Slug, s)
			}
		}
	}
	return nil
}
