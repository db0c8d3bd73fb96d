package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Money is an amount in minor units (centavos).
type Money int64

type OptionDimension struct {
	ID     string
	Name   string
	Values []string
	// Swatches maps a value to a hex ("#c62828") or named ("navy") color,
	// used only for color dimensions.
	Swatches map[string]string
}

var colors = validator.New()

// ValidSwatch reports whether c can go into a style attribute as is.
// Functional notations such as rgb() are rejected: html/template filters
// them out of CSS contexts.
func ValidSwatch(c string) bool {
	return colors.Var(c, "hexcolor|alpha") == nil
}

// Swatch returns the color for value, if a usable one was configured.
func (d OptionDimension) Swatch(value string) (string, bool) {
	if d.Swatches == nil {
		return "", false
	}
	c, ok := d.Swatches[value]
	if !ok || !ValidSwatch(c) {
		return "", false
	}
	return c, true
}

func (d OptionDimension) HasValue(value string) bool {
	for _, v := range d.Values {
		if v == value {
			return true
		}
	}
	return false
}

type Variant struct {
	ID        string
	SKU       string
	Options   map[string]string
	Price     Money
	CompareAt *Money
	Image     *string

	// Stock is nil when inventory is not tracked; Available decides then.
	Stock     *int
	Available bool
}

func (v Variant) InStock() bool {
	if v.Stock == nil {
		return v.Available
	}
	return *v.Stock > 0
}

// StockLimit reports the tracked quantity. ok is false for untracked variants.
func (v Variant) StockLimit() (int, bool) {
	if v.Stock == nil {
		return 0, false
	}
	return *v.Stock, true
}

type Product struct {
	ID          string
	Slug        string
	Title       string
	Description *string
	Images      []string
	Options     []OptionDimension
	Variants    []Variant
	Featured    bool
	Currency    string
	UpdatedAt   time.Time
}

func (p Product) HasVariants() bool {
	return len(p.Options) > 0 && len(p.Variants) > 0
}

func (p Product) Dimension(name string) (OptionDimension, bool) {
	for _, d := range p.Options {
		if d.Name == name {
			return d, true
		}
	}
	return OptionDimension{}, false
}

func (p Product) FirstImage() (string, bool) {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return "", false
	}
	return p.Images[0], true
}

func (p Product) VariantByID(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type Collection struct {
	ID          string
	Slug        string
	Name        string
	Description *string
	Image       *string
	Featured    bool
	ProductIDs  []string
}

// Ptr is a small helper for optional fields.
func Ptr[T any](v T) *T { return &v }
