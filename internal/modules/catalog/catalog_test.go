package catalog

import (
	"errors"
	"testing"
)

func sizes() Product {
	n := 3
	return Product{
		ID: "p1",
		Options: []OptionDimension{
			{Name: "Tamaño", Values: []string{"Chico", "Grande"}},
		},
		Variants: []Variant{
			{ID: "a", Options: map[string]string{"Tamaño": "Chico"}, Price: 2500, Stock: &n},
			{ID: "b", Options: map[string]string{"Tamaño": "Grande"}, Price: 4000},
		},
	}
}

func TestValidateAcceptsWellFormedProduct(t *testing.T) {
	if err := sizes().Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
}

func TestValidateRejectsBrokenVariants(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		want    error
	}{
		{name: "undeclared value", variant: Variant{ID: "x", Options: map[string]string{"Tamaño": "Mediano"}}, want: ErrInvalidVariant},
		{name: "undeclared dimension", variant: Variant{ID: "x", Options: map[string]string{"Sabor": "Queso"}}, want: ErrInvalidVariant},
		{name: "missing dimension", variant: Variant{ID: "x", Options: map[string]string{}}, want: ErrInvalidVariant},
		{name: "duplicate combination", variant: Variant{ID: "x", Options: map[string]string{"Tamaño": "Chico"}}, want: ErrDuplicateVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sizes()
			p.Variants = append(p.Variants, tt.variant)
			err := p.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSanitizedDropsOffenders(t *testing.T) {
	p := sizes()
	p.Variants = append(p.Variants,
		Variant{ID: "dup", Options: map[string]string{"Tamaño": "Grande"}},
		Variant{ID: "bad", Options: map[string]string{"Tamaño": "XL"}},
	)
	clean, dropped := p.Sanitized()
	if len(clean.Variants) != 2 || clean.Variants[1].ID != "b" {
		t.Fatalf("kept variants = %+v", clean.Variants)
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped = %d, want 2", len(dropped))
	}
	if len(p.Variants) != 4 {
		t.Fatal("Sanitized must not modify the receiver's variants")
	}
}

func TestVariantInStock(t *testing.T) {
	zero, five := 0, 5
	tests := []struct {
		name string
		v    Variant
		want bool
	}{
		{name: "tracked with stock", v: Variant{Stock: &five}, want: true},
		{name: "tracked sold out", v: Variant{Stock: &zero, Available: true}, want: false},
		{name: "untracked available", v: Variant{Available: true}, want: true},
		{name: "untracked unavailable", v: Variant{}, want: false},
	}
	for _, tt := range tests {
		if got := tt.v.InStock(); got != tt.want {
			t.Fatalf("%s: InStock() = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestProductsInCollectionIgnoresDanglingReferences(t *testing.T) {
	items := []Product{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	col := Collection{ID: "col", ProductIDs: []string{"c", "ghost", "a"}}

	got := ProductsInCollection(items, col)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("ProductsInCollection() = %+v, want [a c]", got)
	}
	if len(ProductsInCollection(items, Collection{})) != 0 {
		t.Fatal("empty collection should have no products")
	}
}

func TestCombinationKeyIsOrderIndependent(t *testing.T) {
	a := CombinationKey(map[string]string{"Talla": "M", "Color": "Rojo"})
	if a != "Color=Rojo;Talla=M" {
		t.Fatalf("CombinationKey() = %q", a)
	}
}

func TestSwatchOnlyYieldsSafeColors(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#c62828", true},
		{"#00F", true},
		{"navy", true},
		{"rgb(198, 40, 40)", false},
		{"hsl(0 80% 50%)", false},
		{"red;background:url(x)", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidSwatch(tt.color); got != tt.want {
			t.Fatalf("ValidSwatch(%q) = %t, want %t", tt.color, got, tt.want)
		}
		d := OptionDimension{Name: "Color", Swatches: map[string]string{"Rojo": tt.color}}
		if _, ok := d.Swatch("Rojo"); ok != tt.want {
			t.Fatalf("Swatch() for %q ok = %t, want %t", tt.color, ok, tt.want)
		}
	}
}
