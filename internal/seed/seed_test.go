package seed

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"loscarnales.mx/storefront/internal/modules/collections"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/storage"
)

const doc = `
currency: mxn
products:
  - name: Chile Limón
    featured: true
    images: [fotos/chile.jpg, https://cdn.example.com/chile-2.jpg]
    options:
      - name: Tamaño
        values: [Chico, Grande]
    variants:
      - sku: CL-CH
        options: {Tamaño: Chico}
        price: "25.00"
        compare_at: "30"
        stock: 10
      - sku: CL-GR
        options: {Tamaño: Grande}
        price: "40.50"
        image: fotos/grande.png
  - name: Salsa Macha
    slug: salsa-macha
    variants:
      - sku: SM
        price: "99"
        available: false
collections:
  - name: Picositos
    products: [chile-limon, salsa-macha]
`

type memProducts struct{ got []products.ProductInput }

func (m *memProducts) ReplaceProduct(ctx context.Context, in products.ProductInput) (products.Product, error) {
	m.got = append(m.got, in)
	return products.Product{ID: "id-" + in.Slug, Slug: in.Slug}, nil
}

type memCollections struct{ got []collections.Input }

func (m *memCollections) Replace(ctx context.Context, in collections.Input) (collections.Collection, error) {
	m.got = append(m.got, in)
	return collections.Collection{ID: "col-" + in.Slug}, nil
}

type memStorage struct {
	mu   sync.Mutex
	puts map[string]string
}

func (m *memStorage) Put(ctx context.Context, r io.Reader, obj storage.Object) (storage.Stored, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.Stored{}, err
	}
	key := storage.ObjectKey(obj)
	m.mu.Lock()
	m.puts[key] = string(b)
	m.mu.Unlock()
	return storage.Stored{Key: key, URL: m.URL(key)}, nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error { return nil }
func (m *memStorage) URL(key string) string                        { return "/uploads/" + key }

func TestParseDefaultsSlugsAndCurrency(t *testing.T) {
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Currency != "MXN" {
		t.Fatalf("currency = %q", f.Currency)
	}
	if f.Products[0].Slug != "chile-limon" || f.Collections[0].Slug != "picositos" {
		t.Fatalf("slugs = %q, %q", f.Products[0].Slug, f.Collections[0].Slug)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse(strings.NewReader("products:\n  - nombre: x\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "25", want: 2500},
		{in: "25.5", want: 2550},
		{in: " 0.99 ", want: 99},
		{in: "1.999", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseCents(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestValidateCatchesBrokenDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"undeclared value", "products:\n  - name: A\n    options: [{name: Color, values: [Rojo]}]\n    variants: [{sku: A1, options: {Color: Azul}, price: '1'}]\n"},
		{"duplicate combination", "products:\n  - name: A\n    options: [{name: Color, values: [Rojo]}]\n    variants: [{sku: A1, options: {Color: Rojo}, price: '1'}, {sku: A2, options: {Color: Rojo}, price: '1'}]\n"},
		{"duplicate sku", "products:\n  - name: A\n    variants: [{sku: A1, price: '1'}, {sku: A1, price: '2'}]\n"},
		{"unknown collection product", "products:\n  - name: A\n    variants: [{sku: A1, price: '1'}]\ncollections:\n  - name: C\n    products: [b]\n"},
		{"functional swatch color", "products:\n  - name: A\n    options: [{name: Color, values: [Rojo], swatches: {Rojo: 'rgb(198, 40, 40)'}}]\n    variants: [{sku: A1, options: {Color: Rojo}, price: '1'}]\n"},
		{"hsl swatch color", "products:\n  - name: A\n    options: [{name: Color, values: [Rojo], swatches: {Rojo: 'hsl(0 80% 50%)'}}]\n    variants: [{sku: A1, options: {Color: Rojo}, price: '1'}]\n"},
		{"duplicate slug", "products:\n  - name: A\n    variants: [{sku: A1, price: '1'}]\n  - name: A\n    variants: [{sku: A2, price: '1'}]\n"},
	}
	for _, tt := range tests {
		f, err := Parse(strings.NewReader(tt.doc))
		if err != nil {
			t.Fatalf("%s: Parse() error = %v", tt.name, err)
		}
		if err := f.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tt.name)
		}
	}
}

func TestSeederRun(t *testing.T) {
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	ps, cs := &memProducts{}, &memCollections{}
	st := &memStorage{puts: map[string]string{}}
	s := &Seeder{
		Products:    ps,
		Collections: cs,
		Images:      st,
		Assets: fstest.MapFS{
			"fotos/chile.jpg":  {Data: []byte("jpg")},
			"fotos/grande.png": {Data: []byte("png")},
		},
	}

	sum, err := s.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum != (Summary{Products: 2, Variants: 3, Images: 2, Collections: 1}) {
		t.Fatalf("summary = %+v", sum)
	}

	chile := ps.got[0]
	if chile.Images[0].URL != "/uploads/chile-limon/chile.jpg" || chile.Images[1].URL != "https://cdn.example.com/chile-2.jpg" {
		t.Fatalf("images = %+v", chile.Images)
	}
	if chile.Variants[0].PriceCents != 2500 || *chile.Variants[0].CompareAtCents != 3000 || chile.Variants[0].Currency != "MXN" {
		t.Fatalf("variant = %+v", chile.Variants[0])
	}
	if chile.Variants[1].ImageURL == nil || *chile.Variants[1].ImageURL != "/uploads/chile-limon/grande.png" {
		t.Fatalf("variant image = %v", chile.Variants[1].ImageURL)
	}
	if ps.got[1].Variants[0].Available {
		t.Fatal("available: false should be kept")
	}
	if got := cs.got[0].ProductIDs; len(got) != 2 || got[0] != "id-chile-limon" || got[1] != "id-salsa-macha" {
		t.Fatalf("collection products = %v", got)
	}
}

func TestSeederRunMissingAsset(t *testing.T) {
	f, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	ps := &memProducts{}
	s := &Seeder{Products: ps, Collections: &memCollections{}, Images: &memStorage{puts: map[string]string{}}, Assets: fstest.MapFS{}}

	_, err = s.Run(context.Background(), f)
	if err == nil || !strings.Contains(err.Error(), "fotos/chile.jpg") {
		t.Fatalf("Run() error = %v", err)
	}
	if len(ps.got) != 0 {
		t.Fatal("nothing should be written when an image is missing")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error should wrap fs.ErrNotExist: %v", err)
	}
}

func TestValidateAcceptsHexAndNamedSwatches(t *testing.T) {
	f, err := Parse(strings.NewReader("products:\n  - name: A\n    options: [{name: Color, values: [Rojo, Azul, Verde]," +
		" swatches: {Rojo: '#c62828', Azul: '#00f', Verde: green}}]\n    variants: [{sku: A1, options: {Color: Rojo}, price: '1'}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
