package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/cartcookie"
	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/handlers"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/pkg/view"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeCatalog struct {
	items []catalog.Product
	err   error
}

func (f *fakeCatalog) List(ctx context.Context, limit, offset int) ([]catalog.Product, error) {
	return f.items, f.err
}

func (f *fakeCatalog) Detail(ctx context.Context, slug string) (catalog.Product, error) {
	for _, p := range f.items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return catalog.Product{}, products.ErrNotFound
}

type fakeCollections struct {
	items []catalog.Collection
	err   error
}

func (f *fakeCollections) List(ctx context.Context) ([]catalog.Collection, error) {
	return f.items, f.err
}

const testCartID = "11111111-1111-4111-8111-111111111111"

type fakeCart struct {
	mu    sync.Mutex
	lines map[string]map[string]int
}

func (f *fakeCart) NewCart(ctx context.Context) (string, error) { return testCartID, nil }

func (f *fakeCart) total(cartID string) int {
	n := 0
	for _, q := range f.lines[cartID] {
		n += q
	}
	return n
}

func (f *fakeCart) Add(ctx context.Context, cartID, variantID string, qty int) (cart.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lines[cartID] == nil {
		f.lines[cartID] = map[string]int{}
	}
	f.lines[cartID][variantID] += qty
	return cart.Event{Kind: cart.EventAdded, CartID: cartID, VariantID: variantID, Qty: f.lines[cartID][variantID], TotalItems: f.total(cartID), TotalKnown: true}, nil
}

func (f *fakeCart) UpdateQty(ctx context.Context, cartID, variantID string, qty int) (cart.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lines[cartID][variantID]; !ok {
		return cart.Event{}, cart.ErrItemNotFound
	}
	f.lines[cartID][variantID] = qty
	return cart.Event{Kind: cart.EventUpdated, CartID: cartID, VariantID: variantID, Qty: qty, TotalItems: f.total(cartID), TotalKnown: true}, nil
}

func (f *fakeCart) Remove(ctx context.Context, cartID, variantID string) (cart.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lines[cartID][variantID]; !ok {
		return cart.Event{}, cart.ErrItemNotFound
	}
	delete(f.lines[cartID], variantID)
	return cart.Event{Kind: cart.EventRemoved, CartID: cartID, VariantID: variantID, TotalItems: f.total(cartID), TotalKnown: true}, nil
}

func (f *fakeCart) Page(ctx context.Context, cartID string) (view.CartPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := view.CartPage{Items: []view.CartItem{}, Subtotal: "$0.00"}
	for id, q := range f.lines[cartID] {
		p.Items = append(p.Items, view.CartItem{VariantID: id, ProductName: "Chile Limón", Qty: q})
		p.Count += q
	}
	return p, nil
}

func (f *fakeCart) TotalItems(ctx context.Context, cartID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total(cartID), nil
}

type fakeNewsletter struct{ emails []string }

func (f *fakeNewsletter) Subscribe(ctx context.Context, email, source string) error {
	f.emails = append(f.emails, email)
	return nil
}

func chileLimon() catalog.Product {
	ten, zero := 10, 0
	return catalog.Product{
		ID:        "p-chile",
		Slug:      "chile-limon",
		Title:     "Chile Limón",
		Currency:  "MXN",
		UpdatedAt: time.Unix(1700000000, 0),
		Options: []catalog.OptionDimension{
			{Name: "Tamaño", Values: []string{"Chico", "Grande"}},
		},
		Variants: []catalog.Variant{
			{ID: "v-chico", SKU: "CL-CH", Options: map[string]string{"Tamaño": "Chico"}, Price: 2500, Stock: &ten},
			{ID: "v-grande", SKU: "CL-GR", Options: map[string]string{"Tamaño": "Grande"}, Price: 4000, Stock: &zero},
		},
	}
}

func salsa() catalog.Product {
	return catalog.Product{
		ID:       "p-salsa",
		Slug:     "salsa-macha",
		Title:    "Salsa Macha",
		Currency: "MXN",
		Variants: []catalog.Variant{{ID: "v-salsa", Options: map[string]string{}, Price: 9900, Available: true}},
	}
}

type testEnv struct {
	router *gin.Engine
	cart   *fakeCart
	cat    *fakeCatalog
	cols   *fakeCollections
	news   *fakeNewsletter
	ck     *cartcookie.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		cart: &fakeCart{lines: map[string]map[string]int{}},
		cat:  &fakeCatalog{items: []catalog.Product{chileLimon(), salsa()}},
		cols: &fakeCollections{items: []catalog.Collection{
			{ID: "c-pica", Name: "Picositos", Featured: true, ProductIDs: []string{"p-chile", "p-ghost"}},
		}},
		news: &fakeNewsletter{},
		ck:   cartcookie.New(testSecret, "carnales_cart", false),
	}
	fc := flash.NewCodec(testSecret, "carnales_flash", false)
	badges, err := middleware.NewBadgeCounts(env.cart, 16, log)
	if err != nil {
		t.Fatalf("NewBadgeCounts() error = %v", err)
	}
	res := variants.New()

	env.router = NewRouter(Deps{
		Log:        log,
		Flash:      fc,
		CartCookie: env.ck,
		Badges:     badges,
		Index:      &handlers.IndexHandler{Products: env.cat, Collections: env.cols, Resolver: res, Timeout: time.Second, Log: log},
		Products:   handlers.NewProductsHandler(env.cat, res),
		Cart:       &handlers.CartHandler{Store: env.cart, Products: env.cat, Resolver: res, Badges: badges, Flash: fc, CK: env.ck, Log: log},
		Newsletter: &handlers.NewsletterHandler{Subscribers: env.news, Flash: fc},
	})
	return env
}

func (e *testEnv) do(req *nethttp.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *nethttp.Request {
	req := httptest.NewRequest(nethttp.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexRendersCatalog(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Nuestras Colecciones", "Picositos", "🌟 Nuestros Sabores 🌟", "Chile Limón", "Salsa Macha", "$25.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestIndexFiltersByCollection(t *testing.T) {
	env := newTestEnv(t)

	body := env.do(httptest.NewRequest(nethttp.MethodGet, "/?collection=c-pica", nil)).Body.String()
	if !strings.Contains(body, "Chile Limón") || strings.Contains(body, "Salsa Macha") {
		t.Fatal("collection filter not applied")
	}
	if !strings.Contains(body, "Ver Todos los Productos") {
		t.Fatal("show-all action missing")
	}

	body = env.do(httptest.NewRequest(nethttp.MethodGet, "/?collection=missing", nil)).Body.String()
	if !strings.Contains(body, ">Colección<") || !strings.Contains(body, "¡Ups! No hay productos disponibles") {
		t.Fatal("dangling collection should fall back to the generic title and the empty state")
	}
}

func TestIndexDegradesWhenProductsFail(t *testing.T) {
	env := newTestEnv(t)
	env.cat.err = errors.New("db down")

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/", nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if got := strings.Count(body, "product-skeleton"); got != 8 {
		t.Fatalf("skeletons = %d, want 8", got)
	}
	if !strings.Contains(body, "Picositos") {
		t.Fatal("collections should still render")
	}

	w = env.do(httptest.NewRequest(nethttp.MethodGet, "/fragments/products", nil))
	if w.Code != nethttp.StatusInternalServerError {
		t.Fatalf("fragment status = %d, want 500", w.Code)
	}
}

func TestCollectionRedirect(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/collections/c-pica/products", nil))
	if w.Code != nethttp.StatusFound || w.Header().Get("Location") != "/?collection=c-pica#productos" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestProductPageReflectsSelection(t *testing.T) {
	env := newTestEnv(t)
	q := url.Values{"opt[Tamaño]": {"Grande"}}

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/products/chile-limon?"+q.Encode(), nil))
	if w.Code != nethttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "badge-soldout") || !strings.Contains(body, " disabled") {
		t.Fatal("sold-out selection should disable add to cart")
	}
	if strings.Contains(body, `aria-label="Tamaño: Grande"`) {
		t.Fatal("sold-out value should not be offered")
	}

	q = url.Values{"opt[Tamaño]": {"Chico"}}
	body = env.do(httptest.NewRequest(nethttp.MethodGet, "/products/chile-limon/card?"+q.Encode(), nil)).Body.String()
	if strings.Contains(body, "<html") {
		t.Fatal("card endpoint should return a fragment")
	}
	if !strings.Contains(body, "$25.00") || !strings.Contains(body, "🛒 Agregar") || strings.Contains(body, " disabled") {
		t.Fatalf("in-stock selection should be addable:\n%s", body)
	}
}

func TestProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/products/nope", nil))
	if w.Code != nethttp.StatusNotFound || !strings.Contains(w.Body.String(), "No encontramos ese producto.") {
		t.Fatalf("got %d\n%s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(nethttp.MethodGet, "/products/nope", nil)
	req.Header.Set("Accept", "application/json")
	w = env.do(req)
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json error body: %v", err)
	}
	if payload["error"] != "No encontramos ese producto." || payload["request_id"] == "" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestAddToCartFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(postForm("/cart/add", url.Values{
		"product_slug": {"chile-limon"},
		"opt[Tamaño]":  {"Chico"},
		"qty":          {"2"},
	}))
	if w.Code != nethttp.StatusFound || w.Header().Get("Location") != "/cart" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
	if got := env.cart.lines[testCartID]["v-chico"]; got != 2 {
		t.Fatalf("cart qty = %d, want 2", got)
	}

	var cookie *nethttp.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "carnales_cart" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("cart cookie not set")
	}

	req := httptest.NewRequest(nethttp.MethodGet, "/cart/badge", nil)
	req.AddCookie(cookie)
	if body := env.do(req).Body.String(); !strings.Contains(body, `<span class="badge-count">2</span>`) {
		t.Fatalf("badge = %s", body)
	}
}

func TestAddToCartRejectsUnavailableSelections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "sold out", form: url.Values{"product_slug": {"chile-limon"}, "opt[Tamaño]": {"Grande"}}},
		{name: "incomplete", form: url.Values{"product_slug": {"chile-limon"}}},
		{name: "unknown value", form: url.Values{"product_slug": {"chile-limon"}, "opt[Tamaño]": {"Mediano"}}},
	}
	for _, tt := range tests {
		w := env.do(postForm("/cart/add", tt.form))
		if w.Code != nethttp.StatusFound || !strings.HasPrefix(w.Header().Get("Location"), "/products/chile-limon") {
			t.Fatalf("%s: got %d %q", tt.name, w.Code, w.Header().Get("Location"))
		}
	}
	if len(env.cart.lines) != 0 {
		t.Fatalf("cart changed: %v", env.cart.lines)
	}
}

func TestAddToCartHTMXReturnsBadge(t *testing.T) {
	env := newTestEnv(t)

	req := postForm("/cart/add", url.Values{"product_slug": {"salsa-macha"}})
	req.Header.Set("HX-Request", "true")
	w := env.do(req)
	if w.Code != nethttp.StatusOK || w.Header().Get("HX-Trigger") != "cart-updated" {
		t.Fatalf("got %d trigger=%q", w.Code, w.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(w.Body.String(), `<span class="badge-count">1</span>`) {
		t.Fatalf("badge = %s", w.Body.String())
	}
}

func TestAddToCartJSONValidation(t *testing.T) {
	env := newTestEnv(t)

	req := postForm("/cart/add", url.Values{"qty": {"500"}})
	req.Header.Set("Accept", "application/json")
	w := env.do(req)
	if w.Code != nethttp.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Fields["product_slug"] == "" {
		t.Fatalf("fields = %v", payload.Fields)
	}
}

func TestUpdateWithoutCartIsRejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(postForm("/cart/items/update", url.Values{"variant_id": {"v-chico"}, "qty": {"3"}}))
	if w.Code != nethttp.StatusFound || w.Header().Get("Location") != "/cart" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestNewsletterAndHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(postForm("/newsletter", url.Values{"email": {"carnal@example.com"}}))
	if w.Code != nethttp.StatusFound || w.Header().Get("Location") != "/#newsletter" {
		t.Fatalf("got %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(env.news.emails) != 1 {
		t.Fatalf("subscribed = %v", env.news.emails)
	}

	w = env.do(postForm("/newsletter", url.Values{"email": {"nope"}}))
	if w.Code != nethttp.StatusFound || len(env.news.emails) != 1 {
		t.Fatalf("invalid email accepted: %d", w.Code)
	}

	if w := env.do(httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)); w.Code != nethttp.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(nethttp.MethodGet, "/no-existe", nil))
	if w.Code != nethttp.StatusNotFound || !strings.Contains(w.Body.String(), "La página que buscas no existe.") {
		t.Fatalf("got %d", w.Code)
	}
}
