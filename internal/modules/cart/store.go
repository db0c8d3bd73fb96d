package cart

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/shared"
)

// MaxQty is the most units of one variant a cart line can hold.
const MaxQty = 99

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes a committed mutation. TotalKnown is false when the cart
// could not be recounted afterwards; TotalItems is then meaningless.
type Event struct {
	Kind       EventKind
	CartID     string
	VariantID  string
	Qty        int
	TotalItems int
	TotalKnown bool
}

type Listener func(ctx context.Context, ev Event)

// Store owns cart state. Mutations go through the repository and, once
// committed, are published to every subscriber in registration order.
type Store struct {
	repo     Repository
	currency string
	log      *slog.Logger

	mu        sync.RWMutex
	nextID    int
	order     []int
	listeners map[int]Listener
}

func NewStore(repo Repository, currency string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		repo:      repo,
		currency:  strings.ToUpper(strings.TrimSpace(currency)),
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) publish(ctx context.Context, ev Event) {
	s.mu.RLock()
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, l := range ls {
		l(ctx, ev)
	}
}

func (s *Store) NewCart(ctx context.Context) (string, error) {
	return s.repo.CreateCart(ctx)
}

// Add puts qty more units of the variant in the cart. The resulting line is
// capped at MaxQty and at the variant's tracked stock.
func (s *Store) Add(ctx context.Context, cartID, variantID string, qty int) (Event, error) {
	if cartID == "" {
		return Event{}, ErrMissingCart
	}
	if qty < 1 {
		return Event{}, ErrInvalidQuantity
	}
	stock, err := s.repo.Variant(ctx, variantID)
	if err != nil {
		return Event{}, err
	}
	next, err := s.repo.Mutate(ctx, cartID, variantID, func(current int) (int, error) {
		n := clamp(current + qty)
		return n, checkStock(stock, n)
	})
	if err != nil {
		return Event{}, err
	}
	return s.committed(ctx, EventAdded, cartID, variantID, next), nil
}

// UpdateQty sets the line quantity; zero or less removes the line.
func (s *Store) UpdateQty(ctx context.Context, cartID, variantID string, qty int) (Event, error) {
	if cartID == "" {
		return Event{}, ErrMissingCart
	}
	want := clamp(qty)
	var stock VariantStock
	if want > 0 {
		var err error
		if stock, err = s.repo.Variant(ctx, variantID); err != nil {
			return Event{}, err
		}
	}
	next, err := s.repo.Mutate(ctx, cartID, variantID, func(current int) (int, error) {
		if current == 0 {
			return 0, ErrItemNotFound
		}
		if want == 0 {
			return 0, nil
		}
		return want, checkStock(stock, want)
	})
	if err != nil {
		return Event{}, err
	}
	kind := EventUpdated
	if next == 0 {
		kind = EventRemoved
	}
	return s.committed(ctx, kind, cartID, variantID, next), nil
}

func (s *Store) Remove(ctx context.Context, cartID, variantID string) (Event, error) {
	if cartID == "" {
		return Event{}, ErrMissingCart
	}
	_, err := s.repo.Mutate(ctx, cartID, variantID, func(current int) (int, error) {
		if current == 0 {
			return 0, ErrItemNotFound
		}
		return 0, nil
	})
	if err != nil {
		return Event{}, err
	}
	return s.committed(ctx, EventRemoved, cartID, variantID, 0), nil
}

func (s *Store) Clear(ctx context.Context, cartID string) (Event, error) {
	if cartID == "" {
		return Event{}, ErrMissingCart
	}
	if err := s.repo.Clear(ctx, cartID); err != nil {
		return Event{}, err
	}
	ev := Event{Kind: EventCleared, CartID: cartID, TotalKnown: true}
	s.publish(ctx, ev)
	return ev, nil
}

func (s *Store) TotalItems(ctx context.Context, cartID string) (int, error) {
	if cartID == "" {
		return 0, nil
	}
	lines, err := s.repo.Lines(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return totalQty(lines), nil
}

// Page builds the cart view. Lines must share one currency.
func (s *Store) Page(ctx context.Context, cartID string) (view.CartPage, error) {
	vm := view.CartPage{Items: []view.CartItem{}, Currency: s.currency}
	if cartID == "" {
		vm.Subtotal = shared.FormatMoney(vm.Currency, 0)
		return vm, nil
	}
	lines, err := s.repo.Lines(ctx, cartID)
	if err != nil {
		return view.CartPage{}, err
	}

	cur := ""
	for _, ln := range lines {
		if ln.Qty <= 0 {
			continue
		}
		lc := strings.ToUpper(strings.TrimSpace(ln.Currency))
		if lc == "" {
			lc = s.currency
		}
		if cur == "" {
			cur = lc
		} else if lc != cur {
			return view.CartPage{}, ErrMixedCurrency
		}

		line := ln.PriceCents * int64(ln.Qty)
		maxQty := MaxQty
		if ln.Stock != nil && *ln.Stock < maxQty {
			maxQty = *ln.Stock
		}
		vm.Items = append(vm.Items, view.CartItem{
			ProductName:    ln.ProductName,
			ProductSlug:    ln.ProductSlug,
			ImageURL:       ln.ImageURL,
			VariantID:      ln.VariantID,
			VariantName:    variantName(ln.Options.Data()),
			Qty:            ln.Qty,
			MaxQty:         maxQty,
			UnitPriceCents: ln.PriceCents,
			LineTotalCents: line,
			UnitPrice:      shared.FormatMoney(lc, ln.PriceCents),
			LineTotal:      shared.FormatMoney(lc, line),
		})
		vm.Count += ln.Qty
		vm.SubtotalCents += line
	}
	if cur != "" {
		vm.Currency = cur
	}
	vm.Subtotal = shared.FormatMoney(vm.Currency, vm.SubtotalCents)
	return vm, nil
}

// committed recounts the cart and publishes the mutation.
func (s *Store) committed(ctx context.Context, kind EventKind, cartID, variantID string, qty int) Event {
	ev := Event{Kind: kind, CartID: cartID, VariantID: variantID, Qty: qty}
	total, err := s.TotalItems(ctx, cartID)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "cart_total_failed",
			slog.String("cart_id", cartID),
			slog.Any("err", err),
		)
	} else {
		ev.TotalItems, ev.TotalKnown = total, true
	}
	s.publish(ctx, ev)
	return ev
}

func checkStock(v VariantStock, want int) error {
	if !v.InStock() {
		return &OutOfStockError{VariantID: v.ID, Requested: want, Available: 0}
	}
	if v.Stock != nil && want > *v.Stock {
		return &OutOfStockError{VariantID: v.ID, Requested: want, Available: *v.Stock}
	}
	return nil
}

// AuditLogger logs every cart event.
func AuditLogger(log *slog.Logger) Listener {
	return func(ctx context.Context, ev Event) {
		log.LogAttrs(ctx, slog.LevelInfo, "cart_event",
			slog.String("kind", string(ev.Kind)),
			slog.String("cart_id", ev.CartID),
			slog.String("variant_id", ev.VariantID),
			slog.Int("qty", ev.Qty),
			slog.Int("total_items", ev.TotalItems),
			slog.Bool("total_known", ev.TotalKnown),
		)
	}
}

func clamp(q int) int {
	if q < 0 {
		return 0
	}
	if q > MaxQty {
		return MaxQty
	}
	return q
}

func totalQty(lines []Line) int {
	n := 0
	for _, ln := range lines {
		if ln.Qty > 0 {
			n += ln.Qty
		}
	}
	return n
}

// variantName joins option values ordered by dimension name ("Chico / Rojo").
func variantName(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, opts[k])
	}
	return strings.Join(vals, " / ")
}
