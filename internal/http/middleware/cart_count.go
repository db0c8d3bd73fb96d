package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"loscarnales.mx/storefront/internal/http/cartcookie"
	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/pkg/view"
)

const (
	cartCountKey    = "cart_count"
	CtxKeyCartID    = "cart_id"
	defaultBadgeLRU = 10_000
)

type CartCounter interface {
	TotalItems(ctx context.Context, cartID string) (int, error)
}

// BadgeCounts caches the item total per cart for the header badge. The cart
// store keeps entries current through Listener; misses ask the store.
type BadgeCounts struct {
	store  CartCounter
	counts *lru.Cache[string, int]
	log    *slog.Logger
}

func NewBadgeCounts(store CartCounter, size int, log *slog.Logger) (*BadgeCounts, error) {
	if size <= 0 {
		size = defaultBadgeLRU
	}
	c, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &BadgeCounts{store: store, counts: c, log: log}, nil
}

// Listener is subscribed to the cart store. An event without a known total
// evicts the entry so the next request recounts.
func (b *BadgeCounts) Listener() cart.Listener {
	return func(_ context.Context, ev cart.Event) {
		if !ev.TotalKnown {
			b.counts.Remove(ev.CartID)
			return
		}
		b.counts.Add(ev.CartID, ev.TotalItems)
	}
}

func (b *BadgeCounts) Count(ctx context.Context, cartID string) int {
	if cartID == "" {
		return 0
	}
	if n, ok := b.counts.Get(cartID); ok {
		return n
	}
	n, err := b.store.TotalItems(ctx, cartID)
	if err != nil {
		b.log.LogAttrs(ctx, slog.LevelWarn, "cart_count_failed",
			slog.String("cart_id", cartID),
			slog.Any("err", err),
		)
		return 0
	}
	b.counts.Add(cartID, n)
	return n
}

// CartCount resolves the guest cart from its signed cookie and puts the cart
// id and item total in the context for the header.
func CartCount(ck *cartcookie.Codec, counts *BadgeCounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := 0
		if id, ok := ck.GetCartID(c); ok {
			c.Set(CtxKeyCartID, id)
			n = counts.Count(c.Request.Context(), id)
		}
		c.Set(cartCountKey, n)
		c.Next()
	}
}

func GetCartID(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyCartID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func SetCartCount(c *gin.Context, n int) {
	c.Set(cartCountKey, n)
}

func GetCartCount(c *gin.Context) int {
	v, ok := c.Get(cartCountKey)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}

func BuildHeaderCtx(c *gin.Context) view.HeaderCtx {
	return view.HeaderCtx{
		ShowCart:   true,
		CartCount:  GetCartCount(c),
		RequestID:  GetRequestID(c),
		ActivePath: c.Request.URL.Path,
	}
}
