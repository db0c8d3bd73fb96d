package variants

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

const DefaultCacheSize = 4096

// Cached memoises Resolve per (product id, product version, selection).
// UpdatedAt acts as the version, so edited products never hit stale entries.
type Cached struct {
	Resolver
	results *lru.Cache[string, Result]
}

func NewCached(inner Resolver, size int) (*Cached, error) {
	if inner == nil {
		inner = New()
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, Result](size)
	if err != nil {
		return nil, err
	}
	return &Cached{Resolver: inner, results: c}, nil
}

func (c *Cached) Resolve(p catalog.Product, sel Selection) Result {
	if p.ID == "" {
		return c.Resolver.Resolve(p, sel)
	}
	sel = NewSelection(sel)
	key := cacheKey(p, sel)
	if res, ok := c.results.Get(key); ok {
		res.Selected = sel
		return res
	}
	res := c.Resolver.Resolve(p, sel)
	c.results.Add(key, res)
	return res
}

func (c *Cached) MatchingVariant(p catalog.Product, sel Selection) (catalog.Variant, bool) {
	res := c.Resolve(p, sel)
	return res.Matching, res.HasMatch
}

func (c *Cached) InStock(p catalog.Product, sel Selection) bool {
	return c.Resolve(p, sel).InStock
}

func (c *Cached) CanAddToCart(p catalog.Product, sel Selection) bool {
	return c.Resolve(p, sel).CanAddToCart
}

func (c *Cached) Len() int { return c.results.Len() }

func cacheKey(p catalog.Product, sel Selection) string {
	return p.ID + "@" + strconv.FormatInt(p.UpdatedAt.UnixNano(), 36) + "|" + sel.Key()
}
