package variants

import (
	"strings"

	"github.com/shopspring/decimal"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

// Resolver derives everything a product card displays from a product and the
// shopper's current selection. Implementations are pure.
type Resolver interface {
	MatchingVariant(p catalog.Product, sel Selection) (catalog.Variant, bool)
	IsOptionValueAvailable(p catalog.Product, sel Selection, dim, value string) bool
	CurrentPrice(p catalog.Product, sel Selection) catalog.Money
	CurrentCompareAt(p catalog.Product, sel Selection) (catalog.Money, bool)
	DiscountPercentage(p catalog.Product, sel Selection) (int, bool)
	InStock(p catalog.Product, sel Selection) bool
	CanAddToCart(p catalog.Product, sel Selection) bool
	HandleOptionChange(sel Selection, dim, value string) Selection
	Resolve(p catalog.Product, sel Selection) Result
}

// Result is the resolver output for one (product, selection) pair.
// Results may be shared between callers and must be treated as read-only.
type Result struct {
	Selected     Selection
	Matching     catalog.Variant
	HasMatch     bool
	Options      []OptionState
	CurrentPrice catalog.Money
	CompareAt    catalog.Money
	HasCompareAt bool
	Discount     int
	HasDiscount  bool
	InStock      bool
	CanAddToCart bool
}

type OptionState struct {
	Dimension catalog.OptionDimension
	Values    []ValueState
}

type ValueState struct {
	Value     string
	Available bool
	Selected  bool
	// Dimmed is set on unselected values once the dimension has a selection.
	Dimmed bool
	Swatch string
}

type resolver struct{}

func New() Resolver { return resolver{} }

func (resolver) MatchingVariant(p catalog.Product, sel Selection) (catalog.Variant, bool) {
	if !sel.Complete(p) {
		return catalog.Variant{}, false
	}
	for _, v := range p.Variants {
		if sameOptions(v.Options, sel) {
			return v, true
		}
	}
	return catalog.Variant{}, false
}

func (resolver) IsOptionValueAvailable(p catalog.Product, sel Selection, dim, value string) bool {
	others := make(Selection, len(sel))
	for k, v := range sel {
		if k == dim {
			continue
		}
		if _, declared := p.Dimension(k); declared {
			others[k] = v
		}
	}
	// A stale combination (left over after an option change) must not hide
	// values that are purchasable on their own.
	if !anyInStock(p.Variants, others) {
		others = nil
	}
	for _, v := range p.Variants {
		if !v.InStock() || v.Options[dim] != value {
			continue
		}
		if agrees(v, others) {
			return true
		}
	}
	return false
}

func (r resolver) CurrentPrice(p catalog.Product, sel Selection) catalog.Money {
	if m, ok := r.MatchingVariant(p, sel); ok {
		return m.Price
	}
	if v, ok := lowestPriced(p.Variants); ok {
		return v.Price
	}
	return 0
}

func (r resolver) CurrentCompareAt(p catalog.Product, sel Selection) (catalog.Money, bool) {
	v, ok := r.MatchingVariant(p, sel)
	if !ok {
		v, ok = lowestPriced(p.Variants)
	}
	if !ok || v.CompareAt == nil {
		return 0, false
	}
	return *v.CompareAt, true
}

func (r resolver) DiscountPercentage(p catalog.Product, sel Selection) (int, bool) {
	compareAt, ok := r.CurrentCompareAt(p, sel)
	if !ok {
		return 0, false
	}
	return Discount(r.CurrentPrice(p, sel), compareAt)
}

func (r resolver) InStock(p catalog.Product, sel Selection) bool {
	if m, ok := r.MatchingVariant(p, sel); ok {
		return m.InStock()
	}
	if sel.Complete(p) {
		return false
	}
	return anyInStock(p.Variants, nil)
}

func (r resolver) CanAddToCart(p catalog.Product, sel Selection) bool {
	m, ok := r.MatchingVariant(p, sel)
	return ok && m.InStock()
}

func (resolver) HandleOptionChange(sel Selection, dim, value string) Selection {
	return sel.With(dim, value)
}

func (r resolver) Resolve(p catalog.Product, sel Selection) Result {
	sel = NewSelection(sel)
	res := Result{Selected: sel}

	res.Matching, res.HasMatch = r.MatchingVariant(p, sel)
	res.CurrentPrice = r.CurrentPrice(p, sel)
	res.CompareAt, res.HasCompareAt = r.CurrentCompareAt(p, sel)
	if res.HasCompareAt {
		res.Discount, res.HasDiscount = Discount(res.CurrentPrice, res.CompareAt)
	}
	res.InStock = r.InStock(p, sel)
	res.CanAddToCart = res.HasMatch && res.Matching.InStock()

	res.Options = make([]OptionState, 0, len(p.Options))
	for _, d := range p.Options {
		st := OptionState{Dimension: d, Values: make([]ValueState, 0, len(d.Values))}
		chosen, hasChoice := sel[d.Name]
		for _, val := range d.Values {
			vs := ValueState{
				Value:     val,
				Available: r.IsOptionValueAvailable(p, sel, d.Name, val),
				Selected:  hasChoice && chosen == val,
			}
			vs.Dimmed = hasChoice && !vs.Selected
			if strings.EqualFold(d.Name, "color") {
				vs.Swatch, _ = d.Swatch(val)
			}
			st.Values = append(st.Values, vs)
		}
		res.Options = append(res.Options, st)
	}
	return res
}

// Discount returns round((compareAt-price)/compareAt*100), halves away from
// zero. ok is false unless compareAt > price.
func Discount(price, compareAt catalog.Money) (int, bool) {
	if compareAt <= price || compareAt <= 0 {
		return 0, false
	}
	c := decimal.NewFromInt(int64(compareAt))
	pct := c.Sub(decimal.NewFromInt(int64(price))).
		Div(c).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart()), true
}

func sameOptions(opts map[string]string, sel Selection) bool {
	if len(opts) != len(sel) {
		return false
	}
	for k, v := range sel {
		if opts[k] != v {
			return false
		}
	}
	return true
}

func agrees(v catalog.Variant, sel Selection) bool {
	for k, want := range sel {
		if v.Options[k] != want {
			return false
		}
	}
	return true
}

func anyInStock(vs []catalog.Variant, sel Selection) bool {
	for _, v := range vs {
		if v.InStock() && agrees(v, sel) {
			return true
		}
	}
	return false
}

// lowestPriced picks the cheapest variant; ties keep catalog order.
func lowestPriced(vs []catalog.Variant) (catalog.Variant, bool) {
	if len(vs) == 0 {
		return catalog.Variant{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if v.Price < best.Price {
			best = v
		}
	}
	return best, true
}
