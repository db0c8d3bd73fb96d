package view

// HeaderCtx carries the layout state shared by every storefront page.
type HeaderCtx struct {
	PageTitle  string
	ShowCart   bool
	CartCount  int
	RequestID  string
	ActivePath string
}

// CartBadge is the header badge text; empty when the cart is empty.
func (h HeaderCtx) CartBadge() string {
	return BadgeText(h.CartCount)
}

func BadgeText(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 99:
		return "99+"
	default:
		return itoa(n)
	}
}

type IndexPage struct {
	Header HeaderCtx
	Flash  *Flash

	Collections        []CollectionCardVM
	LoadingCollections bool

	Products []ProductCardVM
	Loading  bool

	SelectedCollectionID string
	ProductsTitle        string
	ShowAllHref          string
	FragmentHref         string
	SkeletonCount        int
}

// ShowCollections reports whether the collection grid is rendered at all.
func (p IndexPage) ShowCollections() bool {
	return !p.LoadingCollections && len(p.Collections) > 0
}

type ErrorPage struct {
	Header    HeaderCtx
	Flash     *Flash
	Status    int
	Title     string
	Message   string
	RequestID string
}
