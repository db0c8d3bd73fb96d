package view

type CartItem struct {
	ProductName string
	ProductSlug string
	ImageURL    string
	VariantID   string
	VariantName string
	Qty         int
	MaxQty      int

	UnitPriceCents int64
	LineTotalCents int64
	UnitPrice      string
	LineTotal      string
}

type CartPage struct {
	Header HeaderCtx
	Flash  *Flash

	Items         []CartItem
	Currency      string
	Count         int
	SubtotalCents int64
	Subtotal      string
}

func (p CartPage) Empty() bool { return len(p.Items) == 0 }
