package view

// OptionValueVM is one selectable value of an option dimension on a card.
type OptionValueVM struct {
	Value string
	// Label is used for title and aria-label: "<dimension>: <value>".
	Label    string
	Href     string
	CardHref string
	Selected bool
	// Dimmed marks non-selected values once the dimension has a selection.
	Dimmed bool
	Swatch string
}

type OptionVM struct {
	Name   string
	Values []OptionValueVM
}

// SelectedOption is posted as opt[Name]=Value by the add-to-cart form.
type SelectedOption struct {
	Name  string
	Value string
}

type ProductCardVM struct {
	ID          string
	DOMID       string
	Slug        string
	Title       string
	Description string
	Href        string

	ImageURL string

	Featured    bool
	Discount    int
	HasDiscount bool
	InStock     bool

	Price     string
	CompareAt string

	HasVariants  bool
	Options      []OptionVM
	Selected     []SelectedOption
	VariantID    string
	CanAddToCart bool
	AddLabel     string
}

type ProductDetailPage struct {
	Header HeaderCtx
	Flash  *Flash
	Card   ProductCardVM
	Images []string
	SKU    string
}
