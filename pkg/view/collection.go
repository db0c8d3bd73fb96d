package view

type CollectionCardVM struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Featured    bool
	// ProductsHref is where "Ver Productos" leads for this collection.
	ProductsHref string
}
