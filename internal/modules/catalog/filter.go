package catalog

// ProductsInCollection keeps the products referenced by c, in catalog order.
// References to products that are not in the list are ignored.
func ProductsInCollection(items []Product, c Collection) []Product {
	if len(c.ProductIDs) == 0 {
		return []Product{}
	}
	member := make(map[string]struct{}, len(c.ProductIDs))
	for _, id := range c.ProductIDs {
		member[id] = struct{}{}
	}
	out := make([]Product, 0, len(c.ProductIDs))
	for _, p := range items {
		if _, ok := member[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func FindCollection(cols []Collection, id string) (Collection, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}
