package variants

import (
	"net/url"
	"strings"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

// Selection maps a dimension name to the chosen value. Partial selections are
// normal; values are never empty (an empty value means "not chosen").
type Selection map[string]string

// NewSelection copies raw, dropping blank entries.
func NewSelection(raw map[string]string) Selection {
	s := make(Selection, len(raw))
	for k, v := range raw {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		s[k] = v
	}
	return s
}

// With returns a new selection with dim set to value. An empty value clears
// dim. Other dimensions are left untouched, even if the result no longer
// matches any variant.
func (s Selection) With(dim, value string) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	if value == "" {
		delete(out, dim)
		return out
	}
	out[dim] = value
	return out
}

func (s Selection) Key() string {
	return catalog.CombinationKey(s)
}

// Query encodes the selection as opt[<dim>]=<value> pairs.
func (s Selection) Query() url.Values {
	q := url.Values{}
	for k, v := range s {
		q.Set("opt["+k+"]", v)
	}
	return q
}

// Complete reports whether every dimension of p has a value and nothing else
// is selected.
func (s Selection) Complete(p catalog.Product) bool {
	if len(s) != len(p.Options) {
		return false
	}
	for _, d := range p.Options {
		if _, ok := s[d.Name]; !ok {
			return false
		}
	}
	return true
}
