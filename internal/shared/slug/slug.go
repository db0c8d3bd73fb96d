package slug

import (
	gslug "github.com/gosimple/slug"
)

// FromName builds a URL slug, folding accents ("Chile Limón" -> "chile-limon").
func FromName(s string) string {
	out := gslug.MakeLang(s, "es")
	if out == "" {
		return "producto"
	}
	return out
}

func Valid(s string) bool {
	return gslug.IsSlug(s)
}
