package slug

import "testing"

func TestFromName(t *testing.T) {
	tests := map[string]string{
		"Chile Limón":       "chile-limon",
		"  Salsa   Macha  ": "salsa-macha",
		"":                  "producto",
		"!!!":               "producto",
	}
	for in, want := range tests {
		if got := FromName(in); got != want {
			t.Fatalf("FromName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("chile-limon") || Valid("Chile Limón") {
		t.Fatal("Valid() misclassified slugs")
	}
}
