package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidVariant   = errors.New("invalid variant")
	ErrDuplicateVariant = errors.New("duplicate variant combination")
)

// ValidateVariant checks a variant against the product's declared dimensions:
// one declared value per dimension, nothing undeclared.
func (p Product) ValidateVariant(v Variant) error {
	if len(v.Options) != len(p.Options) {
		return fmt.Errorf("%w: %s has %d options, product declares %d", ErrInvalidVariant, v.ID, len(v.Options), len(p.Options))
	}
	for name, value := range v.Options {
		d, ok := p.Dimension(name)
		if !ok {
			return fmt.Errorf("%w: %s references unknown dimension %q", ErrInvalidVariant, v.ID, name)
		}
		if !d.HasValue(value) {
			return fmt.Errorf("%w: %s uses undeclared value %q for %q", ErrInvalidVariant, v.ID, value, name)
		}
	}
	if v.Price < 0 {
		return fmt.Errorf("%w: %s has negative price", ErrInvalidVariant, v.ID)
	}
	return nil
}

// Validate reports every broken variant invariant, joined.
func (p Product) Validate() error {
	var errs []error
	seen := make(map[string]string, len(p.Variants))
	for _, v := range p.Variants {
		if err := p.ValidateVariant(v); err != nil {
			errs = append(errs, err)
			continue
		}
		key := CombinationKey(v.Options)
		if prev, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%w: %s and %s share %q", ErrDuplicateVariant, prev, v.ID, key))
			continue
		}
		seen[key] = v.ID
	}
	return errors.Join(errs...)
}

// Sanitized returns a copy of p keeping only variants that satisfy the
// invariants, in order. Dropped variants are returned as errors.
func (p Product) Sanitized() (Product, []error) {
	var dropped []error
	kept := make([]Variant, 0, len(p.Variants))
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if err := p.ValidateVariant(v); err != nil {
			dropped = append(dropped, err)
			continue
		}
		key := CombinationKey(v.Options)
		if _, dup := seen[key]; dup {
			dropped = append(dropped, fmt.Errorf("%w: %s", ErrDuplicateVariant, v.ID))
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, v)
	}
	p.Variants = kept
	return p, dropped
}

// CombinationKey renders an option map deterministically ("Color=Rojo;Tamaño=Chico").
func CombinationKey(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(opts[k])
	}
	return b.String()
}
