package handlers

import (
	"context"

	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/internal/modules/catalog"
	"loscarnales.mx/storefront/pkg/view"
)

type ProductCatalog interface {
	List(ctx context.Context, limit, offset int) ([]catalog.Product, error)
	Detail(ctx context.Context, slug string) (catalog.Product, error)
}

type CollectionLister interface {
	List(ctx context.Context) ([]catalog.Collection, error)
}

type CartStore interface {
	NewCart(ctx context.Context) (string, error)
	Add(ctx context.Context, cartID, variantID string, qty int) (cart.Event, error)
	UpdateQty(ctx context.Context, cartID, variantID string, qty int) (cart.Event, error)
	Remove(ctx context.Context, cartID, variantID string) (cart.Event, error)
	Page(ctx context.Context, cartID string) (view.CartPage, error)
}

type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, email, source string) error
}
