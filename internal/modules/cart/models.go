package cart

import (
	"time"

	"gorm.io/datatypes"
)

const StatusOpen = "open"

type Cart struct {
	ID        string `gorm:"primaryKey;type:char(36)"`
	Status    string `gorm:"size:16;not null;default:open"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        string `gorm:"primaryKey;type:char(36)"`
	CartID    string `gorm:"type:char(36);not null;uniqueIndex:ux_cart_items_cart_variant,priority:1"`
	VariantID string `gorm:"type:char(36);not null;uniqueIndex:ux_cart_items_cart_variant,priority:2"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItem) TableName() string { return "cart_items" }

// Line is a cart item joined with its variant and product.
type Line struct {
	VariantID   string                                `gorm:"column:variant_id"`
	Qty         int                                   `gorm:"column:qty"`
	PriceCents  int64                                 `gorm:"column:price_cents"`
	Currency    string                                `gorm:"column:currency"`
	Options     datatypes.JSONType[map[string]string] `gorm:"column:options_json"`
	Stock       *int                                  `gorm:"column:stock"`
	ProductName string                                `gorm:"column:product_name"`
	ProductSlug string                                `gorm:"column:product_slug"`
	ImageURL    string                                `gorm:"column:image_url"`
}

// VariantStock is what the store needs to know before accepting a quantity.
type VariantStock struct {
	ID        string `gorm:"column:id"`
	Stock     *int   `gorm:"column:stock"`
	Available bool   `gorm:"column:available"`
}

func (v VariantStock) InStock() bool {
	if v.Stock == nil {
		return v.Available
	}
	return *v.Stock > 0
}
