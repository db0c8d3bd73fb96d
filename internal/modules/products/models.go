package products

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive = "active"
	StatusDraft  = "draft"
)

type Product struct {
	ID          string  `gorm:"primaryKey;type:char(36)"`
	Name        string  `gorm:"size:255;not null"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex:ux_products_slug"`
	Description *string `gorm:"type:text"`
	Status      string  `gorm:"size:16;not null;default:draft"`
	Featured    bool    `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Options  []Option  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images   []Image   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// Option is one variation axis ("Tamaño", "Color") with its ordered values.
type Option struct {
	ID        string                                `gorm:"primaryKey;type:char(36)"`
	ProductID string                                `gorm:"type:char(36);not null;index:ix_product_options_product"`
	Name      string                                `gorm:"size:64;not null"`
	Position  int                                   `gorm:"not null;default:0"`
	Values    datatypes.JSONSlice[string]           `gorm:"column:values_json;type:json;not null"`
	Swatches  datatypes.JSONType[map[string]string] `gorm:"column:swatches_json;type:json"`
	CreatedAt time.Time
}

func (Option) TableName() string { return "product_options" }

type Variant struct {
	ID             string                                `gorm:"primaryKey;type:char(36)"`
	ProductID      string                                `gorm:"type:char(36);not null;index:ix_product_variants_product"`
	SKU            string                                `gorm:"size:64;not null;uniqueIndex:ux_product_variants_sku"`
	Options        datatypes.JSONType[map[string]string] `gorm:"column:options_json;type:json;not null"`
	PriceCents     int                                   `gorm:"not null"`
	CompareAtCents *int
	Currency       string  `gorm:"type:char(3);not null;default:MXN"`
	Stock          *int    // NULL: no inventory tracking
	Available      bool    `gorm:"not null;default:true"`
	ImageURL       *string `gorm:"size:512"`
	Position       int     `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Variant) TableName() string { return "product_variants" }

type Image struct {
	ID         string `gorm:"primaryKey;type:char(36)"`
	ProductID  string `gorm:"type:char(36);not null;index:ix_product_images_product"`
	StorageKey string `gorm:"size:512;not null"`
	URL        string `gorm:"size:512;not null"`
	Position   int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

func (Image) TableName() string { return "product_images" }
