package collections

import "time"

type Collection struct {
	ID          string  `gorm:"primaryKey;type:char(36)"`
	Slug        string  `gorm:"size:255;not null;uniqueIndex:ux_collections_slug"`
	Name        string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	ImageURL    *string `gorm:"size:512"`
	Featured    bool    `gorm:"not null;default:false"`
	Position    int     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []CollectionProduct `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

func (Collection) TableName() string { return "collections" }

// CollectionProduct references a product; the product may since have been
// removed, in which case the reference is ignored when rendering.
type CollectionProduct struct {
	CollectionID string `gorm:"primaryKey;type:char(36)"`
	ProductID    string `gorm:"primaryKey;type:char(36);index:ix_collection_products_product"`
	Position     int    `gorm:"not null;default:0"`
}

func (CollectionProduct) TableName() string { return "collection_products" }
