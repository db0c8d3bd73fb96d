package collections

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// List returns every collection in display order with its product references.
func (r *Repo) List(ctx context.Context) ([]catalog.Collection, error) {
	var rows []Collection
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Order("featured desc, position asc, name asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Collection, 0, len(rows))
	for _, c := range rows {
		out = append(out, ToCatalog(c))
	}
	return out, nil
}

type Input struct {
	Slug        string
	Name        string
	Description *string
	ImageURL    *string
	Featured    bool
	Position    int
	ProductIDs  []string
}

// Replace writes a collection and its product references, replacing any
// existing collection with the same slug.
func (r *Repo) Replace(ctx context.Context, in Input) (Collection, error) {
	now := time.Now()
	c := Collection{
		ID:          uuid.NewString(),
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Featured:    in.Featured,
		Position:    in.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, pid := range in.ProductIDs {
		c.Products = append(c.Products, CollectionProduct{CollectionID: c.ID, ProductID: pid, Position: i})
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&Collection{}).Where("slug = ?", in.Slug).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("collection_id IN ?", ids).Delete(&CollectionProduct{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&Collection{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&c).Error
	})
	if err != nil {
		return Collection{}, err
	}
	return c, nil
}

func ToCatalog(c Collection) catalog.Collection {
	out := catalog.Collection{
		ID:         c.ID,
		Slug:       c.Slug,
		Name:       c.Name,
		Featured:   c.Featured,
		ProductIDs: make([]string, 0, len(c.Products)),
	}
	if c.Description != nil && strings.TrimSpace(*c.Description) != "" {
		d := strings.TrimSpace(*c.Description)
		out.Description = &d
	}
	if c.ImageURL != nil && strings.TrimSpace(*c.ImageURL) != "" {
		u := strings.TrimSpace(*c.ImageURL)
		out.Image = &u
	}
	for _, p := range c.Products {
		out.ProductIDs = append(out.ProductIDs, p.ProductID)
	}
	return out
}
