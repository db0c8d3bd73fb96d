package products

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repo is the write side used by the catalog seeding tool.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type OptionInput struct {
	Name     string
	Values   []string
	Swatches map[string]string
}

type VariantInput struct {
	SKU            string
	Options        map[string]string
	PriceCents     int
	CompareAtCents *int
	Currency       string
	Stock          *int
	Available      bool
	ImageURL       *string
}

type ImageInput struct {
	StorageKey string
	URL        string
}

type ProductInput struct {
	Name        string
	Slug        string
	Description *string
	Status      string
	Featured    bool
	Options     []OptionInput
	Variants    []VariantInput
	Images      []ImageInput
}

// ReplaceProduct writes the product and all of its children, replacing any
// existing product with the same slug in one transaction.
func (r *Repo) ReplaceProduct(ctx context.Context, in ProductInput) (Product, error) {
	now := time.Now()
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Status:      status,
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, o := range in.Options {
		p.Options = append(p.Options, Option{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Name:      o.Name,
			Position:  i,
			Values:    datatypes.JSONSlice[string](o.Values),
			Swatches:  datatypes.NewJSONType(o.Swatches),
			CreatedAt: now,
		})
	}
	for i, v := range in.Variants {
		opts := v.Options
		if opts == nil {
			opts = map[string]string{}
		}
		p.Variants = append(p.Variants, Variant{
			ID:             uuid.NewString(),
			ProductID:      p.ID,
			SKU:            v.SKU,
			Options:        datatypes.NewJSONType(opts),
			PriceCents:     v.PriceCents,
			CompareAtCents: v.CompareAtCents,
			Currency:       v.Currency,
			Stock:          v.Stock,
			Available:      v.Available,
			ImageURL:       v.ImageURL,
			Position:       i,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	for i, im := range in.Images {
		p.Images = append(p.Images, Image{
			ID:         uuid.NewString(),
			ProductID:  p.ID,
			StorageKey: im.StorageKey,
			URL:        im.URL,
			Position:   i,
			CreatedAt:  now,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteBySlug(tx, in.Slug); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBySlug(tx, slug)
	})
}

func deleteBySlug(tx *gorm.DB, slug string) error {
	var ids []string
	if err := tx.Model(&Product{}).Where("slug = ?", slug).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	for _, m := range []any{&Option{}, &Variant{}, &Image{}} {
		if err := tx.Where("product_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&Product{}).Error
}

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
