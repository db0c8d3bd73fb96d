package cart

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateCart(ctx context.Context) (string, error)
	Lines(ctx context.Context, cartID string) ([]Line, error)
	Variant(ctx context.Context, variantID string) (VariantStock, error)
	// Mutate locks the cart, hands fn the line's current quantity (0 when
	// absent) and stores what fn returns; 0 deletes the line.
	Mutate(ctx context.Context, cartID, variantID string, fn func(current int) (int, error)) (int, error)
	Clear(ctx context.Context, cartID string) error
}

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateCart(ctx context.Context) (string, error) {
	c := Cart{ID: uuid.NewString(), Status: StatusOpen}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return "", err
	}
	return c.ID, nil
}

const linesQuery = `
SELECT
  ci.variant_id  AS variant_id,
  ci.quantity    AS qty,
  v.price_cents  AS price_cents,
  v.currency     AS currency,
  v.options_json AS options_json,
  v.stock        AS stock,
  p.name         AS product_name,
  p.slug         AS product_slug,
  COALESCE(v.image_url, (
    SELECT pi.url FROM product_images pi
    WHERE pi.product_id = p.id
    ORDER BY pi.position ASC
    LIMIT 1
  ), '') AS image_url
FROM cart_items ci
JOIN product_variants v ON v.id = ci.variant_id
JOIN products p ON p.id = v.product_id
WHERE ci.cart_id = ?
ORDER BY ci.created_at ASC, ci.id ASC;
`

// Lines returns the cart's items; items whose variant no longer exists are
// not returned.
func (r *Repo) Lines(ctx context.Context, cartID string) ([]Line, error) {
	var rows []Line
	err := r.db.WithContext(ctx).Raw(linesQuery, cartID).Scan(&rows).Error
	return rows, err
}

func (r *Repo) Variant(ctx context.Context, variantID string) (VariantStock, error) {
	var v VariantStock
	err := r.db.WithContext(ctx).
		Table("product_variants").
		Select("id, stock, available").
		Where("id = ?", variantID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return VariantStock{}, ErrVariantNotFound
	}
	return v, err
}

func (r *Repo) Mutate(ctx context.Context, cartID, variantID string, fn func(current int) (int, error)) (int, error) {
	var next int
	err := withTxRetry(ctx, r.db, 3, func(tx *gorm.DB) error {
		// Concurrent mutations of one cart queue on the cart row.
		var c Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", cartID).
			Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissingCart
		}
		if err != nil {
			return err
		}

		current := 0
		var item CartItem
		err = tx.Where("cart_id = ? AND variant_id = ?", cartID, variantID).Take(&item).Error
		switch {
		case err == nil:
			current = item.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		n, err := fn(current)
		if err != nil {
			return err
		}
		if err := writeQty(tx, cartID, variantID, n); err != nil {
			return err
		}
		next = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// writeQty upserts the item; qty <= 0 deletes it.
func writeQty(tx *gorm.DB, cartID, variantID string, qty int) error {
	if qty <= 0 {
		if err := tx.Where("cart_id = ? AND variant_id = ?", cartID, variantID).
			Delete(&CartItem{}).Error; err != nil {
			return err
		}
	} else {
		item := CartItem{
			ID:        uuid.NewString(),
			CartID:    cartID,
			VariantID: variantID,
			Quantity:  qty,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&item).Error; err != nil {
			return err
		}
	}
	return tx.Model(&Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now()).Error
}

func (r *Repo) Clear(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}

func withTxRetry(ctx context.Context, db *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(50*(i+1)) * time.Millisecond):
		}
	}
	return lastErr
}

// isRetryable reports deadlocks (1213) and lock wait timeouts (1205).
func isRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
