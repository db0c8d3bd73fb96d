package products

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"loscarnales.mx/storefront/internal/modules/catalog"
)

var ErrNotFound = errors.New("product not found")

// Service serves catalog records to the storefront. Variants that break the
// catalog invariants are dropped here, with a warning, so views never see them.
type Service struct {
	repo     Repository
	log      *slog.Logger
	currency string
}

func NewService(repo Repository, log *slog.Logger, currency string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, currency: strings.ToUpper(currency)}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]catalog.Product, error) {
	rows, err := s.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.sanitize(ctx, ToCatalog(r, s.currency)))
	}
	return out, nil
}

func (s *Service) Detail(ctx context.Context, slug string) (catalog.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return catalog.Product{}, ErrNotFound
	}
	row, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Product{}, ErrNotFound
		}
		return catalog.Product{}, err
	}
	return s.sanitize(ctx, ToCatalog(row, s.currency)), nil
}

func (s *Service) sanitize(ctx context.Context, p catalog.Product) catalog.Product {
	clean, dropped := p.Sanitized()
	for _, err := range dropped {
		s.log.LogAttrs(ctx, slog.LevelWarn, "variant_dropped",
			slog.String("product_id", p.ID),
			slog.String("slug", p.Slug),
			slog.Any("err", err),
		)
	}
	return clean
}
