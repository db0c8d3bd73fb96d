package seed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"loscarnales.mx/storefront/internal/modules/collections"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/storage"
)

const uploadConcurrency = 4

type ProductWriter interface {
	ReplaceProduct(ctx context.Context, in products.ProductInput) (products.Product, error)
}

type CollectionWriter interface {
	Replace(ctx context.Context, in collections.Input) (collections.Collection, error)
}

// Seeder writes a catalog document: images go to Images, records to the
// writers. Local image paths are read from Assets.
type Seeder struct {
	Products    ProductWriter
	Collections CollectionWriter
	Images      storage.Storage
	Assets      fs.FS
	Log         *slog.Logger
}

type Summary struct {
	Products    int
	Variants    int
	Images      int
	Collections int
}

func (s *Seeder) Run(ctx context.Context, f File) (Summary, error) {
	if err := f.Validate(); err != nil {
		return Summary{}, err
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	var sum Summary
	ids := make(map[string]string, len(f.Products))
	for _, doc := range f.Products {
		in, uploaded, err := s.productInput(ctx, doc, f.Currency)
		if err != nil {
			return sum, err
		}
		p, err := s.Products.ReplaceProduct(ctx, in)
		if err != nil {
			if products.IsDuplicateKey(err) {
				return sum, fmt.Errorf("product %q: sku already used by another product: %w", doc.Slug, err)
			}
			return sum, fmt.Errorf("product %q: %w", doc.Slug, err)
		}
		ids[doc.Slug] = p.ID
		sum.Products++
		sum.Variants += len(in.Variants)
		sum.Images += uploaded
		log.Info("product_seeded",
			slog.String("slug", doc.Slug),
			slog.Int("variants", len(in.Variants)),
			slog.Int("images", len(in.Images)),
		)
	}

	for i, doc := range f.Collections {
		in := collections.Input{
			Slug:     doc.Slug,
			Name:     strings.TrimSpace(doc.Name),
			Featured: doc.Featured,
			Position: i,
		}
		if d := strings.TrimSpace(doc.Description); d != "" {
			in.Description = &d
		}
		if doc.Image != "" {
			img, _, err := s.image(ctx, "colecciones", doc.Image)
			if err != nil {
				return sum, fmt.Errorf("collection %q: %w", doc.Slug, err)
			}
			in.ImageURL = &img.URL
		}
		for _, ps := range doc.Products {
			in.ProductIDs = append(in.ProductIDs, ids[ps])
		}
		if _, err := s.Collections.Replace(ctx, in); err != nil {
			return sum, fmt.Errorf("collection %q: %w", doc.Slug, err)
		}
		sum.Collections++
		log.Info("collection_seeded", slog.String("slug", doc.Slug), slog.Int("products", len(in.ProductIDs)))
	}
	return sum, nil
}

func (s *Seeder) productInput(ctx context.Context, doc ProductDoc, currency string) (products.ProductInput, int, error) {
	in := products.ProductInput{
		Name:     strings.TrimSpace(doc.Name),
		Slug:     doc.Slug,
		Status:   doc.Status,
		Featured: doc.Featured,
	}
	if d := strings.TrimSpace(doc.Description); d != "" {
		in.Description = &d
	}
	for _, o := range doc.Options {
		in.Options = append(in.Options, products.OptionInput{
			Name:     strings.TrimSpace(o.Name),
			Values:   o.Values,
			Swatches: o.Swatches,
		})
	}

	// Product images and per-variant images upload in parallel.
	images := make([]products.ImageInput, len(doc.Images))
	variantImages := make([]*string, len(doc.Variants))
	uploads := make([]int, len(doc.Images)+len(doc.Variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, src := range doc.Images {
		g.Go(func() error {
			img, up, err := s.image(gctx, doc.Slug, src)
			if err != nil {
				return err
			}
			images[i] = products.ImageInput{StorageKey: img.Key, URL: img.URL}
			uploads[i] = up
			return nil
		})
	}
	for i, v := range doc.Variants {
		if v.Image == "" {
			continue
		}
		g.Go(func() error {
			img, up, err := s.image(gctx, doc.Slug, v.Image)
			if err != nil {
				return err
			}
			variantImages[i] = &img.URL
			uploads[len(doc.Images)+i] = up
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return products.ProductInput{}, 0, fmt.Errorf("product %q: %w", doc.Slug, err)
	}
	in.Images = images

	for i, v := range doc.Variants {
		price, err := ParseCents(v.Price)
		if err != nil {
			return products.ProductInput{}, 0, err
		}
		vi := products.VariantInput{
			SKU:        v.SKU,
			Options:    v.Options,
			PriceCents: price,
			Currency:   currency,
			Stock:      v.Stock,
			Available:  v.Available == nil || *v.Available,
			ImageURL:   variantImages[i],
		}
		if v.CompareAt != "" {
			c, err := ParseCents(v.CompareAt)
			if err != nil {
				return products.ProductInput{}, 0, err
			}
			vi.CompareAtCents = &c
		}
		in.Variants = append(in.Variants, vi)
	}

	n := 0
	for _, u := range uploads {
		n += u
	}
	return in, n, nil
}

// image resolves an image reference. Absolute URLs and site paths are kept
// as they are; anything else is a file in Assets and gets uploaded.
func (s *Seeder) image(ctx context.Context, folder, src string) (storage.Stored, int, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "/") {
		return storage.Stored{URL: src}, 0, nil
	}
	if s.Assets == nil || s.Images == nil {
		return storage.Stored{}, 0, fmt.Errorf("image %q: no asset source configured", src)
	}
	f, err := s.Assets.Open(path.Clean(src))
	if err != nil {
		return storage.Stored{}, 0, fmt.Errorf("image %q: %w", src, err)
	}
	defer f.Close()

	name := path.Base(src)
	st, err := s.Images.Put(ctx, f, storage.Object{
		Folder:      folder,
		Name:        name,
		ContentType: storage.ContentTypeFor(name),
	})
	if err != nil {
		return storage.Stored{}, 0, fmt.Errorf("image %q: %w", src, err)
	}
	return st, 1, nil
}
