package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"loscarnales.mx/storefront/internal/modules/collections"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/seed"
	"loscarnales.mx/storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "catalog/catalog.yaml", "catalog YAML document")
	dryRun := flag.Bool("dry-run", false, "validate the document without writing")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}
	doc, err := seed.Parse(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	if err := doc.Validate(); err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}
	if *dryRun {
		logger.Info("catalog_valid", slog.Int("products", len(doc.Products)), slog.Int("collections", len(doc.Collections)))
		return
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	images, err := storage.New(ctx, storage.ConfigFromEnv())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	s := &seed.Seeder{
		Products:    products.NewRepo(db),
		Collections: collections.NewRepo(db),
		Images:      images,
		Assets:      os.DirFS(filepath.Dir(*file)),
		Log:         logger,
	}
	sum, err := s.Run(ctx, doc)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	logger.Info("catalog_seeded",
		slog.Int("products", sum.Products),
		slog.Int("variants", sum.Variants),
		slog.Int("images", sum.Images),
		slog.Int("collections", sum.Collections),
	)
}
