package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/internal/modules/collections"
	"loscarnales.mx/storefront/internal/modules/newsletter"
	"loscarnales.mx/storefront/internal/modules/products"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	tables := []any{
		&products.Product{},
		&products.Option{},
		&products.Variant{},
		&products.Image{},
		&collections.Collection{},
		&collections.CollectionProduct{},
		&cart.Cart{},
		&cart.CartItem{},
		&newsletter.Subscriber{},
	}
	if err := db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4").AutoMigrate(tables...); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// cart_items.variant_id has no gorm relation; the constraint is added here.
	if !db.Migrator().HasConstraint(&cart.CartItem{}, "fk_cart_items_variant") {
		err := db.Exec(`ALTER TABLE cart_items
		  ADD CONSTRAINT fk_cart_items_variant FOREIGN KEY (variant_id)
		  REFERENCES product_variants(id) ON DELETE CASCADE`).Error
		if err != nil {
			log.Fatalf("Failed to add cart_items constraint: %v", err)
		}
	}

	for _, t := range tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(t); err == nil {
			log.Printf("✓ %s ready", stmt.Schema.Table)
		}
	}
}
