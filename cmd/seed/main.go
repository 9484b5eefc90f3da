package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/seed"
	auth "app/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// 使い方:
//
//	go run ./cmd/seed                 管理者 + FakeStoreAPI の商品
//	go run ./cmd/seed -url <url>      別のAPIから
//	go run ./cmd/seed -clear          商品を全部消す
func main() {
	clearAll := flag.Bool("clear", false, "delete all products")
	apiURL := flag.String("url", "", "products API url (FakeStoreAPI compatible)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *apiURL == "" {
		*apiURL = cfg.SeedProductsURL
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	products := infraRepo.NewProductGormRepository(gormDB)

	if *clearAll {
		n, err := seed.ClearProducts(ctx, products)
		if err != nil {
			log.Fatalf("clear: %v", err)
		}
		log.Infof("deleted %d products", n)
		return
	}

	if cfg.SeedAdminPassword != "" {
		hasher := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
		created, err := seed.Admin(ctx, infraRepo.NewUserGormRepository(gormDB), hasher, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			log.Fatalf("admin: %v", err)
		}
		if created {
			log.Infof("admin created: %s", cfg.SeedAdminEmail)
		}
	}

	items, err := seed.FetchProducts(ctx, &http.Client{Timeout: 10 * time.Second}, *apiURL)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	added, err := seed.Products(ctx, products, items)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Infof("fetched %d products, added %d", len(items), added)
}
