package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/infra/db"
	"app/internal/infra/memory"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/metrics"
	"app/internal/seed"
	"app/internal/server"
	auth "app/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	// .env は無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	//画像ストレージ（未設定なら無効）
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		deps.Images = cld
	}

	m := metrics.New()
	e := server.New(cfg, m, server.BuildHandlers(cfg, deps, m))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.Logger.Infof("listening on :%s (store=%s)", cfg.Port, cfg.DBDriver)
	if err := server.Start(ctx, e, ":"+cfg.Port); err != nil {
		e.Logger.Fatal(err)
	}
}

// DB_DRIVER に応じてリポジトリを組み立てる
func buildDeps(cfg config.Config) (server.Deps, error) {
	if cfg.DBDriver == "memory" {
		return memoryDeps(cfg)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return server.Deps{}, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return server.Deps{}, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return server.Deps{}, err
	}

	return server.Deps{
		Users:     infraRepo.NewUserGormRepository(gormDB),
		Products:  infraRepo.NewProductGormRepository(gormDB),
		CartItems: infraRepo.NewCartGormRepository(gormDB),
		Wishlist:  infraRepo.NewWishlistGormRepository(gormDB),
		Reviews:   infraRepo.NewReviewGormRepository(gormDB),
		AuditLogs: infraRepo.NewAuditLogGormRepository(gormDB),
		Tx:        infraRepo.NewTxManagerGorm(gormDB),
		Ping:      sqlDB.PingContext,
	}, nil
}

// memory はプロセス内だけ。SEED_ADMIN_PASSWORD があれば管理者と商品を入れる
func memoryDeps(cfg config.Config) (server.Deps, error) {
	store := memory.NewStore()

	if cfg.SeedAdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		hasher := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
		if _, err := seed.Admin(ctx, store.Users(), hasher, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return server.Deps{}, err
		}

		items, err := seed.FetchProducts(ctx, &http.Client{Timeout: 10 * time.Second}, cfg.SeedProductsURL)
		if err != nil {
			//商品が無くても起動はする
			log.Warnf("seed products skipped: %v", err)
		} else if _, err := seed.Products(ctx, store.Products(), items); err != nil {
			return server.Deps{}, err
		}
	}

	return server.Deps{
		Users:     store.Users(),
		Products:  store.Products(),
		CartItems: store.CartItems(),
		Wishlist:  store.Wishlist(),
		Reviews:   store.Reviews(),
		AuditLogs: store.AuditLogs(),
		Tx:        store,
	}, nil
}
