package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/metrics"
	"app/internal/repository"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"
)

// Deps はストア実装（postgres / memory）ごとに差し替える部品
type Deps struct {
	Users     repository.UserRepository
	Products  repository.ProductRepository
	CartItems repository.CartItemRepository
	Wishlist  repository.WishlistRepository
	Reviews   repository.ReviewRepository
	AuditLogs repository.AuditLogRepository
	Tx        repository.TransactionManager

	Images usecase.ImageStore // nil ならアップロード無効
	Ping   handler.Pinger
}

// usecase → handler を組み立てる
func BuildHandlers(cfg config.Config, d Deps, m *metrics.Metrics) Handlers {
	productUC := usecase.NewProductUsecase(d.Products, d.Tx)
	userUC := usecase.NewUserUsecase(d.Users)

	hasher := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	registerUC := auth.NewRegisterUserUsecase(d.Users, hasher)
	loginUC := auth.NewLoginUsecase(d.Users, auth.NewPasswordVerifier(), issuer, auth.SystemClock{})

	return Handlers{
		UserRepo: d.Users,

		Health:       handler.NewHealthHandler(d.Ping),
		Auth:         handler.NewAuthHandler(registerUC, loginUC, userUC, m),
		AdminUser:    handler.NewAdminUserHandler(userUC),
		Product:      handler.NewProductHandler(productUC, m),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(usecase.NewCartUsecase(d.CartItems, d.Products)),
		Order:        handler.NewOrderHandler(usecase.NewOrderUsecase(d.Tx), m),
		AdminOrder:   handler.NewAdminOrderHandler(usecase.NewAdminOrderUsecase(d.Tx, d.AuditLogs)),
		Review:       handler.NewReviewHandler(usecase.NewReviewUsecase(d.Tx, d.Products, d.Reviews)),
		Wishlist:     handler.NewWishlistHandler(usecase.NewWishlistUsecase(d.Wishlist, d.Products)),
		Upload:       handler.NewUploadHandler(usecase.NewUploadUsecase(d.Images)),
	}
}
