package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// cmd/api で組み立てたハンドラ一式
type Handlers struct {
	UserRepo repository.UserRepository // ActiveUserGuard 用

	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	AdminUser    *handler.AdminUserHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Review       *handler.ReviewHandler
	Wishlist     *handler.WishlistHandler
	Upload       *handler.UploadHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)

	h.Auth.RegisterRoutes(e, cfg, h.UserRepo)
	h.AdminUser.RegisterRoutes(e, cfg, h.UserRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, h.UserRepo)
	h.Cart.RegisterRoutes(e, cfg, h.UserRepo)
	h.Order.RegisterRoutes(e, cfg, h.UserRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, h.UserRepo)
	h.Review.RegisterRoutes(e, cfg, h.UserRepo)
	h.Wishlist.RegisterRoutes(e, cfg, h.UserRepo)
	h.Upload.RegisterRoutes(e, cfg, h.UserRepo)
}
