package middleware

import (
	"errors"
	"net/http"

	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンのユーザーが今も存在して有効か確認する。
// roleはDBの値で上書きする。
func ActiveUserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			//DB障害は500
			if err != nil {
				c.Logger().Errorf("active user lookup: user_id=%d: %v", userID, err)
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			//停止ユーザー
			if !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}
