package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context, skip int, limit int) ([]model.User, error) {
	args := m.Called(ctx, skip, limit)
	us, _ := args.Get(0).([]model.User)
	return us, args.Error(1)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

const secret = "test-secret"

func mustMakeJWT(t *testing.T, key string, sub int64, role string, exp time.Time, method jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func okHandler(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: userID, Role: role})
}

func runRequest(t *testing.T, e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r.Error
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: secret}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "bad scheme", header: "Token abc.def.ghi"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "bad signature", header: "Bearer " + mustMakeJWT(t, "wrong-secret", 1, "USER", future, jwt.SigningMethodHS256)},
		{name: "wrong alg", header: "Bearer " + mustMakeJWT(t, secret, 1, "USER", future, jwt.SigningMethodHS512)},
		{name: "expired", header: "Bearer " + mustMakeJWT(t, secret, 1, "USER", time.Now().Add(-time.Minute), jwt.SigningMethodHS256)},
		{name: "no role", header: "Bearer " + mustMakeJWT(t, secret, 1, "", future, jwt.SigningMethodHS256)},
		{name: "zero sub", header: "Bearer " + mustMakeJWT(t, secret, 0, "USER", future, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

			rec := runRequest(t, e, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeError(t, rec))
		})
	}
}

func TestAuthJWT_SetsContext(t *testing.T) {
	cfg := config.Config{JWTSecret: secret}
	e := echo.New()
	e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, secret, 123, "USER", time.Now().Add(time.Hour), jwt.SigningMethodHS256)
	rec := runRequest(t, e, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "USER", body.Role)
}

func TestActiveUserGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: secret}
	raw := mustMakeJWT(t, secret, 1, "ADMIN", time.Now().Add(time.Hour), jwt.SigningMethodHS256)

	t.Run("missing context", func(t *testing.T) {
		e := echo.New()
		userRepo := new(MockUserRepo)
		e.GET("/protected", okHandler, middleware.ActiveUserGuard(userRepo))

		rec := runRequest(t, e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("user deleted", func(t *testing.T) {
		e := echo.New()
		userRepo := new(MockUserRepo)
		userRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
		e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo))

		rec := runRequest(t, e, "Bearer "+raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		userRepo.AssertExpectations(t)
	})

	t.Run("db error", func(t *testing.T) {
		e := echo.New()
		userRepo := new(MockUserRepo)
		userRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, errors.New("connection refused"))
		e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo))

		rec := runRequest(t, e, "Bearer "+raw)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal error")
		userRepo.AssertExpectations(t)
	})

	t.Run("inactive", func(t *testing.T) {
		e := echo.New()
		userRepo := new(MockUserRepo)
		userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleUser, IsActive: false}, nil)
		e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo))

		rec := runRequest(t, e, "Bearer "+raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		userRepo.AssertExpectations(t)
	})

	// 降格済みならDBのroleが優先
	t.Run("role from db", func(t *testing.T) {
		e := echo.New()
		userRepo := new(MockUserRepo)
		userRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleUser, IsActive: true}, nil)
		e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.ActiveUserGuard(userRepo))

		rec := runRequest(t, e, "Bearer "+raw)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body mwOKResponse
		_ = json.NewDecoder(rec.Body).Decode(&body)
		assert.Equal(t, "USER", body.Role)
	})
}

func TestAdminRoleGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: secret}
	future := time.Now().Add(time.Hour)

	newEcho := func() *echo.Echo {
		e := echo.New()
		e.GET("/protected", okHandler, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())
		return e
	}

	t.Run("user forbidden", func(t *testing.T) {
		rec := runRequest(t, newEcho(), "Bearer "+mustMakeJWT(t, secret, 2, "USER", future, jwt.SigningMethodHS256))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "admin only", decodeError(t, rec))
	})

	t.Run("admin ok", func(t *testing.T) {
		rec := runRequest(t, newEcho(), "Bearer "+mustMakeJWT(t, secret, 1, "ADMIN", future, jwt.SigningMethodHS256))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no auth", func(t *testing.T) {
		e := echo.New()
		e.GET("/protected", okHandler, middleware.AdminRoleGuard())
		rec := runRequest(t, e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
