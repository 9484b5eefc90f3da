package handler

import (
	"net/http"
	"strings"

	"app/internal/config"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像アップロード（multipart の file）
type UploadHandler struct {
	uc *usecase.UploadUsecase
}

func NewUploadHandler(uc *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/uploads/status", h.status)

	auth := authRequired(cfg, userRepo)
	e.GET("/uploads", h.list, auth...)
	e.POST("/uploads", h.upload, auth...)
	// public_id はフォルダ付き（products/xxx）なのでワイルドカード
	e.GET("/uploads/*", h.url)
	e.DELETE("/uploads/*", h.delete, auth...)
}

func (h *UploadHandler) status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Status())
}

func (h *UploadHandler) upload(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file"})
	}
	defer f.Close()

	out, err := h.uc.Upload(c.Request().Context(), userID, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UploadHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /uploads/<public_id>/url
func (h *UploadHandler) url(c echo.Context) error {
	rest := strings.Trim(c.Param("*"), "/")
	publicID, ok := strings.CutSuffix(rest, "/url")
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	out, err := h.uc.URL(c.Request().Context(), publicID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UploadHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	publicID := strings.Trim(c.Param("*"), "/")
	if err := h.uc.Delete(c.Request().Context(), userID, publicID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
