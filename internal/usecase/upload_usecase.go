package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	repo "app/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// 画像の保存先（Cloudinary など）
type ImageStore interface {
	Upload(ctx context.Context, publicID string, body io.Reader) (StoredImage, error)
	List(ctx context.Context) ([]StoredImage, error)
	// 無ければ repository.ErrNotFound
	URL(ctx context.Context, publicID string) (string, error)
	// 無ければ repository.ErrNotFound
	Delete(ctx context.Context, publicID string) error
}

type StoredImage struct {
	PublicID string
	URL      string
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadUsecase struct {
	store ImageStore
	newID func() string
}

// store が nil なら未設定として扱う
func NewUploadUsecase(store ImageStore) *UploadUsecase {
	return &UploadUsecase{store: store, newID: uuid.NewString}
}

type UploadStatusOutput struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

type UploadOutput struct {
	PublicID    string `json:"public_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type UploadFileOutput struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type UploadListOutput struct {
	Files []UploadFileOutput `json:"files"`
	Count int                `json:"count"`
}

func (u *UploadUsecase) Status() UploadStatusOutput {
	if u.store == nil {
		return UploadStatusOutput{Configured: false, Message: "image storage is not configured"}
	}
	return UploadStatusOutput{Configured: true, Message: "image storage is ready"}
}

// 種類は中身の先頭バイトで判定する（申告の Content-Type は見ない）
func (u *UploadUsecase) Upload(ctx context.Context, userID int64, body io.Reader) (UploadOutput, error) {
	if userID <= 0 {
		return UploadOutput{}, Unauthorized("unauthorized")
	}
	if u.store == nil {
		return UploadOutput{}, storageNotConfigured()
	}

	ct, body, err := detectImageType(body)
	if err != nil {
		return UploadOutput{}, err
	}

	img, err := u.store.Upload(ctx, u.newID(), body)
	if err != nil {
		return UploadOutput{}, internalError("upload failed")
	}
	return UploadOutput{
		PublicID:    img.PublicID,
		URL:         img.URL,
		ContentType: ct,
	}, nil
}

func (u *UploadUsecase) List(ctx context.Context, userID int64) (UploadListOutput, error) {
	if userID <= 0 {
		return UploadListOutput{}, Unauthorized("unauthorized")
	}
	if u.store == nil {
		return UploadListOutput{}, storageNotConfigured()
	}

	imgs, err := u.store.List(ctx)
	if err != nil {
		return UploadListOutput{}, internalError("list failed")
	}

	files := make([]UploadFileOutput, 0, len(imgs))
	for _, img := range imgs {
		files = append(files, UploadFileOutput{PublicID: img.PublicID, URL: img.URL})
	}
	return UploadListOutput{Files: files, Count: len(files)}, nil
}

func (u *UploadUsecase) URL(ctx context.Context, publicID string) (UploadFileOutput, error) {
	if u.store == nil {
		return UploadFileOutput{}, storageNotConfigured()
	}
	if strings.TrimSpace(publicID) == "" {
		return UploadFileOutput{}, Validation("public_id required")
	}

	url, err := u.store.URL(ctx, publicID)
	if errors.Is(err, repo.ErrNotFound) {
		return UploadFileOutput{}, NotFound("image not found")
	}
	if err != nil {
		return UploadFileOutput{}, internalError("url lookup failed")
	}
	return UploadFileOutput{PublicID: publicID, URL: url}, nil
}

func (u *UploadUsecase) Delete(ctx context.Context, userID int64, publicID string) error {
	if userID <= 0 {
		return Unauthorized("unauthorized")
	}
	if u.store == nil {
		return storageNotConfigured()
	}
	if strings.TrimSpace(publicID) == "" {
		return Validation("public_id required")
	}

	err := u.store.Delete(ctx, publicID)
	if errors.Is(err, repo.ErrNotFound) {
		return NotFound("image not found")
	}
	if err != nil {
		return internalError("delete failed")
	}
	return nil
}

func storageNotConfigured() error {
	return newKindError(ErrUnavailable, http.StatusServiceUnavailable, "storage not configured")
}

// 読んだ先頭バイトは戻した reader を返す
func detectImageType(body io.Reader) (string, io.Reader, error) {
	var head bytes.Buffer
	mt, err := mimetype.DetectReader(io.TeeReader(body, &head))
	if err != nil {
		return "", nil, NewHTTPError(http.StatusBadRequest, "invalid file")
	}

	for t := range allowedImageTypes {
		if mt.Is(t) {
			return t, io.MultiReader(&head, body), nil
		}
	}
	return "", nil, Validation("file must be one of image/jpeg, image/png, image/gif, image/webp")
}
