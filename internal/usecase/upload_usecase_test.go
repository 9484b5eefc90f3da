package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Upload(ctx context.Context, publicID string, body io.Reader) (usecase.StoredImage, error) {
	args := m.Called(ctx, publicID, body)
	img, _ := args.Get(0).(usecase.StoredImage)
	return img, args.Error(1)
}

func (m *ImageStoreMock) List(ctx context.Context) ([]usecase.StoredImage, error) {
	args := m.Called(ctx)
	imgs, _ := args.Get(0).([]usecase.StoredImage)
	return imgs, args.Error(1)
}

func (m *ImageStoreMock) URL(ctx context.Context, publicID string) (string, error) {
	args := m.Called(ctx, publicID)
	return args.String(0), args.Error(1)
}

func (m *ImageStoreMock) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func TestUploadUsecase_Unconfigured(t *testing.T) {
	uc := usecase.NewUploadUsecase(nil)

	assert.False(t, uc.Status().Configured)

	_, err := uc.Upload(context.Background(), 1, strings.NewReader(pngHeader))
	assertKind(t, err, usecase.ErrUnavailable, http.StatusServiceUnavailable)

	_, err = uc.List(context.Background(), 1)
	assertKind(t, err, usecase.ErrUnavailable, http.StatusServiceUnavailable)

	_, err = uc.URL(context.Background(), "products/a")
	assertKind(t, err, usecase.ErrUnavailable, http.StatusServiceUnavailable)

	err = uc.Delete(context.Background(), 1, "abc")
	assertKind(t, err, usecase.ErrUnavailable, http.StatusServiceUnavailable)
}

// 各形式のマジックバイト
const (
	pngHeader  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	gifHeader  = "GIF89a\x01\x00\x01\x00"
	jpegHeader = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
	webpHeader = "RIFF\x24\x00\x00\x00WEBPVP8 "
)

func TestUploadUsecase_Upload(t *testing.T) {
	ctx := context.Background()
	store := new(ImageStoreMock)
	uc := usecase.NewUploadUsecase(store)
	assert.True(t, uc.Status().Configured)

	var sent []byte
	store.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			sent, _ = io.ReadAll(args.Get(2).(io.Reader))
		}).
		Return(usecase.StoredImage{PublicID: "products/x", URL: "https://img/x.png"}, nil)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"png", pngHeader + "rest", "image/png"},
		{"gif", gifHeader, "image/gif"},
		{"jpeg", jpegHeader, "image/jpeg"},
		{"webp", webpHeader, "image/webp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := uc.Upload(ctx, 1, strings.NewReader(tc.body))
			require.NoError(t, err)
			assert.Equal(t, "products/x", out.PublicID)
			assert.Equal(t, tc.want, out.ContentType)
			// 判定で読んだ分も欠けずに保存先へ渡る
			assert.Equal(t, tc.body, string(sent))
		})
	}

	_, err := uc.Upload(ctx, 1, strings.NewReader("just some text"))
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)

	store.AssertNumberOfCalls(t, "Upload", len(cases))
}

func TestUploadUsecase_ListAndURL(t *testing.T) {
	ctx := context.Background()
	store := new(ImageStoreMock)
	uc := usecase.NewUploadUsecase(store)

	store.On("List", mock.Anything).Return([]usecase.StoredImage{
		{PublicID: "products/a", URL: "https://img/a"},
		{PublicID: "products/b", URL: "https://img/b"},
	}, nil)
	store.On("URL", mock.Anything, "products/a").Return("https://img/a", nil)
	store.On("URL", mock.Anything, "products/gone").Return("", repo.ErrNotFound)

	out, err := uc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "products/b", out.Files[1].PublicID)

	_, err = uc.List(ctx, 0)
	assertKind(t, err, usecase.ErrUnauthorized, http.StatusUnauthorized)

	f, err := uc.URL(ctx, "products/a")
	require.NoError(t, err)
	assert.Equal(t, "https://img/a", f.URL)

	_, err = uc.URL(ctx, "products/gone")
	assertKind(t, err, usecase.ErrNotFound, http.StatusNotFound)

	_, err = uc.URL(ctx, " ")
	assertKind(t, err, usecase.ErrValidation, http.StatusUnprocessableEntity)
}

func TestUploadUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	store := new(ImageStoreMock)
	uc := usecase.NewUploadUsecase(store)

	store.On("Delete", mock.Anything, "gone").Return(repo.ErrNotFound)
	store.On("Delete", mock.Anything, "ok").Return(nil)
	store.On("Delete", mock.Anything, "boom").Return(errors.New("boom"))

	assertKind(t, uc.Delete(ctx, 1, "gone"), usecase.ErrNotFound, http.StatusNotFound)
	assert.NoError(t, uc.Delete(ctx, 1, "ok"))
	assertKind(t, uc.Delete(ctx, 1, "boom"), usecase.ErrInternal, http.StatusInternalServerError)
}
