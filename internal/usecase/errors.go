package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラーの種類。HTTPError.Unwrap() がこのどれかを返す
var (
	//404
	ErrNotFound = errors.New("not found")
	//422 入力不正
	ErrValidation = errors.New("validation error")
	//400 重複など
	ErrConflict = errors.New("conflict")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//400 今の状態ではできない操作
	ErrInvalidState = errors.New("invalid state")
	//503 外部サービス未設定
	ErrUnavailable = errors.New("unavailable")
	//500
	ErrInternal = errors.New("internal error")
)

type HTTPError struct {
	Status  int
	Message string
	kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.kind
}

// kind は status から決める（400 は InvalidState 扱い）
func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		kind:    kindForStatus(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return ErrInvalidState
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return ErrInternal
	}
}

func newKindError(kind error, status int, message string) error {
	return &HTTPError{Status: status, Message: message, kind: kind}
}

func NotFound(message string) error {
	return newKindError(ErrNotFound, http.StatusNotFound, message)
}

func Validation(message string) error {
	return newKindError(ErrValidation, http.StatusUnprocessableEntity, message)
}

func Conflict(message string) error {
	return newKindError(ErrConflict, http.StatusBadRequest, message)
}

func Forbidden(message string) error {
	return newKindError(ErrForbidden, http.StatusForbidden, message)
}

func Unauthorized(message string) error {
	return newKindError(ErrUnauthorized, http.StatusUnauthorized, message)
}

func InvalidState(message string) error {
	return newKindError(ErrInvalidState, http.StatusBadRequest, message)
}

func internalError(message string) error {
	return newKindError(ErrInternal, http.StatusInternalServerError, message)
}

func dbError() error {
	return internalError("db error")
}
