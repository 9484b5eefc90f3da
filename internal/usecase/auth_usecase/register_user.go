package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/usecase"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 100
	maxNameLen     = 200
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
	Name     *string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User
}

var (
	// 入力が不正
	ErrInvalidEmailFormat = usecase.Validation("invalid email format")
	ErrPasswordLength     = usecase.Validation("password must be 6-100 characters")
	ErrNameTooLong        = usecase.Validation("name must be at most 200 characters")

	// 競合
	ErrEmailAlreadyExists = usecase.Conflict("email already registered")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// DI
func NewRegisterUserUsecase(userRepo repository.UserRepository, hasher PasswordHasher) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := strings.TrimSpace(in.Email)

	// emailの形式チェック
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	// password の長さチェック（6〜100文字）
	n := utf8.RuneCountInString(in.Password)
	if n < minPasswordLen || n > maxPasswordLen {
		return out, ErrPasswordLength
	}

	var name *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(trimmed) > maxNameLen {
			return out, ErrNameTooLong
		}
		if trimmed != "" {
			name = &trimmed
		}
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Name:         name,
		Role:         model.RoleUser, // 初期はUSER
		IsActive:     true,
	}

	// DBへ保存（同時登録は一意制約で弾かれる）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrEmailAlreadyExists
		}
		return out, err
	}

	out.User = *user
	return out, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// "Name <a@b>" の形は受け付けない
	return addr.Address == email && strings.Contains(email, "@")
}
