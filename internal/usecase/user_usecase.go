package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const defaultUserLimit = 100

type UserUsecase struct {
	users repo.UserRepository
}

func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// ログイン中のユーザー
func (u *UserUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, Unauthorized("unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, Unauthorized("unauthorized")
	}
	if err != nil {
		return model.User{}, dbError()
	}
	if !user.IsActive {
		return model.User{}, Forbidden("user is inactive")
	}
	return *user, nil
}

func (u *UserUsecase) GetUser(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NotFound("user not found")
	}
	if err != nil {
		return model.User{}, dbError()
	}
	return *user, nil
}

func (u *UserUsecase) ListUsers(ctx context.Context, skip int, limit int) ([]model.User, error) {
	if skip < 0 {
		return []model.User{}, Validation("skip must be >= 0")
	}
	if limit == 0 {
		limit = defaultUserLimit
	}
	if limit < 1 || limit > 100 {
		return []model.User{}, Validation("limit must be between 1 and 100")
	}

	users, err := u.users.List(ctx, skip, limit)
	if err != nil {
		return []model.User{}, dbError()
	}
	return users, nil
}
