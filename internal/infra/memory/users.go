package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserRepository struct {
	s session
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.s.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return repo.ErrDuplicate
			}
		}
		now := r.s.now()
		user.ID = st.nextID("users")
		user.CreatedAt = now
		user.UpdatedAt = now
		if user.Role == "" {
			user.Role = model.RoleUser
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	var out *model.User
	err := r.s.do(func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return repo.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var out *model.User
	err := r.s.do(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *UserRepository) List(ctx context.Context, skip int, limit int) ([]model.User, error) {
	var out []model.User
	err := r.s.do(func(st *state) error {
		out = page(sortedByID(st.users, nil), skip, limit)
		return nil
	})
	return out, err
}
