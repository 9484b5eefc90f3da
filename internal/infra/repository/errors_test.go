package repository

import (
	"errors"
	"fmt"
	"testing"

	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("boom")
	fkViolation := &pgconn.PgError{Code: "23503"}

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, repo.ErrNotFound},
		{"wrapped not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), repo.ErrNotFound},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, repo.ErrDuplicate},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, repo.ErrDuplicate},
		{"other pg error", fkViolation, fkViolation},
		{"other", other, other},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, translate(tc.in))
		})
	}
}
