package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaitahavya/morandi-sub002/internal/model"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var capturedSQL string
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			return rowOf(int64(1), "admin@morandi.in", "$2a$hash", model.RoleAdmin, ts)
		},
	}

	repo := NewUserRepositoryWithPool(mock)
	user, err := repo.GetByEmail(context.Background(), "Admin@Morandi.in")

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, "$2a$hash", user.PasswordHash)
	assert.Contains(t, capturedSQL, "lower(email) = lower($1)")
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return errRow(pgx.ErrNoRows)
		},
	}

	repo := NewUserRepositoryWithPool(mock)
	user, err := repo.GetByEmail(context.Background(), "nobody@morandi.in")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_InsertIfAbsent(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want bool
	}{
		{name: "inserted", tag: "INSERT 0 1", want: true},
		{name: "already registered", tag: "INSERT 0 0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedSQL string
			mock := &mockPool{
				execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
					capturedSQL = sql
					return pgconn.NewCommandTag(tt.tag), nil
				},
			}

			repo := NewUserRepositoryWithPool(mock)
			inserted, err := repo.InsertIfAbsent(context.Background(), &model.User{Email: "a@b.in", Role: model.RoleAdmin})

			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assert.Contains(t, capturedSQL, "ON CONFLICT (email) DO NOTHING")
		})
	}
}
