package postgres

import (
	"context"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, name, password_hash, role, created_at`

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, u, query, id); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	if err := sqlx.GetContext(ctx, r.db, u, query, email); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}
