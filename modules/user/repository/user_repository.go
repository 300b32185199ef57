package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"hiringdesk/core/database"
	"hiringdesk/modules/user/entity"

	"github.com/google/uuid"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
}

type UserRepository struct {
	DB database.IDatabase
}

func NewUserRepository(db database.IDatabase) UserRepositoryInterface {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND archived_at IS NULL`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT * FROM users WHERE email = $1 AND archived_at IS NULL`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, name, phone, role, password_hash, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.Name, user.Phone, user.Role, user.PasswordHash, user.OrganizationID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
