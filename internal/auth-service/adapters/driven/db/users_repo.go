package db

import (
	"context"
	"errors"

	"ride-sharing/internal/auth-service/core/domain/model"
	"ride-sharing/internal/auth-service/core/myerrors"
	"ride-sharing/internal/postgres"

	"github.com/jackc/pgx/v5"
)

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT
);
`

type UsersRepo struct {
	db *postgres.DataBase
}

func NewUsersRepo(db *postgres.DataBase) *UsersRepo {
	return &UsersRepo{db: db}
}

func (ur *UsersRepo) Create(ctx context.Context, user model.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, NULLIF($4, ''));
	`
	_, err := ur.db.Pool().Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.Role)
	return err
}

func (ur *UsersRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	query := `
		SELECT id, username, password_hash, COALESCE(role, '')
		FROM users
		WHERE username = $1;
	`
	var user model.User
	err := ur.db.Pool().QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, myerrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (ur *UsersRepo) UpdateRole(ctx context.Context, username, role string) (model.User, error) {
	query := `
		UPDATE users
		SET role = $1
		WHERE username = $2
		RETURNING id, username, password_hash, COALESCE(role, '');
	`
	var user model.User
	err := ur.db.Pool().QueryRow(ctx, query, role, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, myerrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
