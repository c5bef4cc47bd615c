package store

import (
	"context"
	"database/sql"

	"mobilestore/internal/models"
)

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.QueryRowxContext(ctx, `
		INSERT INTO users (id, name, email, password, is_admin, phone, address, city, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.Password, u.IsAdmin, u.Phone, u.Address, u.City, u.Avatar,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetUserByID retrieves a user by id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone, or nil when absent.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE phone = $1", phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailOrPhone resolves a login identifier against either column.
func (s *Store) GetUserByEmailOrPhone(ctx context.Context, value string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE email = $1 OR phone = $1", value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves all users.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at DESC")
	return users, err
}

// UpdateUser updates profile fields, returning nil when the user is absent.
func (s *Store) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	var updated models.User
	err := s.db.GetContext(ctx, &updated, `
		UPDATE users
		SET name = $2, phone = $3, address = $4, city = $5, avatar = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING *`,
		u.ID, u.Name, u.Phone, u.Address, u.City, u.Avatar)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes an account, returning false when it did not exist.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
