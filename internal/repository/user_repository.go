package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/food-squad/internal/model"
)

const userColumns = "id,name,email,password_hash,role,image_url,phone_number,created_at"

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user. The ID must already be set (uuid.New at the
// service layer). A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, image_url, phone_number) VALUES (?,?,?,?,?,?,?)",
		u.ID.String(), u.Name, u.Email, u.PasswordHash, u.Role.String(), u.ImageURL, u.PhoneNumber)
	if err != nil {
		// MySQL duplicate-key error code is 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id.String()))
}

// List returns a page of users ordered by creation time. page is
// zero-based; size is clamped to at least one row.
func (r *UserRepo) List(ctx context.Context, page, size int) ([]*model.User, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at, id LIMIT ? OFFSET ?",
		size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites the mutable profile columns of a user. It returns
// sql.ErrNoRows when the user no longer exists.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, role=?, image_url=?, phone_number=? WHERE id=?",
		u.Name, u.Role.String(), u.ImageURL, u.PhoneNumber, u.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when nothing changed; confirm existence.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", u.ID.String()).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *UserRepo) scanOne(row rowScanner) (*model.User, error) {
	return scanUser(row)
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u        model.User
		id, role string
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &role, &u.ImageURL, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if u.Role, err = model.ParseRole(role); err != nil {
		return nil, err
	}
	return &u, nil
}
