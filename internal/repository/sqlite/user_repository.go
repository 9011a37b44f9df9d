package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"campus-coffee/internal/domain"
	"campus-coffee/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	login_name TEXT NOT NULL UNIQUE,
	email_address TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectUserColumns = `SELECT id, login_name, email_address, first_name, last_name, created_at, updated_at FROM users`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (login_name, email_address, first_name, last_name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		user.LoginName,
		user.EmailAddress,
		user.FirstName,
		user.LastName,
		now,
		now,
	)
	if err != nil {
		return 0, wrapWriteError("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = &id
	user.CreatedAt = &now
	updatedAt := now
	user.UpdatedAt = &updatedAt
	return id, nil
}

// Update overwrites the mutable columns of an existing user. created_at is never touched.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == nil {
		return fmt.Errorf("update user without id: %w", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET login_name = ?, email_address = ?, first_name = ?, last_name = ?, updated_at = ?
WHERE id = ?`,
		user.LoginName,
		user.EmailAddress,
		user.FirstName,
		user.LastName,
		now,
		*user.ID,
	)
	if err != nil {
		return wrapWriteError("update user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", *user.ID, domain.ErrNotFound)
	}
	user.UpdatedAt = &now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}

func (r *UserRepository) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE login_name = ?`, loginName)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", loginName, err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user      domain.User
		id        int64
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&user.LoginName,
		&user.EmailAddress,
		&user.FirstName,
		&user.LastName,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	createdAt = createdAt.UTC()
	updatedAt = updatedAt.UTC()
	user.ID = &id
	user.CreatedAt = &createdAt
	user.UpdatedAt = &updatedAt
	return &user, nil
}

func wrapWriteError(op string, err error) error {
	var sqlErr *sqlitedrv.Error
	if !errors.As(err, &sqlErr) || sqlErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%s: %w", op, err)
	}
	// the message names the violated column, e.g. "UNIQUE constraint failed: users.login_name"
	msg := sqlErr.Error()
	switch {
	case strings.Contains(msg, "users.login_name"):
		return fmt.Errorf("login name: %w", domain.ErrDuplicate)
	case strings.Contains(msg, "users.email_address"):
		return fmt.Errorf("email address: %w", domain.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
}
