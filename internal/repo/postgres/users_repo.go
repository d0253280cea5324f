package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/employeehub/internal/domain/user"
	"github.com/geocoder89/employeehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation; the LOWER(username) index is the authoritative guard
// against concurrent registrations.
const uniqueViolationCode = "23505"

type UsersRepo struct {
	db   DB
	prom *observability.Prom
}

func NewUsersRepo(db DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		db:   db,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.db.QueryRow(
			ctx,
			`SELECT id, username, password_hash
         FROM users
         WHERE LOWER(username) = LOWER($1)`,
			username,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := r.observe("users.username_exists", func() error {
		return r.db.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`,
			username,
		).Scan(&exists)
	})

	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	u := user.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := r.observe("users.create", func() error {
		return r.db.QueryRow(
			ctx,
			`INSERT INTO users(username, password_hash)
			VALUES($1, $2)
			RETURNING id`,
			username, passwordHash,
		).Scan(&u.ID)
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return user.User{}, user.ErrUsernameTaken
		}

		return user.User{}, err
	}

	return u, nil
}
