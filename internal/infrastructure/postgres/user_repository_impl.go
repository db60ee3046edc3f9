package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-users-api/internal/domain/entity"
	"github.com/oksasatya/go-users-api/internal/domain/repository"
)

const userColumns = "id, email, username, password_hash, is_active, is_superuser, created_at, updated_at"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Username, u.PasswordHash, u.IsActive, u.IsSuperuser)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

// List returns users in creation order so pagination is stable across calls.
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
			&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies the supplied fields in a single UPDATE statement so the
// uniqueness check and the field changes commit atomically. Untouched
// fields keep their current values.
func (r *UserRepository) Update(ctx context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.IsSuperuser != nil {
		add("is_superuser", *upd.IsSuperuser)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// Ping reports whether the underlying database is reachable.
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
