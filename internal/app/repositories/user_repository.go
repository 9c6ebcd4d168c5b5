package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/db"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/dberrors"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

const (
	userNotFound = "User not found"
	// UserEmailConstraint is the unique constraint on users.email.
	UserEmailConstraint = "users_email_key"
)

var userColumns = []string{
	"id", "name", "email", "password", "role", "last_login_at", "last_logout_at", "created_at", "updated_at",
}

var userSort = listquery.Sort{Column: "name"}

// UserRepository handles operator account database operations
type UserRepository struct {
	db *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{db: database}
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.LastLoginAt, &u.LastLogoutAt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func scanUserRows(rows pgx.Rows) (models.User, error) {
	return scanUser(rows)
}

// UserListQuery builds the statements of GET /admin/users.
func UserListQuery(f dto.UserFilter) listQuery {
	where := listquery.Where().
		Eq("role", f.Role).
		Search(f.Search, "name", "email", "role").
		Sqlizer()

	return listQuery{
		rows:  psql.Select(userColumns...).From("users").Where(where).OrderBy(userSort.OrderBy(f.Sort)...),
		count: psql.Select("COUNT(*)").From("users").Where(where),
	}
}

// List returns one page of users and the filtered total.
func (r *UserRepository) List(ctx context.Context, f dto.UserFilter) ([]models.User, int64, error) {
	return page(ctx, r.db.Conn(ctx), UserListQuery(f), f.Page, scanUserRows)
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	u, err := scanUser(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, userNotFound)
	}
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by e-mail, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

// Create inserts u and fills its id and timestamps
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Password, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UserEmailConstraint) {
			return apperrors.FieldError("email", "The email has already been taken.")
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(userNotFound)
	}
	return nil
}

func (r *UserRepository) touch(ctx context.Context, column string, id int64, at time.Time) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `UPDATE users SET `+column+` = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("error updating %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(userNotFound)
	}
	return nil
}

// TouchLogin records a successful login
func (r *UserRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return r.touch(ctx, "last_login_at", id, at)
}

// TouchLogout records a logout
func (r *UserRepository) TouchLogout(ctx context.Context, id int64, at time.Time) error {
	return r.touch(ctx, "last_logout_at", id, at)
}

// LoginTimesSince returns the last login of every user who logged in at or
// after since.
func (r *UserRepository) LoginTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	return collect(ctx, r.db.Conn(ctx), `SELECT last_login_at FROM users WHERE last_login_at >= $1`, []any{since},
		func(rows pgx.Rows) (time.Time, error) {
			var t time.Time
			err := rows.Scan(&t)
			return t, err
		})
}

// CountCreatedSince counts users created at or after since.
func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return count(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("users").Where(squirrel.GtOrEq{"created_at": since}))
}

// Count counts every user.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("users"))
}

// CreatedPerMonth counts users created per month since since.
func (r *UserRepository) CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error) {
	return groupCounts(ctx, r.db.Conn(ctx), createdPerMonthQuery("users", since, tz))
}
