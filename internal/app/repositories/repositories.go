package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/researchdesk/internal/db"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// Repositories holds all the repository instances
type Repositories struct {
	ResearchRepository    *ResearchRepository
	MemberRepository      *MemberRepository
	PublicationRepository *PublicationRepository
	UtilizationRepository *UtilizationRepository
	MembershipRepository  *MembershipRepository
	UserRepository        *UserRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		ResearchRepository:    NewResearchRepository(database),
		MemberRepository:      NewMemberRepository(database),
		PublicationRepository: NewPublicationRepository(database),
		UtilizationRepository: NewUtilizationRepository(database),
		MembershipRepository:  NewMembershipRepository(database),
		UserRepository:        NewUserRepository(database),
	}
}

// psql builds PostgreSQL ($n) placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// listQuery is the pair of statements behind one list page.
type listQuery struct {
	rows  squirrel.SelectBuilder
	count squirrel.SelectBuilder
}

// count runs the count statement.
func count(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return total, nil
}

// page counts the filtered rows, then fetches the requested window and scans
// each row with scan. A page past the end fetches nothing.
func page[T any](ctx context.Context, q db.Querier, lq listQuery, req listquery.Request, scan func(pgx.Rows) (T, error)) ([]T, int64, error) {
	total, err := count(ctx, q, lq.count)
	if err != nil {
		return nil, 0, err
	}
	if total <= 0 || req.Offset() >= uint64(total) {
		return []T{}, total, nil
	}

	sql, args, err := req.Apply(lq.rows).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	items, err := collect(ctx, q, sql, args, scan)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// collect runs a query and scans every row.
func collect[T any](ctx context.Context, q db.Querier, sql string, args []any, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// notFound maps pgx.ErrNoRows to a not-found error carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

// groupCounts reads "key, count" rows.
func groupCounts(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) (map[string]int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// createdPerMonthQuery groups the rows of table created since since by
// calendar month ("YYYY-MM") in the time zone tz.
func createdPerMonthQuery(table string, since time.Time, tz string) squirrel.SelectBuilder {
	bucket := "to_char(created_at AT TIME ZONE ?, 'YYYY-MM')"
	return psql.Select().
		Column(squirrel.Expr(bucket+" AS bucket", tz)).
		Column("COUNT(*)").
		From(table).
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("bucket")
}
