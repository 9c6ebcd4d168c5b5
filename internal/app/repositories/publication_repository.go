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
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

const publicationNotFound = "Publication not found"

var publicationColumns = []string{
	"id", "title", "journal", "publication_year", "publication_program", "isbn", "p_issn", "e_issn",
	"publisher", "online_view", "incentive_file", "product_file", "patent_file", "created_at", "updated_at",
}

var publicationSort = listquery.Sort{Column: "title"}

// PublicationRepository handles publication database operations
type PublicationRepository struct {
	db *db.PostgresDB
}

// NewPublicationRepository creates a new PublicationRepository
func NewPublicationRepository(database *db.PostgresDB) *PublicationRepository {
	return &PublicationRepository{db: database}
}

func scanPublication(row pgx.Row) (models.Publication, error) {
	var p models.Publication
	err := row.Scan(
		&p.ID, &p.Title, &p.Journal, &p.Year, &p.Program, &p.ISBN, &p.PISSN, &p.EISSN,
		&p.Publisher, &p.OnlineView, &p.IncentiveFile, &p.ProductFile, &p.PatentFile, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanPublicationRows(rows pgx.Rows) (models.Publication, error) {
	return scanPublication(rows)
}

// PublicationListQuery builds the statements of GET /publications.
func PublicationListQuery(f dto.PublicationFilter) listQuery {
	where := listquery.Where().
		Eq("publication_program", f.Program).
		Gte("publication_year", f.YearFrom).
		Lte("publication_year", f.YearTo).
		Search(f.Search, "title").
		Sqlizer()

	return listQuery{
		rows:  psql.Select(publicationColumns...).From("publications").Where(where).OrderBy(publicationSort.OrderBy(f.Sort)...),
		count: psql.Select("COUNT(*)").From("publications").Where(where),
	}
}

// List returns one page of publications and the filtered total.
func (r *PublicationRepository) List(ctx context.Context, f dto.PublicationFilter) ([]models.Publication, int64, error) {
	return page(ctx, r.db.Conn(ctx), PublicationListQuery(f), f.Page, scanPublicationRows)
}

// GetByID retrieves a publication by ID
func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	sql, args, err := psql.Select(publicationColumns...).From("publications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	p, err := scanPublication(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, publicationNotFound)
	}
	return &p, nil
}

func publicationValues(p *models.Publication) map[string]interface{} {
	return map[string]interface{}{
		"title":               p.Title,
		"journal":             p.Journal,
		"publication_year":    p.Year,
		"publication_program": p.Program,
		"isbn":                p.ISBN,
		"p_issn":              p.PISSN,
		"e_issn":              p.EISSN,
		"publisher":           p.Publisher,
		"online_view":         p.OnlineView,
		"incentive_file":      p.IncentiveFile,
		"product_file":        p.ProductFile,
		"patent_file":         p.PatentFile,
	}
}

// Create inserts p and fills its id and timestamps
func (r *PublicationRepository) Create(ctx context.Context, p *models.Publication) error {
	sql, args, err := psql.Insert("publications").SetMap(publicationValues(p)).
		Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("error creating publication: %w", err)
	}
	return nil
}

// Update overwrites every column of p
func (r *PublicationRepository) Update(ctx context.Context, p *models.Publication) error {
	values := publicationValues(p)
	values["updated_at"] = squirrel.Expr("NOW()")
	sql, args, err := psql.Update("publications").SetMap(values).Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&p.UpdatedAt); err != nil {
		return notFound(err, publicationNotFound)
	}
	return nil
}

// Delete removes a publication; author rows cascade
func (r *PublicationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(publicationNotFound)
	}
	return nil
}

// Count counts publications of a program and, when given, a year.
func (r *PublicationRepository) Count(ctx context.Context, program *models.Program, year *string) (int64, error) {
	where := listquery.Where().Eq("publication_program", program).Eq("publication_year", year).Sqlizer()
	return count(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("publications").Where(where))
}

// CountPerYear counts publications per publication_year for the program.
func (r *PublicationRepository) CountPerYear(ctx context.Context, program *models.Program) (map[string]int64, error) {
	q := psql.Select("publication_year", "COUNT(*)").From("publications").
		Where(listquery.Where().Eq("publication_program", program).Sqlizer()).
		GroupBy("publication_year")
	return groupCounts(ctx, r.db.Conn(ctx), q)
}

// CreatedPerMonth counts publications created per month since since.
func (r *PublicationRepository) CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error) {
	return groupCounts(ctx, r.db.Conn(ctx), createdPerMonthQuery("publications", since, tz))
}
