package repositories

import (
	"context"
	"fmt"
	"strings"
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
	utilizationNotFound = "Utilization not found"
	// UtilizationResearchConstraint is the one-utilization-per-research constraint.
	UtilizationResearchConstraint = "utilizations_research_id_key"
)

var utilizationColumns = []string{
	"u.id", "u.research_id", "u.beneficiary", "u.cert_date", "u.certificate_of_utilization",
	"u.created_at", "u.updated_at", "r.research_title", "r.program",
}

// Utilizations sort by the title of their research.
var utilizationSort = listquery.Sort{Column: "r.research_title", IDColumn: "u.id"}

// UtilizationRepository handles utilization database operations
type UtilizationRepository struct {
	db *db.PostgresDB
}

// NewUtilizationRepository creates a new UtilizationRepository
func NewUtilizationRepository(database *db.PostgresDB) *UtilizationRepository {
	return &UtilizationRepository{db: database}
}

func scanUtilization(row pgx.Row) (models.Utilization, error) {
	var u models.Utilization
	err := row.Scan(
		&u.ID, &u.ResearchID, &u.Beneficiary, &u.CertDate, &u.Certificate,
		&u.CreatedAt, &u.UpdatedAt, &u.ResearchTitle, &u.ResearchProgram,
	)
	return u, err
}

func scanUtilizationRows(rows pgx.Rows) (models.Utilization, error) {
	return scanUtilization(rows)
}

func utilizationSelect(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).From("utilizations u").Join("research r ON r.id = u.research_id")
}

// UtilizationListQuery builds the statements of GET /utilizations.
func UtilizationListQuery(f dto.UtilizationFilter) listQuery {
	where := listquery.Where().
		Gte("u.cert_date", f.DateFrom).
		Lte("u.cert_date", f.DateTo).
		Search(f.Search, "u.beneficiary", "r.research_title").
		Sqlizer()

	return listQuery{
		rows:  utilizationSelect(utilizationColumns...).Where(where).OrderBy(utilizationSort.OrderBy(f.Sort)...),
		count: utilizationSelect("COUNT(*)").Where(where),
	}
}

// List returns one page of utilizations and the filtered total.
func (r *UtilizationRepository) List(ctx context.Context, f dto.UtilizationFilter) ([]models.Utilization, int64, error) {
	return page(ctx, r.db.Conn(ctx), UtilizationListQuery(f), f.Page, scanUtilizationRows)
}

func (r *UtilizationRepository) getBy(ctx context.Context, column string, value int64) (*models.Utilization, error) {
	sql, args, err := utilizationSelect(utilizationColumns...).Where(squirrel.Eq{column: value}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	u, err := scanUtilization(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, utilizationNotFound)
	}
	return &u, nil
}

// GetByID retrieves a utilization by ID
func (r *UtilizationRepository) GetByID(ctx context.Context, id int64) (*models.Utilization, error) {
	return r.getBy(ctx, "u.id", id)
}

// GetByResearchID retrieves the utilization of a research record, or a
// not-found error when it has none.
func (r *UtilizationRepository) GetByResearchID(ctx context.Context, researchID int64) (*models.Utilization, error) {
	return r.getBy(ctx, "u.research_id", researchID)
}

// ExistsForResearch reports whether a utilization other than exceptID
// already certifies researchID.
func (r *UtilizationRepository) ExistsForResearch(ctx context.Context, researchID, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM utilizations WHERE research_id = $1 AND id <> $2)`,
		researchID, exceptID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking utilization: %w", err)
	}
	return exists, nil
}

func duplicateUtilization(err error) error {
	if dberrors.IsDuplicateConstraintError(err, UtilizationResearchConstraint) {
		return apperrors.FieldError("research_id", "The research id has already been taken.")
	}
	return err
}

// Create inserts u and fills its id and timestamps
func (r *UtilizationRepository) Create(ctx context.Context, u *models.Utilization) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		INSERT INTO utilizations (research_id, beneficiary, cert_date, certificate_of_utilization)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		u.ResearchID, u.Beneficiary, u.CertDate, u.Certificate,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return duplicateUtilization(fmt.Errorf("error creating utilization: %w", err))
	}
	return nil
}

// Update overwrites every column of u
func (r *UtilizationRepository) Update(ctx context.Context, u *models.Utilization) error {
	err := r.db.Conn(ctx).QueryRow(ctx, `
		UPDATE utilizations
		SET research_id = $1, beneficiary = $2, cert_date = $3, certificate_of_utilization = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		u.ResearchID, u.Beneficiary, u.CertDate, u.Certificate, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		return duplicateUtilization(notFound(err, utilizationNotFound))
	}
	return nil
}

// Delete removes a utilization
func (r *UtilizationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM utilizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting utilization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(utilizationNotFound)
	}
	return nil
}

// Count counts every utilization.
func (r *UtilizationRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("utilizations"))
}

// ProgramTotals counts utilizations by the program of their research,
// keyed by lower-case program code, with every program present.
func (r *UtilizationRepository) ProgramTotals(ctx context.Context) (map[string]int64, error) {
	counts, err := groupCounts(ctx, r.db.Conn(ctx), utilizationSelect("r.program", "COUNT(*)").GroupBy("r.program"))
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(models.Programs))
	for _, p := range models.Programs {
		totals[strings.ToLower(string(p))] = counts[string(p)]
	}
	return totals, nil
}

// CreatedPerMonth counts utilizations created per month since since.
func (r *UtilizationRepository) CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error) {
	return groupCounts(ctx, r.db.Conn(ctx), createdPerMonthQuery("utilizations", since, tz))
}
