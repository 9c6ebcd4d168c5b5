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

const researchNotFound = "Research not found"

var researchColumns = []string{
	"id", "research_title", "funding_source", "collaborating_agency", "type", "program", "status",
	"start_date", "duration", "estimated_budget", "special_order",
	"budget_utilized", "completion_percentage", "terminal_report", "year_completed",
	"publication", "patent", "product", "people_service", "place_and_partnership", "policy",
	"created_at", "updated_at",
}

var (
	researchSort = listquery.Sort{}
	proposalSort = listquery.Sort{Column: "research_title"}
)

// ResearchRepository handles research database operations
type ResearchRepository struct {
	db *db.PostgresDB
}

// NewResearchRepository creates a new ResearchRepository
func NewResearchRepository(database *db.PostgresDB) *ResearchRepository {
	return &ResearchRepository{db: database}
}

func scanResearch(row pgx.Row) (models.Research, error) {
	var r models.Research
	err := row.Scan(
		&r.ID, &r.Title, &r.FundingSource, &r.CollaboratingAgency, &r.Type, &r.Program, &r.Status,
		&r.StartDate, &r.Duration, &r.EstimatedBudget, &r.SpecialOrder,
		&r.BudgetUtilized, &r.CompletionPercentage, &r.TerminalReport, &r.YearCompleted,
		&r.Publication, &r.Patent, &r.Product, &r.PeopleService, &r.PlaceAndPartnership, &r.Policy,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func scanResearchRows(rows pgx.Rows) (models.Research, error) {
	return scanResearch(rows)
}

// ResearchListQuery builds the statements of GET /research.
func ResearchListQuery(f dto.ResearchFilter) listQuery {
	where := listquery.Where().
		Eq("type", f.Type).
		Eq("status", f.Status).
		Eq("year_completed", f.YearCompleted).
		Eq("program", f.Program).
		Search(f.Search, "research_title", "collaborating_agency", "funding_source").
		Sqlizer()

	return listQuery{
		rows:  psql.Select(researchColumns...).From("research").Where(where).OrderBy(researchSort.OrderBy("")...),
		count: psql.Select("COUNT(*)").From("research").Where(where),
	}
}

// ProposalListQuery builds the statements of GET /proposals.
func ProposalListQuery(f dto.ProposalFilter) listQuery {
	where := listquery.Where().
		Eq("program", f.Program).
		Eq("year_completed", f.YearCompleted).
		Search(f.Search, "research_title", "start_date::text", "completion_percentage::text").
		Sqlizer()

	return listQuery{
		rows:  psql.Select(researchColumns...).From("research").Where(where).OrderBy(proposalSort.OrderBy(f.Sort)...),
		count: psql.Select("COUNT(*)").From("research").Where(where),
	}
}

// List returns one page of research and the filtered total.
func (r *ResearchRepository) List(ctx context.Context, f dto.ResearchFilter) ([]models.Research, int64, error) {
	return page(ctx, r.db.Conn(ctx), ResearchListQuery(f), f.Page, scanResearchRows)
}

// ListProposals returns one page of research seen as proposals.
func (r *ResearchRepository) ListProposals(ctx context.Context, f dto.ProposalFilter) ([]models.Research, int64, error) {
	return page(ctx, r.db.Conn(ctx), ProposalListQuery(f), f.Page, scanResearchRows)
}

// GetByID retrieves a research record by ID
func (r *ResearchRepository) GetByID(ctx context.Context, id int64) (*models.Research, error) {
	sql, args, err := psql.Select(researchColumns...).From("research").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	research, err := scanResearch(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, researchNotFound)
	}
	return &research, nil
}

func researchValues(res *models.Research) map[string]interface{} {
	return map[string]interface{}{
		"research_title":        res.Title,
		"funding_source":        res.FundingSource,
		"collaborating_agency":  res.CollaboratingAgency,
		"type":                  res.Type,
		"program":               res.Program,
		"status":                res.Status,
		"start_date":            res.StartDate,
		"duration":              res.Duration,
		"estimated_budget":      res.EstimatedBudget,
		"special_order":         res.SpecialOrder,
		"budget_utilized":       res.BudgetUtilized,
		"completion_percentage": res.CompletionPercentage,
		"terminal_report":       res.TerminalReport,
		"year_completed":        res.YearCompleted,
		"publication":           res.Publication,
		"patent":                res.Patent,
		"product":               res.Product,
		"people_service":        res.PeopleService,
		"place_and_partnership": res.PlaceAndPartnership,
		"policy":                res.Policy,
	}
}

// Create inserts res and fills its id and timestamps
func (r *ResearchRepository) Create(ctx context.Context, res *models.Research) error {
	sql, args, err := psql.Insert("research").SetMap(researchValues(res)).
		Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("error creating research: %w", err)
	}
	return nil
}

// Update overwrites every column of res
func (r *ResearchRepository) Update(ctx context.Context, res *models.Research) error {
	values := researchValues(res)
	values["updated_at"] = squirrel.Expr("NOW()")
	sql, args, err := psql.Update("research").SetMap(values).Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&res.UpdatedAt); err != nil {
		return notFound(err, researchNotFound)
	}
	return nil
}

// Delete removes a research record; team rows and its utilization cascade
func (r *ResearchRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM research WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting research: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(researchNotFound)
	}
	return nil
}

// Exists reports whether a research record with id exists
func (r *ResearchRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM research WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking research: %w", err)
	}
	return exists, nil
}

// Options lists every research as a dropdown option, newest first
func (r *ResearchRepository) Options(ctx context.Context) ([]dto.Option, error) {
	return collect(ctx, r.db.Conn(ctx), `SELECT id, research_title FROM research ORDER BY id DESC`, nil,
		func(rows pgx.Rows) (dto.Option, error) {
			var o dto.Option
			err := rows.Scan(&o.ID, &o.Label)
			return o, err
		})
}

// dashboardScope narrows research to a program and, when given, a completion year.
func dashboardScope(program *models.Program, year *string) squirrel.Sqlizer {
	return listquery.Where().Eq("program", program).Eq("year_completed", year).Sqlizer()
}

// CountByStatus counts research per status within the dashboard scope.
func (r *ResearchRepository) CountByStatus(ctx context.Context, program *models.Program, year *string) (map[string]int64, error) {
	q := psql.Select("status", "COUNT(*)").From("research").Where(dashboardScope(program, year)).GroupBy("status")
	return groupCounts(ctx, r.db.Conn(ctx), q)
}

// CompletedPerYear counts research per year_completed for the program.
func (r *ResearchRepository) CompletedPerYear(ctx context.Context, program *models.Program) (map[string]int64, error) {
	q := psql.Select("year_completed", "COUNT(*)").From("research").
		Where(listquery.Where().Eq("program", program).Sqlizer()).
		Where("year_completed IS NOT NULL").
		GroupBy("year_completed")
	return groupCounts(ctx, r.db.Conn(ctx), q)
}

// CreatedPerMonth counts research created per month since since.
func (r *ResearchRepository) CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error) {
	return groupCounts(ctx, r.db.Conn(ctx), createdPerMonthQuery("research", since, tz))
}
