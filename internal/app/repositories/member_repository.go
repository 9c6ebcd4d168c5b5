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
	memberNotFound = "Member not found"
	// MemberEmailConstraint is the unique constraint on members.member_email.
	MemberEmailConstraint = "members_member_email_key"
)

var memberColumns = []string{
	"id", "full_name", "rank", "designation", "member_program", "member_email", "orcid", "telephone",
	"educational_attainment", "specialization", "research_interest", "profile_photo", "teaches_grad_school",
	"created_at", "updated_at",
}

var memberSort = listquery.Sort{Column: "full_name"}

// MemberRepository handles member database operations
type MemberRepository struct {
	db *db.PostgresDB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(database *db.PostgresDB) *MemberRepository {
	return &MemberRepository{db: database}
}

// memberColumnsOf qualifies the member columns with alias.
func memberColumnsOf(alias string) []string {
	cols := make([]string, len(memberColumns))
	for i, c := range memberColumns {
		cols[i] = alias + "." + c
	}
	return cols
}

func scanMember(row pgx.Row, extra ...any) (models.Member, error) {
	var m models.Member
	dest := []any{
		&m.ID, &m.FullName, &m.Rank, &m.Designation, &m.Program, &m.Email, &m.ORCID, &m.Telephone,
		&m.EducationalAttainment, &m.Specialization, &m.ResearchInterest, &m.ProfilePhoto, &m.TeachesGradSchool,
		&m.CreatedAt, &m.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

func scanMemberRows(rows pgx.Rows) (models.Member, error) {
	return scanMember(rows)
}

// MemberListQuery builds the statements of GET /members.
func MemberListQuery(f dto.MemberFilter) listQuery {
	where := listquery.Where().
		Eq("rank", f.Rank).
		Eq("member_program", f.Program).
		Eq("teaches_grad_school", f.TeachesGradSchool).
		Search(f.Search, "full_name").
		Sqlizer()

	return listQuery{
		rows:  psql.Select(memberColumns...).From("members").Where(where).OrderBy(memberSort.OrderBy(f.Sort)...),
		count: psql.Select("COUNT(*)").From("members").Where(where),
	}
}

// List returns one page of members and the filtered total.
func (r *MemberRepository) List(ctx context.Context, f dto.MemberFilter) ([]models.Member, int64, error) {
	return page(ctx, r.db.Conn(ctx), MemberListQuery(f), f.Page, scanMemberRows)
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	sql, args, err := psql.Select(memberColumns...).From("members").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	m, err := scanMember(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, memberNotFound)
	}
	return &m, nil
}

func memberValues(m *models.Member) map[string]interface{} {
	return map[string]interface{}{
		"full_name":              m.FullName,
		"rank":                   m.Rank,
		"designation":            m.Designation,
		"member_program":         m.Program,
		"member_email":           m.Email,
		"orcid":                  m.ORCID,
		"telephone":              m.Telephone,
		"educational_attainment": m.EducationalAttainment,
		"specialization":         m.Specialization,
		"research_interest":      m.ResearchInterest,
		"profile_photo":          m.ProfilePhoto,
		"teaches_grad_school":    m.TeachesGradSchool,
	}
}

// duplicateEmail turns a race on the e-mail constraint into the same
// field error the service reports up front.
func duplicateEmail(err error) error {
	if dberrors.IsDuplicateConstraintError(err, MemberEmailConstraint) {
		return apperrors.FieldError("member_email", "The member email has already been taken.")
	}
	return err
}

// Create inserts m and fills its id and timestamps
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	sql, args, err := psql.Insert("members").SetMap(memberValues(m)).
		Suffix("RETURNING id, created_at, updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return duplicateEmail(fmt.Errorf("error creating member: %w", err))
	}
	return nil
}

// Update overwrites every column of m
func (r *MemberRepository) Update(ctx context.Context, m *models.Member) error {
	values := memberValues(m)
	values["updated_at"] = squirrel.Expr("NOW()")
	sql, args, err := psql.Update("members").SetMap(values).Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&m.UpdatedAt); err != nil {
		return duplicateEmail(notFound(err, memberNotFound))
	}
	return nil
}

// Delete removes a member; team and author rows cascade
func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(memberNotFound)
	}
	return nil
}

// ExistingIDs returns the subset of ids that name members
func (r *MemberRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	sql, args, err := psql.Select("id").From("members").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	return collect(ctx, r.db.Conn(ctx), sql, args, func(rows pgx.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	})
}

// EmailTaken reports whether another member (not exceptID) uses email.
// Comparison ignores case.
func (r *MemberRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM members WHERE LOWER(member_email) = LOWER($1) AND id <> $2)`,
		email, exceptID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("error checking member email: %w", err)
	}
	return taken, nil
}

// Options lists every member as a dropdown option, by name
func (r *MemberRepository) Options(ctx context.Context) ([]dto.Option, error) {
	return collect(ctx, r.db.Conn(ctx), `SELECT id, full_name FROM members ORDER BY full_name ASC, id DESC`, nil,
		func(rows pgx.Rows) (dto.Option, error) {
			var o dto.Option
			err := rows.Scan(&o.ID, &o.Label)
			return o, err
		})
}

// CreatedPerMonth counts members created per month since since.
func (r *MemberRepository) CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error) {
	return groupCounts(ctx, r.db.Conn(ctx), createdPerMonthQuery("members", since, tz))
}
