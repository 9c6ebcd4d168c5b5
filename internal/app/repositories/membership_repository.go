package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/db"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/dberrors"
)

// LinkTable is a member join table: every row pairs one owner record with
// one member, and each pair is unique.
type LinkTable struct {
	Table       string
	OwnerColumn string
	OwnerName   string
}

var (
	// Teams links research to members.
	Teams = LinkTable{Table: "teams", OwnerColumn: "research_id", OwnerName: "Research"}
	// Authors links publications to members.
	Authors = LinkTable{Table: "authors", OwnerColumn: "publication_id", OwnerName: "Publication"}
)

// MembershipRepository maintains the member join tables and eager loads
// them for whole pages at once.
type MembershipRepository struct {
	db *db.PostgresDB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(database *db.PostgresDB) *MembershipRepository {
	return &MembershipRepository{db: database}
}

// Sync makes memberIDs the exact member set of ownerID. Existing pairs are
// kept as they are.
func (r *MembershipRepository) Sync(ctx context.Context, l LinkTable, ownerID int64, memberIDs []int64) error {
	if memberIDs == nil {
		memberIDs = []int64{}
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND NOT (member_id = ANY($2))`, l.Table, l.OwnerColumn)
		if _, err := conn.Exec(ctx, del, ownerID, memberIDs); err != nil {
			return fmt.Errorf("error removing %s rows: %w", l.Table, err)
		}
		if len(memberIDs) == 0 {
			return nil
		}
		ins := fmt.Sprintf(`
			INSERT INTO %s (%s, member_id)
			SELECT $1, m FROM unnest($2::bigint[]) AS m
			ON CONFLICT (%s, member_id) DO NOTHING`, l.Table, l.OwnerColumn, l.OwnerColumn)
		if _, err := conn.Exec(ctx, ins, ownerID, memberIDs); err != nil {
			return linkError(err, l)
		}
		return nil
	})
}

// Link adds one pair. It reports false, without error, when the pair
// already existed.
func (r *MembershipRepository) Link(ctx context.Context, l LinkTable, ownerID, memberID int64) (bool, error) {
	ins := fmt.Sprintf(`INSERT INTO %s (%s, member_id) VALUES ($1, $2) ON CONFLICT (%s, member_id) DO NOTHING`,
		l.Table, l.OwnerColumn, l.OwnerColumn)
	tag, err := r.db.Conn(ctx).Exec(ctx, ins, ownerID, memberID)
	if err != nil {
		return false, linkError(err, l)
	}
	return tag.RowsAffected() == 1, nil
}

// Unlink removes one pair. It reports false when there was no such pair.
func (r *MembershipRepository) Unlink(ctx context.Context, l LinkTable, ownerID, memberID int64) (bool, error) {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND member_id = $2`, l.Table, l.OwnerColumn)
	tag, err := r.db.Conn(ctx).Exec(ctx, del, ownerID, memberID)
	if err != nil {
		return false, fmt.Errorf("error removing %s row: %w", l.Table, err)
	}
	return tag.RowsAffected() == 1, nil
}

func linkError(err error, l LinkTable) error {
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewResourceNotFoundError(l.OwnerName + " or member not found")
	}
	return fmt.Errorf("error adding %s rows: %w", l.Table, err)
}

// MembersOf loads the members of every owner in ownerIDs with a single
// query, keyed by owner id, members in link order.
func (r *MembershipRepository) MembersOf(ctx context.Context, l LinkTable, ownerIDs []int64) (map[int64][]models.Member, error) {
	out := make(map[int64][]models.Member, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	sql, args, err := psql.Select(memberColumnsOf("m")...).
		Column("l." + l.OwnerColumn).
		From(l.Table + " l").
		Join("members m ON m.id = l.member_id").
		Where("l."+l.OwnerColumn+" = ANY(?)", ownerIDs).
		OrderBy("l."+l.OwnerColumn, "l.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	type pair struct {
		owner  int64
		member models.Member
	}
	pairs, err := collect(ctx, r.db.Conn(ctx), sql, args, func(rows pgx.Rows) (pair, error) {
		var p pair
		m, err := scanMember(rows, &p.owner)
		p.member = m
		return p, err
	})
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		out[p.owner] = append(out[p.owner], p.member)
	}
	return out, nil
}

// ResearchOfMembers loads the research memberships of every member in
// memberIDs with a single query, keyed by member id, newest research first.
func (r *MembershipRepository) ResearchOfMembers(ctx context.Context, memberIDs []int64) (map[int64][]models.ResearchMembership, error) {
	out := make(map[int64][]models.ResearchMembership, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}
	rows, err := collect(ctx, r.db.Conn(ctx), `
		SELECT t.member_id, r.id, r.research_title, r.status, r.program
		FROM teams t
		JOIN research r ON r.id = t.research_id
		WHERE t.member_id = ANY($1)
		ORDER BY t.member_id, r.id DESC`,
		[]any{memberIDs},
		func(rows pgx.Rows) (models.ResearchMembership, error) {
			var m models.ResearchMembership
			err := rows.Scan(&m.MemberID, &m.ResearchID, &m.Title, &m.Status, &m.Program)
			return m, err
		})
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.MemberID] = append(out[m.MemberID], m)
	}
	return out, nil
}

// PublicationsOfMembers loads the authorships of every member in memberIDs
// with a single query, keyed by member id, newest publication first.
func (r *MembershipRepository) PublicationsOfMembers(ctx context.Context, memberIDs []int64) (map[int64][]models.Authorship, error) {
	out := make(map[int64][]models.Authorship, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}
	rows, err := collect(ctx, r.db.Conn(ctx), `
		SELECT a.member_id, p.id, p.title, p.publication_year
		FROM authors a
		JOIN publications p ON p.id = a.publication_id
		WHERE a.member_id = ANY($1)
		ORDER BY a.member_id, p.id DESC`,
		[]any{memberIDs},
		func(rows pgx.Rows) (models.Authorship, error) {
			var a models.Authorship
			err := rows.Scan(&a.MemberID, &a.PublicationID, &a.Title, &a.Year)
			return a, err
		})
	if err != nil {
		return nil, err
	}
	for _, a := range rows {
		out[a.MemberID] = append(out[a.MemberID], a)
	}
	return out, nil
}
