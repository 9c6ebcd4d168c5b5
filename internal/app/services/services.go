package services

import (
	"context"
	"time"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/repositories"
)

// Transactor groups several store calls into one unit. *db.PostgresDB
// implements it; repositories join the transaction through the context.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// memberLinks is the join table access shared by research, publications
// and members.
type memberLinks interface {
	Sync(ctx context.Context, l repositories.LinkTable, ownerID int64, memberIDs []int64) error
	Link(ctx context.Context, l repositories.LinkTable, ownerID, memberID int64) (bool, error)
	Unlink(ctx context.Context, l repositories.LinkTable, ownerID, memberID int64) (bool, error)
	MembersOf(ctx context.Context, l repositories.LinkTable, ownerIDs []int64) (map[int64][]models.Member, error)
	ResearchOfMembers(ctx context.Context, memberIDs []int64) (map[int64][]models.ResearchMembership, error)
	PublicationsOfMembers(ctx context.Context, memberIDs []int64) (map[int64][]models.Authorship, error)
}

// memberIDLookup resolves which submitted member ids exist.
type memberIDLookup interface {
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// MonthlyCounter counts rows created per "YYYY-MM" month in a time zone.
type MonthlyCounter interface {
	CreatedPerMonth(ctx context.Context, since time.Time, tz string) (map[string]int64, error)
}

// Clock returns the current time. Services that bucket by calendar take
// one so tests can pin "now".
type Clock func() time.Time
