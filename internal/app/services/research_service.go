package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/repositories"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// ResearchService defines the interface for research operations
type ResearchService interface {
	List(ctx context.Context, f dto.ResearchFilter, u *url.URL) (*dto.ResearchList, error)
	Get(ctx context.Context, id int64) (*dto.ResearchDetail, error)
	Create(ctx context.Context, in *dto.ResearchInput) (*dto.ResearchItem, error)
	Update(ctx context.Context, id int64, in *dto.ResearchInput) (*dto.ResearchItem, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, id, memberID int64) (bool, error)
	RemoveMember(ctx context.Context, id, memberID int64) error
	Options(ctx context.Context) ([]dto.Option, error)
}

type researchStore interface {
	List(ctx context.Context, f dto.ResearchFilter) ([]models.Research, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Research, error)
	Create(ctx context.Context, r *models.Research) error
	Update(ctx context.Context, r *models.Research) error
	Delete(ctx context.Context, id int64) error
	Options(ctx context.Context) ([]dto.Option, error)
}

type researchUtilizationLookup interface {
	GetByResearchID(ctx context.Context, researchID int64) (*models.Utilization, error)
}

// researchServiceImpl implements ResearchService
type researchServiceImpl struct {
	tx           Transactor
	research     researchStore
	members      memberIDLookup
	links        memberLinks
	utilizations researchUtilizationLookup
	storage      filestorage.FileStorage
	files        *attachments
	certificates *attachments
	logger       zerolog.Logger
}

// NewResearchService creates a new ResearchService
func NewResearchService(
	tx Transactor,
	research researchStore,
	members memberIDLookup,
	links memberLinks,
	utilizations researchUtilizationLookup,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) ResearchService {
	return &researchServiceImpl{
		tx:           tx,
		research:     research,
		members:      members,
		links:        links,
		utilizations: utilizations,
		storage:      storage,
		files:        newAttachments(storage, ResearchDocumentsDir, logger),
		certificates: newAttachments(storage, UtilizationFilesDir, logger),
		logger:       logger,
	}
}

func researchFiles(r *models.Research) fileSlots {
	return fileSlots{
		dto.ResearchSpecialOrder:   &r.SpecialOrder,
		dto.ResearchTerminalReport: &r.TerminalReport,
	}
}

// checkMemberIDs rejects member id lists naming unknown members.
func checkMemberIDs(ctx context.Context, members memberIDLookup, ids *[]int64) error {
	if ids == nil || len(*ids) == 0 {
		return nil
	}
	existing, err := members.ExistingIDs(ctx, *ids)
	if err != nil {
		return fmt.Errorf("error checking member ids: %w", err)
	}
	if missing := lo.Without(*ids, existing...); len(missing) > 0 {
		return apperrors.FieldError(dto.MemberIDsField, "The selected member ids is invalid.")
	}
	return nil
}

// List returns one page of research with members loaded for the whole page
func (s *researchServiceImpl) List(ctx context.Context, f dto.ResearchFilter, u *url.URL) (*dto.ResearchList, error) {
	rows, total, err := s.research.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list research")
		return nil, fmt.Errorf("error listing research: %w", err)
	}

	members, err := s.links.MembersOf(ctx, repositories.Teams, lo.Map(rows, func(r models.Research, _ int) int64 { return r.ID }))
	if err != nil {
		return nil, fmt.Errorf("error loading research members: %w", err)
	}

	items := dto.ProjectResearchList(rows, members, s.storage)
	return &dto.ResearchList{
		ListResponse: dto.NewListResponse(
			listquery.NewPage(items, total, f.Page, u),
			dto.EchoFilters(u.Query(), dto.ResearchFilterKeys...),
		),
		Programs: models.Programs,
	}, nil
}

func (s *researchServiceImpl) project(ctx context.Context, r models.Research) (*dto.ResearchItem, error) {
	members, err := s.links.MembersOf(ctx, repositories.Teams, []int64{r.ID})
	if err != nil {
		return nil, fmt.Errorf("error loading research members: %w", err)
	}
	item := dto.ProjectResearch(r, members[r.ID], s.storage)
	return &item, nil
}

// Get returns one research record with its team and utilization
func (s *researchServiceImpl) Get(ctx context.Context, id int64) (*dto.ResearchDetail, error) {
	r, err := s.research.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.project(ctx, *r)
	if err != nil {
		return nil, err
	}

	detail := &dto.ResearchDetail{ResearchItem: *item}
	u, err := s.utilizations.GetByResearchID(ctx, id)
	switch {
	case err == nil:
		util := dto.ProjectUtilization(*u, s.storage)
		detail.Utilization = &util
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, fmt.Errorf("error loading utilization: %w", err)
	}
	return detail, nil
}

// Create stores a research record, its files and, when given, its team
func (s *researchServiceImpl) Create(ctx context.Context, in *dto.ResearchInput) (*dto.ResearchItem, error) {
	if err := checkMemberIDs(ctx, s.members, in.MemberIDs); err != nil {
		return nil, err
	}

	research := in.Research
	staged, replaced, err := s.files.stage(in.Uploads, researchFiles(&research))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to store research files")
		return nil, fmt.Errorf("error storing research files: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.research.Create(ctx, &research); err != nil {
			return err
		}
		if in.MemberIDs != nil {
			return s.links.Sync(ctx, repositories.Teams, research.ID, *in.MemberIDs)
		}
		return nil
	})
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Str("title", research.Title).Msg("Failed to create research")
		return nil, err
	}

	s.logger.Info().Int64("id", research.ID).Msg("Research created")
	return s.project(ctx, research)
}

// Update replaces every field of a research record. Files without a new
// upload are kept; a nil member list leaves the team untouched.
func (s *researchServiceImpl) Update(ctx context.Context, id int64, in *dto.ResearchInput) (*dto.ResearchItem, error) {
	existing, err := s.research.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkMemberIDs(ctx, s.members, in.MemberIDs); err != nil {
		return nil, err
	}

	research := in.Research
	research.ID = id
	research.CreatedAt = existing.CreatedAt
	research.SpecialOrder = existing.SpecialOrder
	research.TerminalReport = existing.TerminalReport

	staged, replaced, err := s.files.stage(in.Uploads, researchFiles(&research))
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to store research files")
		return nil, fmt.Errorf("error storing research files: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.research.Update(ctx, &research); err != nil {
			return err
		}
		if in.MemberIDs != nil {
			return s.links.Sync(ctx, repositories.Teams, id, *in.MemberIDs)
		}
		return nil
	})
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to update research")
		return nil, err
	}

	return s.project(ctx, research)
}

// Delete removes a research record. Its team rows and utilization go with
// it, and so do their stored files.
func (s *researchServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.research.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var certificate []string
	if u, err := s.utilizations.GetByResearchID(ctx, id); err == nil && u.Certificate != nil {
		certificate = append(certificate, *u.Certificate)
	} else if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("error loading utilization: %w", err)
	}

	if err := s.research.Delete(ctx, id); err != nil {
		return err
	}

	s.files.discard(researchFiles(existing).paths()...)
	s.certificates.discard(certificate...)
	s.logger.Info().Int64("id", id).Msg("Research deleted")
	return nil
}

// AddMember links a member to a research record. It reports false when
// the member was already on the team.
func (s *researchServiceImpl) AddMember(ctx context.Context, id, memberID int64) (bool, error) {
	return addMember(ctx, s.links, s.members, repositories.Teams, id, memberID, func(ctx context.Context) error {
		_, err := s.research.GetByID(ctx, id)
		return err
	})
}

// RemoveMember unlinks a member from a research record
func (s *researchServiceImpl) RemoveMember(ctx context.Context, id, memberID int64) error {
	return removeMember(ctx, s.links, repositories.Teams, id, memberID)
}

// Options lists every research for form dropdowns
func (s *researchServiceImpl) Options(ctx context.Context) ([]dto.Option, error) {
	return s.research.Options(ctx)
}

// addMember checks both ends of the pair exist, then links them.
func addMember(ctx context.Context, links memberLinks, members memberIDLookup, l repositories.LinkTable,
	ownerID, memberID int64, ownerExists func(ctx context.Context) error) (bool, error) {
	if err := ownerExists(ctx); err != nil {
		return false, err
	}
	found, err := members.ExistingIDs(ctx, []int64{memberID})
	if err != nil {
		return false, fmt.Errorf("error checking member: %w", err)
	}
	if len(found) == 0 {
		return false, apperrors.FieldError("member_id", "The selected member id is invalid.")
	}
	return links.Link(ctx, l, ownerID, memberID)
}

func removeMember(ctx context.Context, links memberLinks, l repositories.LinkTable, ownerID, memberID int64) error {
	removed, err := links.Unlink(ctx, l, ownerID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewResourceNotFoundError("Member is not linked to this " + strings.ToLower(l.OwnerName))
	}
	return nil
}
