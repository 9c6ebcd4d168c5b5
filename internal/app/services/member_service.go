package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// MemberService defines the interface for member operations
type MemberService interface {
	List(ctx context.Context, f dto.MemberFilter, u *url.URL) (*dto.ListResponse[dto.MemberItem], error)
	Get(ctx context.Context, id int64) (*dto.MemberDetail, error)
	Create(ctx context.Context, in *dto.MemberInput) (*dto.MemberItem, error)
	Update(ctx context.Context, id int64, in *dto.MemberInput) (*dto.MemberItem, error)
	Delete(ctx context.Context, id int64) error
	Options(ctx context.Context) ([]dto.Option, error)
}

type memberStore interface {
	List(ctx context.Context, f dto.MemberFilter) ([]models.Member, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, m *models.Member) error
	Update(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Options(ctx context.Context) ([]dto.Option, error)
}

type memberServiceImpl struct {
	members memberStore
	links   memberLinks
	storage filestorage.FileStorage
	photos  *attachments
	logger  zerolog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(members memberStore, links memberLinks, storage filestorage.FileStorage, logger zerolog.Logger) MemberService {
	return &memberServiceImpl{
		members: members,
		links:   links,
		storage: storage,
		photos:  newAttachments(storage, MemberPhotoDir, logger).photos(),
		logger:  logger,
	}
}

func memberFiles(m *models.Member) fileSlots {
	return fileSlots{dto.MemberProfilePhoto: &m.ProfilePhoto}
}

// List returns one page of members with research and publication counts
// computed from links loaded for the whole page.
func (s *memberServiceImpl) List(ctx context.Context, f dto.MemberFilter, u *url.URL) (*dto.ListResponse[dto.MemberItem], error) {
	rows, total, err := s.members.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list members")
		return nil, fmt.Errorf("error listing members: %w", err)
	}

	ids := lo.Map(rows, func(m models.Member, _ int) int64 { return m.ID })
	research, authorships, err := s.loadLinks(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := dto.ProjectMemberList(rows, research, authorships, s.storage)
	resp := dto.NewListResponse(
		listquery.NewPage(items, total, f.Page, u),
		dto.EchoFilters(u.Query(), dto.MemberFilterKeys...),
	)
	return &resp, nil
}

func (s *memberServiceImpl) loadLinks(ctx context.Context, ids []int64) (map[int64][]models.ResearchMembership, map[int64][]models.Authorship, error) {
	research, err := s.links.ResearchOfMembers(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading member research: %w", err)
	}
	authorships, err := s.links.PublicationsOfMembers(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading member publications: %w", err)
	}
	return research, authorships, nil
}

// Get returns a member with the research and publications it is linked to
func (s *memberServiceImpl) Get(ctx context.Context, id int64) (*dto.MemberDetail, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	research, authorships, err := s.loadLinks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	detail := dto.ProjectMemberDetail(*m, research[id], authorships[id], s.storage)
	return &detail, nil
}

func (s *memberServiceImpl) project(ctx context.Context, m models.Member) (*dto.MemberItem, error) {
	research, authorships, err := s.loadLinks(ctx, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	item := dto.ProjectMember(m, research[m.ID], authorships[m.ID], s.storage)
	return &item, nil
}

// checkEmail enforces e-mail uniqueness, ignoring the member being updated.
func (s *memberServiceImpl) checkEmail(ctx context.Context, email *string, exceptID int64) error {
	if email == nil {
		return nil
	}
	taken, err := s.members.EmailTaken(ctx, *email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.FieldError("member_email", "The member email has already been taken.")
	}
	return nil
}

// Create stores a member and its profile photo
func (s *memberServiceImpl) Create(ctx context.Context, in *dto.MemberInput) (*dto.MemberItem, error) {
	if err := s.checkEmail(ctx, in.Member.Email, 0); err != nil {
		return nil, err
	}

	member := in.Member
	staged, replaced, err := s.photos.stage(in.Uploads, memberFiles(&member))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to store profile photo")
		return nil, fmt.Errorf("error storing profile photo: %w", err)
	}

	err = s.members.Create(ctx, &member)
	if err := s.photos.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Str("name", member.FullName).Msg("Failed to create member")
		return nil, err
	}

	s.logger.Info().Int64("id", member.ID).Msg("Member created")
	return s.project(ctx, member)
}

// Update replaces every field of a member; the photo is kept unless a new
// one is uploaded.
func (s *memberServiceImpl) Update(ctx context.Context, id int64, in *dto.MemberInput) (*dto.MemberItem, error) {
	existing, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, in.Member.Email, id); err != nil {
		return nil, err
	}

	member := in.Member
	member.ID = id
	member.CreatedAt = existing.CreatedAt
	member.ProfilePhoto = existing.ProfilePhoto

	staged, replaced, err := s.photos.stage(in.Uploads, memberFiles(&member))
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to store profile photo")
		return nil, fmt.Errorf("error storing profile photo: %w", err)
	}

	err = s.members.Update(ctx, &member)
	if err := s.photos.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to update member")
		return nil, err
	}
	return s.project(ctx, member)
}

// Delete removes a member, its links and its photo
func (s *memberServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.members.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}
	s.photos.discard(memberFiles(existing).paths()...)
	s.logger.Info().Int64("id", id).Msg("Member deleted")
	return nil
}

// Options lists every member for form dropdowns
func (s *memberServiceImpl) Options(ctx context.Context) ([]dto.Option, error) {
	return s.members.Options(ctx)
}
