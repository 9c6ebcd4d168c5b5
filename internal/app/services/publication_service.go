package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/repositories"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// PublicationService defines the interface for publication operations
type PublicationService interface {
	List(ctx context.Context, f dto.PublicationFilter, u *url.URL) (*dto.ListResponse[dto.PublicationItem], error)
	Get(ctx context.Context, id int64) (*dto.PublicationItem, error)
	Create(ctx context.Context, in *dto.PublicationInput) (*dto.PublicationItem, error)
	Update(ctx context.Context, id int64, in *dto.PublicationInput) (*dto.PublicationItem, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, id, memberID int64) (bool, error)
	RemoveMember(ctx context.Context, id, memberID int64) error
}

type publicationStore interface {
	List(ctx context.Context, f dto.PublicationFilter) ([]models.Publication, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Publication, error)
	Create(ctx context.Context, p *models.Publication) error
	Update(ctx context.Context, p *models.Publication) error
	Delete(ctx context.Context, id int64) error
}

type publicationServiceImpl struct {
	tx           Transactor
	publications publicationStore
	members      memberIDLookup
	links        memberLinks
	storage      filestorage.FileStorage
	files        *attachments
	logger       zerolog.Logger
}

// NewPublicationService creates a new PublicationService
func NewPublicationService(
	tx Transactor,
	publications publicationStore,
	members memberIDLookup,
	links memberLinks,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) PublicationService {
	return &publicationServiceImpl{
		tx:           tx,
		publications: publications,
		members:      members,
		links:        links,
		storage:      storage,
		files:        newAttachments(storage, PublicationDocumentsDir, logger),
		logger:       logger,
	}
}

func publicationFiles(p *models.Publication) fileSlots {
	return fileSlots{
		dto.PublicationIncentiveFile: &p.IncentiveFile,
		dto.PublicationProductFile:   &p.ProductFile,
		dto.PublicationPatentFile:    &p.PatentFile,
	}
}

func (s *publicationServiceImpl) List(ctx context.Context, f dto.PublicationFilter, u *url.URL) (*dto.ListResponse[dto.PublicationItem], error) {
	rows, total, err := s.publications.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list publications")
		return nil, fmt.Errorf("error listing publications: %w", err)
	}

	members, err := s.links.MembersOf(ctx, repositories.Authors, lo.Map(rows, func(p models.Publication, _ int) int64 { return p.ID }))
	if err != nil {
		return nil, fmt.Errorf("error loading publication authors: %w", err)
	}

	resp := dto.NewListResponse(
		listquery.NewPage(dto.ProjectPublicationList(rows, members, s.storage), total, f.Page, u),
		dto.EchoFilters(u.Query(), dto.PublicationFilterKeys...),
	)
	return &resp, nil
}

func (s *publicationServiceImpl) project(ctx context.Context, p models.Publication) (*dto.PublicationItem, error) {
	members, err := s.links.MembersOf(ctx, repositories.Authors, []int64{p.ID})
	if err != nil {
		return nil, fmt.Errorf("error loading publication authors: %w", err)
	}
	item := dto.ProjectPublication(p, members[p.ID], s.storage)
	return &item, nil
}

func (s *publicationServiceImpl) Get(ctx context.Context, id int64) (*dto.PublicationItem, error) {
	p, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, *p)
}

func (s *publicationServiceImpl) Create(ctx context.Context, in *dto.PublicationInput) (*dto.PublicationItem, error) {
	if err := checkMemberIDs(ctx, s.members, in.MemberIDs); err != nil {
		return nil, err
	}

	publication := in.Publication
	staged, replaced, err := s.files.stage(in.Uploads, publicationFiles(&publication))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to store publication files")
		return nil, fmt.Errorf("error storing publication files: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.publications.Create(ctx, &publication); err != nil {
			return err
		}
		if in.MemberIDs != nil {
			return s.links.Sync(ctx, repositories.Authors, publication.ID, *in.MemberIDs)
		}
		return nil
	})
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Str("title", publication.Title).Msg("Failed to create publication")
		return nil, err
	}

	s.logger.Info().Int64("id", publication.ID).Msg("Publication created")
	return s.project(ctx, publication)
}

func (s *publicationServiceImpl) Update(ctx context.Context, id int64, in *dto.PublicationInput) (*dto.PublicationItem, error) {
	existing, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkMemberIDs(ctx, s.members, in.MemberIDs); err != nil {
		return nil, err
	}

	publication := in.Publication
	publication.ID = id
	publication.CreatedAt = existing.CreatedAt
	publication.IncentiveFile = existing.IncentiveFile
	publication.ProductFile = existing.ProductFile
	publication.PatentFile = existing.PatentFile

	staged, replaced, err := s.files.stage(in.Uploads, publicationFiles(&publication))
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to store publication files")
		return nil, fmt.Errorf("error storing publication files: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.publications.Update(ctx, &publication); err != nil {
			return err
		}
		if in.MemberIDs != nil {
			return s.links.Sync(ctx, repositories.Authors, id, *in.MemberIDs)
		}
		return nil
	})
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to update publication")
		return nil, err
	}
	return s.project(ctx, publication)
}

func (s *publicationServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.publications.Delete(ctx, id); err != nil {
		return err
	}
	s.files.discard(publicationFiles(existing).paths()...)
	s.logger.Info().Int64("id", id).Msg("Publication deleted")
	return nil
}

func (s *publicationServiceImpl) AddMember(ctx context.Context, id, memberID int64) (bool, error) {
	return addMember(ctx, s.links, s.members, repositories.Authors, id, memberID, func(ctx context.Context) error {
		_, err := s.publications.GetByID(ctx, id)
		return err
	})
}

func (s *publicationServiceImpl) RemoveMember(ctx context.Context, id, memberID int64) error {
	return removeMember(ctx, s.links, repositories.Authors, id, memberID)
}
