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

// UtilizationService defines the interface for utilization operations
type UtilizationService interface {
	List(ctx context.Context, f dto.UtilizationFilter, u *url.URL) (*dto.UtilizationList, error)
	Get(ctx context.Context, id int64) (*dto.UtilizationItem, error)
	Create(ctx context.Context, in *dto.UtilizationInput) (*dto.UtilizationItem, error)
	Update(ctx context.Context, id int64, in *dto.UtilizationInput) (*dto.UtilizationItem, error)
	Delete(ctx context.Context, id int64) error
}

type utilizationStore interface {
	List(ctx context.Context, f dto.UtilizationFilter) ([]models.Utilization, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Utilization, error)
	ExistsForResearch(ctx context.Context, researchID, exceptID int64) (bool, error)
	Create(ctx context.Context, u *models.Utilization) error
	Update(ctx context.Context, u *models.Utilization) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ProgramTotals(ctx context.Context) (map[string]int64, error)
}

type researchLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Options(ctx context.Context) ([]dto.Option, error)
}

type utilizationServiceImpl struct {
	utilizations utilizationStore
	research     researchLookup
	storage      filestorage.FileStorage
	files        *attachments
	logger       zerolog.Logger
}

// NewUtilizationService creates a new UtilizationService
func NewUtilizationService(utilizations utilizationStore, research researchLookup, storage filestorage.FileStorage, logger zerolog.Logger) UtilizationService {
	return &utilizationServiceImpl{
		utilizations: utilizations,
		research:     research,
		storage:      storage,
		files:        newAttachments(storage, UtilizationFilesDir, logger),
		logger:       logger,
	}
}

func utilizationFiles(u *models.Utilization) fileSlots {
	return fileSlots{dto.UtilizationCertificate: &u.Certificate}
}

// List returns one page of utilizations plus the totals and research
// options the screen shows next to it.
func (s *utilizationServiceImpl) List(ctx context.Context, f dto.UtilizationFilter, u *url.URL) (*dto.UtilizationList, error) {
	rows, total, err := s.utilizations.List(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list utilizations")
		return nil, fmt.Errorf("error listing utilizations: %w", err)
	}
	all, err := s.utilizations.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting utilizations: %w", err)
	}
	programTotals, err := s.utilizations.ProgramTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting utilizations per program: %w", err)
	}
	researches, err := s.research.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading research options: %w", err)
	}

	items := lo.Map(rows, func(row models.Utilization, _ int) dto.UtilizationItem {
		return dto.ProjectUtilization(row, s.storage)
	})
	return &dto.UtilizationList{
		ListResponse: dto.NewListResponse(
			listquery.NewPage(items, total, f.Page, u),
			dto.EchoFilters(u.Query(), dto.UtilizationFilterKeys...),
		),
		TotalUtilizations: all,
		ProgramTotals:     programTotals,
		Researches:        researches,
	}, nil
}

func (s *utilizationServiceImpl) Get(ctx context.Context, id int64) (*dto.UtilizationItem, error) {
	u, err := s.utilizations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item := dto.ProjectUtilization(*u, s.storage)
	return &item, nil
}

// checkResearch enforces that the research exists and has no utilization
// other than exceptID.
func (s *utilizationServiceImpl) checkResearch(ctx context.Context, researchID, exceptID int64) error {
	exists, err := s.research.Exists(ctx, researchID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.FieldError("research_id", "The selected research id is invalid.")
	}
	taken, err := s.utilizations.ExistsForResearch(ctx, researchID, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.FieldError("research_id", "The research id has already been taken.")
	}
	return nil
}

func (s *utilizationServiceImpl) Create(ctx context.Context, in *dto.UtilizationInput) (*dto.UtilizationItem, error) {
	if err := s.checkResearch(ctx, in.Utilization.ResearchID, 0); err != nil {
		return nil, err
	}

	utilization := in.Utilization
	staged, replaced, err := s.files.stage(in.Uploads, utilizationFiles(&utilization))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to store utilization certificate")
		return nil, fmt.Errorf("error storing certificate: %w", err)
	}

	err = s.utilizations.Create(ctx, &utilization)
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Int64("researchId", utilization.ResearchID).Msg("Failed to create utilization")
		return nil, err
	}

	s.logger.Info().Int64("id", utilization.ID).Msg("Utilization created")
	// read back for the joined research fields
	return s.Get(ctx, utilization.ID)
}

func (s *utilizationServiceImpl) Update(ctx context.Context, id int64, in *dto.UtilizationInput) (*dto.UtilizationItem, error) {
	existing, err := s.utilizations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkResearch(ctx, in.Utilization.ResearchID, id); err != nil {
		return nil, err
	}

	utilization := in.Utilization
	utilization.ID = id
	utilization.CreatedAt = existing.CreatedAt
	utilization.Certificate = existing.Certificate

	staged, replaced, err := s.files.stage(in.Uploads, utilizationFiles(&utilization))
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to store utilization certificate")
		return nil, fmt.Errorf("error storing certificate: %w", err)
	}

	err = s.utilizations.Update(ctx, &utilization)
	if err := s.files.settle(err, staged, replaced); err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("Failed to update utilization")
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *utilizationServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.utilizations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.utilizations.Delete(ctx, id); err != nil {
		return err
	}
	s.files.discard(utilizationFiles(existing).paths()...)
	s.logger.Info().Int64("id", id).Msg("Utilization deleted")
	return nil
}
