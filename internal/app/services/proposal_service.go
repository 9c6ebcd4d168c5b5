package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
)

// ProposalService lists research records in their proposal shape
type ProposalService interface {
	List(ctx context.Context, f dto.ProposalFilter, u *url.URL) (*dto.ListResponse[dto.ProposalItem], error)
}

type proposalStore interface {
	ListProposals(ctx context.Context, f dto.ProposalFilter) ([]models.Research, int64, error)
}

type proposalServiceImpl struct {
	research proposalStore
	urls     dto.URLResolver
	logger   zerolog.Logger
}

// NewProposalService creates a new ProposalService
func NewProposalService(research proposalStore, urls dto.URLResolver, logger zerolog.Logger) ProposalService {
	return &proposalServiceImpl{research: research, urls: urls, logger: logger}
}

func (s *proposalServiceImpl) List(ctx context.Context, f dto.ProposalFilter, u *url.URL) (*dto.ListResponse[dto.ProposalItem], error) {
	rows, total, err := s.research.ListProposals(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list proposals")
		return nil, fmt.Errorf("error listing proposals: %w", err)
	}

	items := lo.Map(rows, func(r models.Research, _ int) dto.ProposalItem {
		return dto.ProjectProposal(r, s.urls)
	})
	resp := dto.NewListResponse(
		listquery.NewPage(items, total, f.Page, u),
		dto.EchoFilters(u.Query(), dto.ProposalFilterKeys...),
	)
	return &resp, nil
}
