package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
)

func utilizationInput(researchID int64, uploads dto.Uploads) *dto.UtilizationInput {
	return &dto.UtilizationInput{
		Utilization: models.Utilization{
			ResearchID:  researchID,
			Beneficiary: "Municipal Agriculture Office",
			CertDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Uploads: uploads,
	}
}

func TestUtilization_OnePerResearch(t *testing.T) {
	research := newFakeResearch()
	ctx := context.Background()
	r1 := &models.Research{Title: "Rice yield"}
	r2 := &models.Research{Title: "Flood maps"}
	require.NoError(t, research.Create(ctx, r1))
	require.NoError(t, research.Create(ctx, r2))

	storage := newStorage(t)
	svc := NewUtilizationService(newFakeUtilizations(), research, storage, zerolog.Nop())

	first, err := svc.Create(ctx, utilizationInput(r1.ID, dto.Uploads{
		dto.UtilizationCertificate: upload(t, "certificate_of_utilization", "cert.pdf", []byte("%PDF")),
	}))
	require.NoError(t, err)
	require.NotNil(t, first.CertificateURL)

	_, err = svc.Create(ctx, utilizationInput(r1.ID, nil))
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The research id has already been taken.", verr.Fields["research_id"])

	_, err = svc.Create(ctx, utilizationInput(404, nil))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The selected research id is invalid.", verr.Fields["research_id"])

	// Saving a utilization against its own research is not a duplicate,
	// and the certificate survives an update without a new upload.
	same, err := svc.Update(ctx, first.ID, utilizationInput(r1.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, *first.Certificate, *same.Certificate)
	assert.True(t, storage.Exists(*same.Certificate))

	moved, err := svc.Update(ctx, first.ID, utilizationInput(r2.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, r2.ID, moved.ResearchID)

	_, err = svc.Create(ctx, utilizationInput(r1.ID, nil))
	require.NoError(t, err)
}

func TestUtilization_DeleteRemovesCertificate(t *testing.T) {
	research := newFakeResearch()
	ctx := context.Background()
	r := &models.Research{Title: "Rice yield"}
	require.NoError(t, research.Create(ctx, r))

	storage := newStorage(t)
	svc := NewUtilizationService(newFakeUtilizations(), research, storage, zerolog.Nop())
	created, err := svc.Create(ctx, utilizationInput(r.ID, dto.Uploads{
		dto.UtilizationCertificate: upload(t, "certificate_of_utilization", "cert.jpg", []byte("jpeg")),
	}))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.False(t, storage.Exists(*created.Certificate))
	assert.Empty(t, storedFiles(t, storage, UtilizationFilesDir))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
