package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/repositories"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
)

type publicationFixture struct {
	svc          PublicationService
	publications *fakePublications
	links        *fakeLinks
	storage      *filestorage.LocalStorage
}

func newPublicationFixture(t *testing.T, members ...int64) *publicationFixture {
	t.Helper()
	known := fakeMemberIDs{}
	for _, id := range members {
		known[id] = true
	}
	f := &publicationFixture{
		publications: newFakePublications(),
		links:        newFakeLinks(),
		storage:      newStorage(t),
	}
	f.svc = NewPublicationService(fakeTx{}, f.publications, known, f.links, f.storage, zerolog.Nop())
	return f
}

func publicationInput(title string, uploads dto.Uploads, memberIDs *[]int64) *dto.PublicationInput {
	return &dto.PublicationInput{
		Publication: models.Publication{
			Title:      title,
			Journal:    "Philippine Journal of Science",
			Year:       "2023",
			Publisher:  "DOST",
			OnlineView: "https://example.org/pjs",
		},
		Uploads:   uploads,
		MemberIDs: memberIDs,
	}
}

func allPublicationFiles(t *testing.T) dto.Uploads {
	t.Helper()
	return dto.Uploads{
		dto.PublicationIncentiveFile: upload(t, "incentive_file", "incentive.pdf", []byte("incentive")),
		dto.PublicationProductFile:   upload(t, "product_file", "product.pdf", []byte("product")),
		dto.PublicationPatentFile:    upload(t, "patent_file", "patent.pdf", []byte("patent")),
	}
}

func TestPublicationCreate_StoresFilesAndAuthors(t *testing.T) {
	f := newPublicationFixture(t, 1, 2)

	item, err := f.svc.Create(context.Background(), publicationInput("Mangrove survey", allPublicationFiles(t), ids(2, 1)))
	require.NoError(t, err)

	for _, path := range []*string{item.IncentiveFile, item.ProductFile, item.PatentFile} {
		require.NotNil(t, path)
		assert.True(t, f.storage.Exists(*path))
	}
	assert.Equal(t, "/storage/"+*item.PatentFile, *item.PatentFileURL)
	assert.Equal(t, []int64{1, 2}, f.links.memberIDs(repositories.Authors, item.ID))
	assert.Len(t, item.Members, 2)
	assert.Len(t, storedFiles(t, f.storage, PublicationDocumentsDir), 3)
}

func TestPublicationCreate_UnknownMemberIDs(t *testing.T) {
	f := newPublicationFixture(t, 1)

	_, err := f.svc.Create(context.Background(), publicationInput("Mangrove survey", allPublicationFiles(t), ids(1, 7)))

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The selected member ids is invalid.", verr.Fields[dto.MemberIDsField])
	assert.Empty(t, f.publications.rows)
	assert.Empty(t, storedFiles(t, f.storage, PublicationDocumentsDir))
}

func TestPublicationUpdate_ReplacesOneOfThreeFiles(t *testing.T) {
	f := newPublicationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, publicationInput("Mangrove survey", allPublicationFiles(t), nil))
	require.NoError(t, err)
	oldIncentive, oldProduct, oldPatent := *created.IncentiveFile, *created.ProductFile, *created.PatentFile

	updated, err := f.svc.Update(ctx, created.ID, publicationInput("Mangrove survey, 2nd ed.", dto.Uploads{
		dto.PublicationProductFile: upload(t, "product_file", "product.pdf", []byte("product v2")),
	}, nil))
	require.NoError(t, err)

	assert.Equal(t, "Mangrove survey, 2nd ed.", updated.Title)
	assert.NotEqual(t, oldProduct, *updated.ProductFile)
	assert.False(t, f.storage.Exists(oldProduct))
	assert.True(t, f.storage.Exists(*updated.ProductFile))
	assert.Equal(t, oldIncentive, *updated.IncentiveFile)
	assert.Equal(t, oldPatent, *updated.PatentFile)
	assert.True(t, f.storage.Exists(oldIncentive))
	assert.True(t, f.storage.Exists(oldPatent))
	assert.Len(t, storedFiles(t, f.storage, PublicationDocumentsDir), 3)

	detail, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "/storage/"+*updated.ProductFile, *detail.ProductFileURL)
	assert.Equal(t, "/storage/"+oldIncentive, *detail.IncentiveFileURL)
}

func TestPublicationUpdate_FailedSaveKeepsOldFiles(t *testing.T) {
	f := newPublicationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, publicationInput("Mangrove survey", allPublicationFiles(t), nil))
	require.NoError(t, err)
	before := storedFiles(t, f.storage, PublicationDocumentsDir)

	f.publications.updateErr = errStoreDown
	_, err = f.svc.Update(ctx, created.ID, publicationInput("Mangrove survey", dto.Uploads{
		dto.PublicationPatentFile: upload(t, "patent_file", "patent.pdf", []byte("patent v2")),
	}, nil))
	require.ErrorIs(t, err, errStoreDown)

	assert.Equal(t, before, storedFiles(t, f.storage, PublicationDocumentsDir))
}

func TestPublicationDelete_RemovesAllFiles(t *testing.T) {
	f := newPublicationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, publicationInput("Mangrove survey", allPublicationFiles(t), nil))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.False(t, f.storage.Exists(*created.IncentiveFile))
	assert.False(t, f.storage.Exists(*created.ProductFile))
	assert.False(t, f.storage.Exists(*created.PatentFile))
	assert.Empty(t, storedFiles(t, f.storage, PublicationDocumentsDir))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), apperrors.ErrResourceNotFound)
}

func TestPublicationMembers_LinkIsIdempotent(t *testing.T) {
	f := newPublicationFixture(t, 3)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, publicationInput("Mangrove survey", nil, nil))
	require.NoError(t, err)

	added, err := f.svc.AddMember(ctx, created.ID, 3)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.svc.AddMember(ctx, created.ID, 3)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []int64{3}, f.links.memberIDs(repositories.Authors, created.ID))
	assert.Empty(t, f.links.memberIDs(repositories.Teams, created.ID))

	_, err = f.svc.AddMember(ctx, created.ID, 8)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "member_id")

	require.NoError(t, f.svc.RemoveMember(ctx, created.ID, 3))
	err = f.svc.RemoveMember(ctx, created.ID, 3)
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Member is not linked to this publication", err.Error())
}
