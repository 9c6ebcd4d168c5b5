package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/app/repositories"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/filestorage"
)

var errStoreDown = errors.New("store down")

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// upload builds a real multipart file header, the same shape gin hands to
// controllers.
func upload(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func newStorage(t *testing.T) *filestorage.LocalStorage {
	t.Helper()
	ls, err := filestorage.NewLocalStorage(t.TempDir(), "/storage")
	require.NoError(t, err)
	return ls
}

// storedFiles lists every file under dir of the storage root.
func storedFiles(t *testing.T, ls *filestorage.LocalStorage, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(ls.BasePath(), filepath.FromSlash(dir)))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, dir+"/"+e.Name())
	}
	sort.Strings(out)
	return out
}

// stuckStorage refuses to delete anything.
type stuckStorage struct {
	*filestorage.LocalStorage
}

func (stuckStorage) DeleteFile(string) error {
	return errors.New("permission denied")
}

type fakeResearch struct {
	rows      map[int64]*models.Research
	nextID    int64
	updateErr error
}

func newFakeResearch() *fakeResearch {
	return &fakeResearch{rows: map[int64]*models.Research{}}
}

func (f *fakeResearch) List(_ context.Context, _ dto.ResearchFilter) ([]models.Research, int64, error) {
	var out []models.Research
	for _, r := range f.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeResearch) GetByID(_ context.Context, id int64) (*models.Research, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Research not found")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResearch) Create(_ context.Context, r *models.Research) error {
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeResearch) Update(_ context.Context, r *models.Research) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *r
	f.rows[r.ID] = &cp
	return nil
}

func (f *fakeResearch) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.NewResourceNotFoundError("Research not found")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeResearch) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeResearch) Options(_ context.Context) ([]dto.Option, error) {
	var out []dto.Option
	for _, r := range f.rows {
		out = append(out, dto.Option{ID: r.ID, Label: r.Title})
	}
	return out, nil
}

type fakeMemberIDs map[int64]bool

func (f fakeMemberIDs) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if f[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type linkKey struct {
	table         string
	owner, member int64
}

type fakeLinks struct {
	pairs map[linkKey]bool
}

func newFakeLinks() *fakeLinks {
	return &fakeLinks{pairs: map[linkKey]bool{}}
}

func (f *fakeLinks) Sync(_ context.Context, l repositories.LinkTable, ownerID int64, memberIDs []int64) error {
	for k := range f.pairs {
		if k.table == l.Table && k.owner == ownerID {
			delete(f.pairs, k)
		}
	}
	for _, id := range memberIDs {
		f.pairs[linkKey{l.Table, ownerID, id}] = true
	}
	return nil
}

func (f *fakeLinks) Link(_ context.Context, l repositories.LinkTable, ownerID, memberID int64) (bool, error) {
	k := linkKey{l.Table, ownerID, memberID}
	if f.pairs[k] {
		return false, nil
	}
	f.pairs[k] = true
	return true, nil
}

func (f *fakeLinks) Unlink(_ context.Context, l repositories.LinkTable, ownerID, memberID int64) (bool, error) {
	k := linkKey{l.Table, ownerID, memberID}
	if !f.pairs[k] {
		return false, nil
	}
	delete(f.pairs, k)
	return true, nil
}

func (f *fakeLinks) MembersOf(_ context.Context, l repositories.LinkTable, ownerIDs []int64) (map[int64][]models.Member, error) {
	out := map[int64][]models.Member{}
	for _, owner := range ownerIDs {
		for k := range f.pairs {
			if k.table == l.Table && k.owner == owner {
				out[owner] = append(out[owner], models.Member{ID: k.member, FullName: "Member"})
			}
		}
		sort.Slice(out[owner], func(i, j int) bool { return out[owner][i].ID < out[owner][j].ID })
	}
	return out, nil
}

func (f *fakeLinks) ResearchOfMembers(_ context.Context, _ []int64) (map[int64][]models.ResearchMembership, error) {
	return map[int64][]models.ResearchMembership{}, nil
}

func (f *fakeLinks) PublicationsOfMembers(_ context.Context, _ []int64) (map[int64][]models.Authorship, error) {
	return map[int64][]models.Authorship{}, nil
}

func (f *fakeLinks) memberIDs(l repositories.LinkTable, ownerID int64) []int64 {
	var out []int64
	for k := range f.pairs {
		if k.table == l.Table && k.owner == ownerID {
			out = append(out, k.member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type fakeUtilizations struct {
	rows   map[int64]*models.Utilization
	nextID int64
}

func newFakeUtilizations() *fakeUtilizations {
	return &fakeUtilizations{rows: map[int64]*models.Utilization{}}
}

func (f *fakeUtilizations) List(_ context.Context, _ dto.UtilizationFilter) ([]models.Utilization, int64, error) {
	var out []models.Utilization
	for _, u := range f.rows {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUtilizations) GetByID(_ context.Context, id int64) (*models.Utilization, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Utilization not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUtilizations) GetByResearchID(_ context.Context, researchID int64) (*models.Utilization, error) {
	for _, u := range f.rows {
		if u.ResearchID == researchID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("Utilization not found")
}

func (f *fakeUtilizations) ExistsForResearch(_ context.Context, researchID, exceptID int64) (bool, error) {
	for _, u := range f.rows {
		if u.ResearchID == researchID && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUtilizations) Create(_ context.Context, u *models.Utilization) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUtilizations) Update(_ context.Context, u *models.Utilization) error {
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUtilizations) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeUtilizations) Count(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeUtilizations) ProgramTotals(_ context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type fakeMembers struct {
	rows   map[int64]*models.Member
	nextID int64
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{rows: map[int64]*models.Member{}}
}

func (f *fakeMembers) List(_ context.Context, _ dto.MemberFilter) ([]models.Member, int64, error) {
	var out []models.Member
	for _, m := range f.rows {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMembers) GetByID(_ context.Context, id int64) (*models.Member, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Member not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMembers) Create(_ context.Context, m *models.Member) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMembers) Update(_ context.Context, m *models.Member) error {
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMembers) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeMembers) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	for _, m := range f.rows {
		if m.ID != exceptID && m.Email != nil && strings.EqualFold(*m.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembers) Options(_ context.Context) ([]dto.Option, error) {
	return nil, nil
}

func (f *fakeMembers) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	known := fakeMemberIDs{}
	for id := range f.rows {
		known[id] = true
	}
	return known.ExistingIDs(ctx, ids)
}

type fakeUsers struct {
	rows    map[int64]*models.User
	nextID  int64
	logins  []time.Time
	created int64
	monthly map[string]int64
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{rows: map[int64]*models.User{}, monthly: map[string]int64{}}
	for _, u := range users {
		cp := u
		f.rows[u.ID] = &cp
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
	}
	return f
}

func (f *fakeUsers) List(_ context.Context, _ dto.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.rows {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("User not found")
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.NewResourceNotFoundError("User not found")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUsers) TouchLogin(_ context.Context, id int64, at time.Time) error {
	f.rows[id].LastLoginAt = &at
	return nil
}

func (f *fakeUsers) TouchLogout(_ context.Context, id int64, at time.Time) error {
	f.rows[id].LastLogoutAt = &at
	return nil
}

func (f *fakeUsers) LoginTimesSince(_ context.Context, since time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, t := range f.logins {
		if !t.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeUsers) CountCreatedSince(_ context.Context, _ time.Time) (int64, error) {
	return f.created, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeUsers) CreatedPerMonth(_ context.Context, _ time.Time, _ string) (map[string]int64, error) {
	return f.monthly, nil
}

type fixedMonthly map[string]int64

func (f fixedMonthly) CreatedPerMonth(_ context.Context, _ time.Time, _ string) (map[string]int64, error) {
	return f, nil
}

type fakePublications struct {
	rows      map[int64]*models.Publication
	nextID    int64
	updateErr error
}

func newFakePublications() *fakePublications {
	return &fakePublications{rows: map[int64]*models.Publication{}}
}

func (f *fakePublications) List(_ context.Context, _ dto.PublicationFilter) ([]models.Publication, int64, error) {
	var out []models.Publication
	for _, p := range f.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakePublications) GetByID(_ context.Context, id int64) (*models.Publication, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Publication not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePublications) Create(_ context.Context, p *models.Publication) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePublications) Update(_ context.Context, p *models.Publication) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePublications) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.NewResourceNotFoundError("Publication not found")
	}
	delete(f.rows, id)
	return nil
}
