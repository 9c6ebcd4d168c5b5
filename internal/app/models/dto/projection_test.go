package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
)

type prefixURLs string

func (p prefixURLs) URL(path string) string { return string(p) + "/" + path }

func strPtr(s string) *string { return &s }

func TestProjectMember_CountsFromLoadedLinks(t *testing.T) {
	m := models.Member{ID: 7, FullName: "Ana Reyes", Rank: "Instructor", ProfilePhoto: strPtr("members/picture/a.png")}
	research := []models.ResearchMembership{
		{MemberID: 7, ResearchID: 1, Status: models.StatusOngoing},
		{MemberID: 7, ResearchID: 2, Status: models.StatusOngoing},
		{MemberID: 7, ResearchID: 3, Status: models.StatusCompleted},
		{MemberID: 7, ResearchID: 4, Status: models.StatusTerminated},
	}
	authorships := []models.Authorship{
		{MemberID: 7, PublicationID: 10},
		{MemberID: 7, PublicationID: 11},
	}

	item := ProjectMember(m, research, authorships, prefixURLs("/storage"))

	assert.Equal(t, 2, item.Ongoing)
	assert.Equal(t, 1, item.Completed)
	assert.Equal(t, 2, item.PublicationCount)
	require.NotNil(t, item.ProfilePhotoURL)
	assert.Equal(t, "/storage/members/picture/a.png", *item.ProfilePhotoURL)
}

func TestProjectMemberList_MissingLinksCountZero(t *testing.T) {
	rows := []models.Member{{ID: 1}, {ID: 2}}
	research := map[int64][]models.ResearchMembership{
		1: {{MemberID: 1, ResearchID: 5, Status: models.StatusCompleted}},
	}

	items := ProjectMemberList(rows, research, nil, nil)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Completed)
	assert.Zero(t, items[1].Ongoing)
	assert.Zero(t, items[1].Completed)
	assert.Zero(t, items[1].PublicationCount)
	assert.Nil(t, items[1].ProfilePhotoURL)
}

func TestProjectResearchList_AttachesMembersPerRow(t *testing.T) {
	rows := []models.Research{
		{ID: 1, Title: "X", TerminalReport: strPtr("research/documents/r.pdf")},
		{ID: 2, Title: "Y"},
	}
	members := map[int64][]models.Member{
		1: {{ID: 1, FullName: "A"}, {ID: 2, FullName: "B"}},
	}

	items := ProjectResearchList(rows, members, prefixURLs("http://files"))

	require.Len(t, items, 2)
	assert.Len(t, items[0].Members, 2)
	assert.Equal(t, "B", items[0].Members[1].FullName)
	assert.Equal(t, "http://files/research/documents/r.pdf", *items[0].TerminalReportURL)
	assert.Nil(t, items[0].SpecialOrderURL)
	assert.NotNil(t, items[1].Members)
	assert.Empty(t, items[1].Members)
}

func TestProjectUtilization_ProgramFlags(t *testing.T) {
	u := models.Utilization{ID: 3, ResearchProgram: models.ProgramBLIS}

	item := ProjectUtilization(u, nil)

	assert.Equal(t, 0, item.BSIT)
	assert.Equal(t, 1, item.BLIS)
	assert.Equal(t, 0, item.BSCS)
}

func TestProjectProposal_FormatsStartDate(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	pct := 40
	item := ProjectProposal(models.Research{ID: 9, Title: "Z", StartDate: &start, CompletionPercentage: &pct}, nil)

	require.NotNil(t, item.StartDate)
	assert.Equal(t, "2024-06-01", *item.StartDate)
	assert.Equal(t, 40, *item.CompletionPercentage)
}

func TestDashboardFilter(t *testing.T) {
	f := ParseDashboardFilter(map[string][]string{"program": {"all"}, "year": {"2024"}})
	assert.Nil(t, f.Program)
	require.NotNil(t, f.Year)
	assert.Equal(t, map[string]string{"program": "all", "year": "2024"}, f.Echo())

	f = ParseDashboardFilter(map[string][]string{"program": {"BSIT"}})
	assert.Equal(t, models.ProgramBSIT, *f.Program)
	assert.Equal(t, "all", f.Echo()["year"])
}

func TestEchoFilters_OnlyPresentKeys(t *testing.T) {
	q := map[string][]string{"program": {"any"}, "search": {""}, "page": {"2"}}
	assert.Equal(t, map[string]string{"program": "any", "search": ""}, EchoFilters(q, ResearchFilterKeys...))
}
