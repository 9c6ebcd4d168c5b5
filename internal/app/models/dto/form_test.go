package dto

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.RegisterWithGin()
}

func bindURLEncoded(t *testing.T, values url.Values, dst any) (url.Values, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	err := c.ShouldBind(dst)
	return c.Request.PostForm, err
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr.Fields
}

func validResearchValues() url.Values {
	return url.Values{
		"research_title": {"X"},
		"type":           {"study"},
		"program":        {"BSIT"},
		"status":         {"ongoing"},
	}
}

func TestResearchForm_MissingAndUnknownValues(t *testing.T) {
	values := url.Values{"type": {"essay"}, "program": {"BSIT"}, "status": {"ongoing"}}
	var form ResearchForm
	posted, bindErr := bindURLEncoded(t, values, &form)

	_, err := form.ToInput(bindErr, posted)

	fields := fieldsOf(t, err)
	assert.Equal(t, "The research title field is required.", fields["research_title"])
	assert.Equal(t, "The selected type is invalid.", fields["type"])
	assert.NotContains(t, fields, "program")
}

func TestResearchForm_ToInput(t *testing.T) {
	values := validResearchValues()
	values.Set("estimated_budget", "15000.50")
	values.Set("completion_percentage", "")
	values.Set("start_date", "2024-06-01")
	values["member_ids[]"] = []string{"2", "1", "2"}

	var form ResearchForm
	posted, bindErr := bindURLEncoded(t, values, &form)
	input, err := form.ToInput(bindErr, posted)

	require.NoError(t, err)
	assert.Equal(t, "X", input.Research.Title)
	assert.Equal(t, models.ResearchTypeStudy, input.Research.Type)
	require.NotNil(t, input.Research.EstimatedBudget)
	assert.InDelta(t, 15000.50, *input.Research.EstimatedBudget, 0.001)
	assert.Nil(t, input.Research.CompletionPercentage)
	assert.Nil(t, input.Research.BudgetUtilized)
	assert.Equal(t, 2024, input.Research.StartDate.Year())
	require.NotNil(t, input.MemberIDs)
	assert.Equal(t, []int64{2, 1}, *input.MemberIDs)
	assert.Empty(t, input.Uploads)
}

func TestResearchForm_NumericBounds(t *testing.T) {
	values := validResearchValues()
	values.Set("completion_percentage", "150")
	values.Set("budget_utilized", "-1")

	var form ResearchForm
	posted, bindErr := bindURLEncoded(t, values, &form)
	_, err := form.ToInput(bindErr, posted)

	fields := fieldsOf(t, err)
	assert.Equal(t, "The completion percentage must be between 0 and 100.", fields["completion_percentage"])
	assert.Equal(t, "The budget utilized must be at least 0.", fields["budget_utilized"])
}

func TestResearchForm_RejectsWrongDocumentType(t *testing.T) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range validResearchValues() {
		require.NoError(t, w.WriteField(k, v[0]))
	}
	part, err := w.CreateFormFile("terminal_report", "report.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("just some plain text, not a document"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var form ResearchForm
	bindErr := c.ShouldBind(&form)
	require.NotNil(t, form.TerminalReport)

	_, err = form.ToInput(bindErr, c.Request.PostForm)
	fields := fieldsOf(t, err)
	assert.Equal(t, "The terminal report must be a file of type: pdf, doc, docx.", fields["terminal_report"])
}

func TestParseMemberIDs(t *testing.T) {
	v := apperrors.NewValidationError()

	assert.Nil(t, ParseMemberIDs(url.Values{}, v))

	cleared := ParseMemberIDs(url.Values{"member_ids[]": {""}}, v)
	require.NotNil(t, cleared)
	assert.Empty(t, *cleared)

	mixed := ParseMemberIDs(url.Values{"member_ids": {"3,4"}, "member_ids[]": {"4"}}, v)
	assert.Equal(t, []int64{4, 3}, *mixed)
	assert.False(t, v.HasErrors())

	ParseMemberIDs(url.Values{"member_ids[]": {"abc"}}, v)
	assert.Contains(t, v.Fields, "member_ids")
}

func TestMemberForm_ToInput(t *testing.T) {
	values := url.Values{
		"full_name":           {"Ana Reyes"},
		"rank":                {"Associate Professor"},
		"member_program":      {"BLIS"},
		"member_email":        {"ana@university.edu"},
		"teaches_grad_school": {"1"},
	}
	var form MemberForm
	_, bindErr := bindURLEncoded(t, values, &form)

	input, err := form.ToInput(bindErr)

	require.NoError(t, err)
	assert.True(t, input.Member.TeachesGradSchool)
	assert.Equal(t, models.ProgramBLIS, *input.Member.Program)
	assert.Nil(t, input.Member.Designation)
}

func TestMemberForm_Rules(t *testing.T) {
	values := url.Values{
		"full_name":           {strings.Repeat("a", 49)},
		"rank":                {"Dean"},
		"member_email":        {"not-an-email"},
		"teaches_grad_school": {"perhaps"},
	}
	var form MemberForm
	_, bindErr := bindURLEncoded(t, values, &form)

	_, err := form.ToInput(bindErr)

	fields := fieldsOf(t, err)
	assert.Equal(t, "The full name may not be greater than 48 characters.", fields["full_name"])
	assert.Equal(t, "The selected rank is invalid.", fields["rank"])
	assert.Equal(t, "The member email must be a valid email address.", fields["member_email"])
	assert.Equal(t, "The teaches grad school field must be true or false.", fields["teaches_grad_school"])
}

func TestPublicationForm_Rules(t *testing.T) {
	values := url.Values{
		"publication_title": {"Title"},
		"journal":           {"J"},
		"publication_year":  {"24"},
		"publisher":         {"P"},
		"online_view":       {"https://example.org"},
		"p-issn":            {strings.Repeat("1", 17)},
	}
	var form PublicationForm
	posted, bindErr := bindURLEncoded(t, values, &form)

	_, err := form.ToInput(bindErr, posted)

	fields := fieldsOf(t, err)
	assert.Equal(t, "The publication year must be 4 digits.", fields["publication_year"])
	assert.Equal(t, "The p-issn may not be greater than 16 characters.", fields["p-issn"])
}

func TestUtilizationForm_ToInput(t *testing.T) {
	values := url.Values{"research_id": {"5"}, "beneficiary": {"LGU"}, "cert_date": {"2024-02-29"}}
	var form UtilizationForm
	_, bindErr := bindURLEncoded(t, values, &form)

	input, err := form.ToInput(bindErr)

	require.NoError(t, err)
	assert.Equal(t, int64(5), input.Utilization.ResearchID)
	assert.Equal(t, 29, input.Utilization.CertDate.Day())

	var bad UtilizationForm
	_, bindErr = bindURLEncoded(t, url.Values{"research_id": {"0"}, "cert_date": {"yesterday"}}, &bad)
	_, err = bad.ToInput(bindErr)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "beneficiary")
	assert.Contains(t, fields, "cert_date")
	assert.Contains(t, fields, "research_id")
}
