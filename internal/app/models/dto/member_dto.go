package dto

import (
	"fmt"
	"mime/multipart"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/config"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// MemberProfilePhoto is the member attachment column.
const MemberProfilePhoto = "profile_photo"

// MemberForm is the multipart body of POST /members/store and
// PUT /members/{id}.
type MemberForm struct {
	FullName              string `form:"full_name" binding:"required,max=48"`
	Rank                  string `form:"rank" binding:"required,rank"`
	Designation           string `form:"designation" binding:"omitempty,max=255"`
	Program               string `form:"member_program" binding:"omitempty,program"`
	Email                 string `form:"member_email" binding:"omitempty,email,max=120"`
	ORCID                 string `form:"orcid" binding:"omitempty,max=32"`
	Telephone             string `form:"telephone" binding:"omitempty,max=24"`
	EducationalAttainment string `form:"educational_attainment"`
	Specialization        string `form:"specialization"`
	ResearchInterest      string `form:"research_interest"`
	TeachesGradSchool     string `form:"teaches_grad_school"`

	ProfilePhoto *multipart.FileHeader `form:"profile_photo" swaggerignore:"true"`
}

// MemberInput is a validated member write. E-mail uniqueness needs the
// store and is checked by the service.
type MemberInput struct {
	Member  models.Member
	Uploads Uploads
}

// ToInput finishes validation of a bound form.
func (f *MemberForm) ToInput(bindErr error) (*MemberInput, error) {
	v := startValidation(bindErr)

	m := models.Member{
		FullName:              f.FullName,
		Rank:                  models.Rank(f.Rank),
		Designation:           optString(f.Designation),
		Email:                 optString(f.Email),
		ORCID:                 optString(f.ORCID),
		Telephone:             optString(f.Telephone),
		EducationalAttainment: optString(f.EducationalAttainment),
		Specialization:        optString(f.Specialization),
		ResearchInterest:      optString(f.ResearchInterest),
	}
	if p := optString(f.Program); p != nil {
		program := models.Program(*p)
		m.Program = &program
	}
	if s := optString(f.TeachesGradSchool); s != nil {
		b, ok := config.ParseBool(*s)
		if !ok {
			v.Add("teaches_grad_school", fmt.Sprintf("The %s field must be true or false.", validation.Label("teaches_grad_school")))
		}
		m.TeachesGradSchool = b
	}

	uploads := collectUploads(v, fileCheck{MemberProfilePhoto, f.ProfilePhoto, validation.PhotoRule})

	if v.HasErrors() {
		return nil, v
	}
	return &MemberInput{Member: m, Uploads: uploads}, nil
}
