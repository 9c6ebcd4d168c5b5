package dto

import (
	"mime/multipart"
	"net/url"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// Publication attachment columns.
const (
	PublicationIncentiveFile = "incentive_file"
	PublicationProductFile   = "product_file"
	PublicationPatentFile    = "patent_file"
)

// PublicationForm is the multipart body of POST /publications/store and
// PATCH /publications/{id}.
type PublicationForm struct {
	Title      string `form:"publication_title" binding:"required,max=255"`
	Journal    string `form:"journal" binding:"required,max=255"`
	Year       string `form:"publication_year" binding:"required,year"`
	Program    string `form:"publication_program" binding:"omitempty,program"`
	ISBN       string `form:"isbn" binding:"omitempty,max=16"`
	PISSN      string `form:"p-issn" binding:"omitempty,max=16"`
	EISSN      string `form:"e-issn" binding:"omitempty,max=16"`
	Publisher  string `form:"publisher" binding:"required,max=120"`
	OnlineView string `form:"online_view" binding:"required,max=255"`

	IncentiveFile *multipart.FileHeader `form:"incentive_file" swaggerignore:"true"`
	ProductFile   *multipart.FileHeader `form:"product_file" swaggerignore:"true"`
	PatentFile    *multipart.FileHeader `form:"patent_file" swaggerignore:"true"`
}

// PublicationInput is a validated publication write.
type PublicationInput struct {
	Publication models.Publication
	Uploads     Uploads
	MemberIDs   *[]int64
}

// ToInput finishes validation of a bound form.
func (f *PublicationForm) ToInput(bindErr error, values url.Values) (*PublicationInput, error) {
	v := startValidation(bindErr)

	p := models.Publication{
		Title:      f.Title,
		Journal:    f.Journal,
		Year:       f.Year,
		ISBN:       optString(f.ISBN),
		PISSN:      optString(f.PISSN),
		EISSN:      optString(f.EISSN),
		Publisher:  f.Publisher,
		OnlineView: f.OnlineView,
	}
	if s := optString(f.Program); s != nil {
		program := models.Program(*s)
		p.Program = &program
	}

	uploads := collectUploads(v,
		fileCheck{PublicationIncentiveFile, f.IncentiveFile, validation.DocumentRule},
		fileCheck{PublicationProductFile, f.ProductFile, validation.DocumentRule},
		fileCheck{PublicationPatentFile, f.PatentFile, validation.DocumentRule},
	)
	memberIDs := ParseMemberIDs(values, v)

	if v.HasErrors() {
		return nil, v
	}
	return &PublicationInput{Publication: p, Uploads: uploads, MemberIDs: memberIDs}, nil
}
