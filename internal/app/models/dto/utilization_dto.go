package dto

import (
	"mime/multipart"
	"strconv"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// UtilizationCertificate is the utilization attachment column.
const UtilizationCertificate = "certificate_of_utilization"

// UtilizationForm is the multipart body of POST /utilizations and
// PUT /utilizations/{id}.
type UtilizationForm struct {
	ResearchID  string `form:"research_id" binding:"required,number"`
	Beneficiary string `form:"beneficiary" binding:"required,max=255"`
	CertDate    string `form:"cert_date" binding:"required,datetime=2006-01-02"`

	Certificate *multipart.FileHeader `form:"certificate_of_utilization" swaggerignore:"true"`
}

// UtilizationInput is a validated utilization write. That the research
// exists and has no other utilization is checked by the service.
type UtilizationInput struct {
	Utilization models.Utilization
	Uploads     Uploads
}

// ToInput finishes validation of a bound form.
func (f *UtilizationForm) ToInput(bindErr error) (*UtilizationInput, error) {
	v := startValidation(bindErr)

	u := models.Utilization{Beneficiary: f.Beneficiary}
	if id, err := strconv.ParseInt(f.ResearchID, 10, 64); err == nil && id > 0 {
		u.ResearchID = id
	} else {
		v.Add("research_id", "The selected research id is invalid.")
	}
	if d := optDate(v, "cert_date", f.CertDate); d != nil {
		u.CertDate = *d
	}

	uploads := collectUploads(v, fileCheck{UtilizationCertificate, f.Certificate, validation.CertificateRule})

	if v.HasErrors() {
		return nil, v
	}
	return &UtilizationInput{Utilization: u, Uploads: uploads}, nil
}
