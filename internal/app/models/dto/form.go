package dto

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
	"github.com/yigit/researchdesk/internal/pkg/listquery"
	"github.com/yigit/researchdesk/internal/pkg/validation"
)

// Uploads maps an attachment column to the file supplied for it in this
// request. Columns without a new file are absent.
type Uploads map[string]*multipart.FileHeader

// Columns lists the attachment columns with a new file.
func (u Uploads) Columns() []string {
	return lo.Keys(u)
}

// fileCheck pairs an upload field with its rule.
type fileCheck struct {
	field string
	file  *multipart.FileHeader
	rule  validation.FileRule
}

// collectUploads validates every supplied file and returns the accepted ones.
func collectUploads(v *apperrors.ValidationError, checks ...fileCheck) Uploads {
	uploads := Uploads{}
	for _, c := range checks {
		if c.file == nil {
			continue
		}
		if ferr := c.rule.Check(c.field, c.file); ferr != nil {
			v.Merge(ferr)
			continue
		}
		uploads[c.field] = c.file
	}
	return uploads
}

// startValidation seeds the field messages with whatever binding rejected.
func startValidation(bindErr error) *apperrors.ValidationError {
	if bindErr == nil {
		return apperrors.NewValidationError()
	}
	return validation.FromBindError(bindErr)
}

func optString(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(v *apperrors.ValidationError, field, raw string) *float64 {
	s := optString(raw)
	if s == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		v.Add(field, fmt.Sprintf("The %s must be a number.", validation.Label(field)))
		return nil
	}
	if f < 0 {
		v.Add(field, fmt.Sprintf("The %s must be at least 0.", validation.Label(field)))
		return nil
	}
	return &f
}

func optIntRange(v *apperrors.ValidationError, field, raw string, low, high int) *int {
	s := optString(raw)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		v.Add(field, fmt.Sprintf("The %s must be an integer.", validation.Label(field)))
		return nil
	}
	if n < low || n > high {
		v.Add(field, fmt.Sprintf("The %s must be between %d and %d.", validation.Label(field), low, high))
		return nil
	}
	return &n
}

func optDate(v *apperrors.ValidationError, field, raw string) *time.Time {
	s := optString(raw)
	if s == nil {
		return nil
	}
	t, err := time.Parse(listquery.DateLayout, *s)
	if err != nil {
		v.Add(field, fmt.Sprintf("The %s is not a valid date.", validation.Label(field)))
		return nil
	}
	return &t
}

// MemberIDsField is the form key of a member id list. Both "member_ids[]"
// and "member_ids" are read.
const MemberIDsField = "member_ids"

// ParseMemberIDs reads the member id list of a write form. A nil result
// means the key was not sent and links stay untouched; a present but empty
// list clears them. Ids are de-duplicated in first-seen order.
func ParseMemberIDs(values url.Values, v *apperrors.ValidationError) *[]int64 {
	raw, ok := values[MemberIDsField+"[]"]
	if plain, has := values[MemberIDsField]; has {
		raw, ok = append(raw, plain...), true
	}
	if !ok {
		return nil
	}

	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 1 {
				v.Add(MemberIDsField, "The selected member ids is invalid.")
				continue
			}
			ids = append(ids, id)
		}
	}
	ids = lo.Uniq(ids)
	return &ids
}

// MembershipRequest links one member to a research or publication.
type MembershipRequest struct {
	MemberID int64 `json:"member_id" form:"member_id" binding:"required,min=1" example:"4"`
}

// Option is one entry of a form dropdown.
type Option struct {
	ID    int64  `json:"id" example:"1"`
	Label string `json:"label" example:"Rice yield forecasting"`
}
