// Package validation holds the request rules shared by every write endpoint:
// closed-set validator tags, human readable field messages and upload checks.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/pkg/apperrors"
)

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	once        sync.Once
)

// closedSets maps validator tags to the values they accept.
var closedSets = map[string][]string{
	"program":         models.Strings(models.Programs),
	"rank":            models.Strings(models.Ranks),
	"research_type":   models.Strings(models.ResearchTypes),
	"research_status": models.Strings(models.ResearchStatuses),
	"role":            models.Strings(models.Roles),
}

// Register installs the custom tags and form-tag field naming on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.Split(fld.Tag.Get(tag), ",")[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return strings.TrimSuffix(name, "[]")
			}
		}
		return fld.Name
	})

	for tag, allowed := range closedSets {
		allowed := allowed
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for _, a := range allowed {
				if s == a {
					return true
				}
			}
			return false
		})
	}

	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(fl.Field().String())
	})
}

// RegisterWithGin installs the rules on gin's shared validator once.
func RegisterWithGin() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// FromBindError converts a binding or validation failure into field
// messages. Errors that are not validator errors (malformed numbers,
// unreadable bodies) are reported against the "request" field.
func FromBindError(err error) *apperrors.ValidationError {
	out := apperrors.NewValidationError()
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(fe.Field(), Message(fe))
		}
		return out
	}
	return out.Add("request", "The request could not be read: "+err.Error())
}

// Message renders a validator failure the way form screens show it.
func Message(fe validator.FieldError) string {
	name := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", name)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", name)
	case "year":
		return fmt.Sprintf("The %s must be 4 digits.", name)
	case "program", "rank", "research_type", "research_status", "role", "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

// Label turns a field key such as "member_email" into "member email".
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
