package validators

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sbilibin2017/gw-user-directory/internal/models"
)

// Kind classifies why a field was rejected.
type Kind string

const (
	FieldRequired Kind = "FieldRequired"
	FieldTooShort Kind = "FieldTooShort"
	FieldInvalid  Kind = "FieldInvalid"
)

// Violation describes a single rejected field.
type Violation struct {
	Field   string
	Kind    Kind
	Message string
}

// ValidationError is returned when a candidate user is rejected.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// Kind returns the kind of the first violation.
func (e *ValidationError) Kind() Kind {
	if len(e.Violations) == 0 {
		return FieldInvalid
	}
	return e.Violations[0].Kind
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// userRules mirrors models.UserCandidate with the rules each field must satisfy.
// The age bound matches the INTEGER column of the users table.
type userRules struct {
	Name  *string  `json:"name" validate:"required,min=2"`
	Age   *float64 `json:"age" validate:"required,gte=0,lte=2147483647,whole"`
	Email *string  `json:"email" validate:"required,loose_email"`
}

var messages = map[string]map[Kind]string{
	"name": {
		FieldRequired: "name is required",
		FieldTooShort: "name must be at least 2 characters",
		FieldInvalid:  "name is invalid",
	},
	"age": {
		FieldRequired: "age is required",
		FieldInvalid:  "age must be a non-negative integer",
	},
	"email": {
		FieldRequired: "email is required",
		FieldInvalid:  "email is invalid",
	},
}

// UserValidator checks candidate users before they are written to the store.
type UserValidator struct {
	validate *validator.Validate
}

// NewUserValidator creates a validator with the user rules registered.
func NewUserValidator() *UserValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &UserValidator{validate: v}
}

// Validate normalizes the candidate and checks it against the user rules.
// Name and email are trimmed, email is lowercased, and a field that is
// empty after trimming counts as missing. Address is passed through as is.
func (uv *UserValidator) Validate(candidate models.UserCandidate) (*models.ValidatedUser, error) {
	rules := userRules{
		Name:  normalize(candidate.Name, false),
		Age:   candidate.Age,
		Email: normalize(candidate.Email, true),
	}

	if err := uv.validate.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		return nil, toValidationError(fieldErrs)
	}

	return &models.ValidatedUser{
		Name:    *rules.Name,
		Age:     int(*rules.Age),
		Email:   *rules.Email,
		Address: candidate.Address,
	}, nil
}

func normalize(s *string, lower bool) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if lower {
		v = strings.ToLower(v)
	}
	return &v
}

func toValidationError(fieldErrs validator.ValidationErrors) *ValidationError {
	verr := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		kind := kindOf(fe.Tag())
		verr.Violations = append(verr.Violations, Violation{
			Field:   fe.Field(),
			Kind:    kind,
			Message: messages[fe.Field()][kind],
		})
	}
	return verr
}

func kindOf(tag string) Kind {
	switch tag {
	case "required":
		return FieldRequired
	case "min":
		return FieldTooShort
	default:
		return FieldInvalid
	}
}
