// Package validation checks flat request records against per-operation rules.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Record is a flat view of a request body.
type Record map[string]string

type Result struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"isValid"`
}

// Rule checks one field. A non-empty Required is the message reported when the
// field is missing or blank; Date asks for the value, when present, to parse.
// Min and Max bound the length in characters and report Length.
type Rule struct {
	Field    string
	Required string
	Date     bool
	Email    string
	Min, Max int
	Length   string
}

type Rules []Rule

const (
	invalidDate  = "Not a valid date"
	invalidValue = "Invalid value"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// tag renders r as a validator tag string.
func (r Rule) tag() string {
	tags := []string{"omitempty"}
	if r.Required != "" {
		tags[0] = "required"
	}
	if r.Email != "" {
		tags = append(tags, "email")
	}
	if r.Date {
		tags = append(tags, "date")
	}
	if r.Min > 0 {
		tags = append(tags, "min="+strconv.Itoa(r.Min))
	}
	if r.Max > 0 {
		tags = append(tags, "max="+strconv.Itoa(r.Max))
	}
	return strings.Join(tags, ",")
}

func (r Rule) message(tag string) string {
	switch tag {
	case "required":
		return r.Required
	case "email":
		return r.Email
	case "date":
		return invalidDate
	case "min", "max":
		return r.Length
	}
	return invalidValue
}

// Validate trims every field named by rs and reports the first failing check
// per field.
func (rs Rules) Validate(in Record) Result {
	data := make(map[string]interface{}, len(rs))
	tags := make(map[string]interface{}, len(rs))
	byField := make(map[string]Rule, len(rs))
	for _, r := range rs {
		data[r.Field] = strings.TrimSpace(in[r.Field])
		tags[r.Field] = r.tag()
		byField[r.Field] = r
	}

	errs := map[string]string{}
	for field, failure := range validate.ValidateMap(data, tags) {
		err, _ := failure.(error)
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			errs[field] = byField[field].message(fieldErrs[0].Tag())
			continue
		}
		errs[field] = invalidValue
	}
	return Result{Errors: errs, IsValid: len(errs) == 0}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDate accepts the date forms clients send for experience and education.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

var (
	Register = Rules{
		{Field: "name", Required: "Name field is required", Min: 2, Max: 30, Length: "Name must be between 2 and 30 characters"},
		{Field: "email", Required: "Email field is required", Email: "Email is invalid"},
		{Field: "password", Required: "Password field is required", Min: 6, Max: 30, Length: "Password must be between 6 and 30 characters"},
	}

	Login = Rules{
		{Field: "email", Required: "Email field is required"},
		{Field: "password", Required: "Password field is required"},
	}

	Post = Rules{
		{Field: "text", Required: "Text field is required"},
	}

	Comment = Rules{
		{Field: "text", Required: "Text field is required"},
	}

	Profile = Rules{
		{Field: "handle", Required: "Profile handle is required"},
		{Field: "status", Required: "Status field is required"},
		{Field: "skills", Required: "Skills field is required"},
	}

	Experience = Rules{
		{Field: "title", Required: "Job title field is required"},
		{Field: "company", Required: "Company field is required"},
		{Field: "from", Required: "From date field is required", Date: true},
		{Field: "to", Date: true},
	}

	Education = Rules{
		{Field: "school", Required: "School field is required"},
		{Field: "degree", Required: "Degree field is required"},
		{Field: "from", Required: "From field is required", Date: true},
		{Field: "to", Date: true},
	}
)
