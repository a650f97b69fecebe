package task

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear on the wire, in display order.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldDueDate     = "dueDate"
	FieldTags        = "tags"
	FieldAssignedTo  = "assignedTo"
)

var fieldOrder = []string{FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldDueDate, FieldTags, FieldAssignedTo}

// ValidationError reports per-field rule violations.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return e.First()
}

// First returns the message of the first failing field in display order.
func (e *ValidationError) First() string {
	for _, name := range fieldOrder {
		if msg, ok := e.Fields[name]; ok {
			return msg
		}
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "validation failed"
	}
	return e.Fields[keys[0]]
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func rules() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
			_, ok := ParseDate(fl.Field().String())
			return ok
		})
		validate = v
	})
	return validate
}

// ParseDate parses a due date given as YYYY-MM-DD or RFC 3339.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks d against the rules shared by the API and the form helper.
func (d Draft) Validate() error {
	err := rules().Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate task: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = message(fe.Field(), fe.Tag(), fe.Param())
	}
	return out
}

// Validate checks the fields present in p. Absent fields are not checked.
func (p Patch) Validate() error {
	out := &ValidationError{Fields: map[string]string{}}
	check := func(field string, value any, tag string) {
		err := rules().Var(value, tag)
		if err == nil {
			return
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			out.Fields[field] = message(field, verrs[0].Tag(), verrs[0].Param())
			return
		}
		out.Fields[field] = fmt.Sprintf("invalid %s", field)
	}
	if p.Title != nil {
		check(FieldTitle, *p.Title, "notblank")
	}
	if p.Priority != nil {
		check(FieldPriority, string(*p.Priority), "oneof=low medium high")
	}
	if p.Status != nil {
		check(FieldStatus, string(*p.Status), "oneof=todo in-progress done")
	}
	if p.DueDate != nil {
		check(FieldDueDate, *p.DueDate, "required,duedate")
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

func message(field, tag, param string) string {
	switch tag {
	case "notblank":
		return fmt.Sprintf("%s is required and cannot be empty", field)
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "duedate":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field)
	case "oneof":
		return fmt.Sprintf("invalid %s: must be one of %s", field, strings.Join(strings.Fields(param), ", "))
	default:
		return fmt.Sprintf("invalid %s", field)
	}
}
