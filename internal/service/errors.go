package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingParams        = errors.New("day and time parameters are required")
	ErrInvalidDay           = errors.New("invalid day, must be Monday through Friday")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrInvalidTransition    = errors.New("appointment status transition not allowed")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrForbidden            = errors.New("access denied")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrInvalidReportType    = errors.New("invalid report type")
	ErrInvalidMonth         = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrWeekendDate          = errors.New("appointments are only available Monday through Friday")
	ErrCounselorUnavailable = errors.New("counselor is not available at the requested time")
	ErrStatusConflict       = errors.New("appointment status was changed by another request")
)

var validate = validator.New()

// ValidationError ошибки валидации по полям: поле -> тег правила
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// validateStruct прогоняет validator и превращает ошибки в *ValidationError
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// IsValidation true для ошибок входных данных, которые отдаются клиенту как 400
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}

	for _, target := range []error{
		ErrMissingParams,
		ErrInvalidDay,
		ErrInvalidStatus,
		ErrInvalidTransition,
		ErrInvalidReportType,
		ErrInvalidMonth,
		ErrInvalidDate,
		ErrWeekendDate,
		ErrCounselorUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
