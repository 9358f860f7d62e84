package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeCatalogUnavailable indicates a reference catalog could not be fetched
	ErrorTypeCatalogUnavailable ErrorType = "CATALOG_UNAVAILABLE"

	// ErrorTypeDoctorLookup indicates a doctor lookup against the hospital API failed
	ErrorTypeDoctorLookup ErrorType = "DOCTOR_LOOKUP_FAILED"

	// ErrorTypeScheduleLoad indicates a doctor's agenda list could not be loaded
	ErrorTypeScheduleLoad ErrorType = "SCHEDULE_LOAD_FAILED"

	// ErrorTypeFieldSave indicates the primary per-field save failed; nothing was written
	ErrorTypeFieldSave ErrorType = "FIELD_SAVE_FAILED"

	// ErrorTypeCascadeSave indicates a follow-up consistency-repair save failed after
	// the primary save succeeded; the original edit did persist
	ErrorTypeCascadeSave ErrorType = "CASCADE_SAVE_FAILED"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewCatalogUnavailableError creates a catalog fetch failure
func NewCatalogUnavailableError(catalog string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCatalogUnavailable,
		Message: fmt.Sprintf("catalog %q unavailable", catalog),
		Err:     err,
	}
}

// NewDoctorLookupError creates a doctor lookup failure
func NewDoctorLookupError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDoctorLookup,
		Message: message,
		Err:     err,
	}
}

// NewScheduleLoadError creates an agenda list load failure
func NewScheduleLoadError(doctorID string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeScheduleLoad,
		Message: fmt.Sprintf("could not load agendas for doctor %s", doctorID),
		Err:     err,
	}
}

// NewFieldSaveError creates a primary field save failure
func NewFieldSaveError(field string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFieldSave,
		Message: fmt.Sprintf("could not save field %q", field),
		Err:     err,
	}
}

// NewCascadeSkippedError reports location repairs that were skipped because
// the catalogs needed to verify coherence could not be fetched
func NewCascadeSkippedError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCascadeSave,
		Message: "could not verify location coherence, catalogs unavailable",
		Err:     err,
	}
}

// NewCascadeSaveError creates a cascade repair save failure
func NewCascadeSaveError(field string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCascadeSave,
		Message: fmt.Sprintf("could not auto-correct dependent field %q", field),
		Err:     err,
	}
}
