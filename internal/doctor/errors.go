package doctor

import "errors"

var (
	// ErrInvalidName is returned when the doctor name is missing
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidSpecialty is returned when the specialty is missing
	ErrInvalidSpecialty = errors.New("speciality is required")

	// ErrInvalidTherapy is returned when the therapy is missing
	ErrInvalidTherapy = errors.New("therapy is required")

	// ErrDoctorNotFound is returned when a doctor is not found
	ErrDoctorNotFound = errors.New("doctor not found")
)

// IsValidationError reports whether err came from request validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidSpecialty) ||
		errors.Is(err, ErrInvalidTherapy)
}
