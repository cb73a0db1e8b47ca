package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidation        = NewDomainError("VALIDATION_ERROR", "Request validation failed")
	ErrSourceUnavailable = NewDomainError("SOURCE_UNAVAILABLE", "Precomputed aggregate source unavailable")
	ErrComputation       = NewDomainError("COMPUTATION_ERROR", "Report computation failed on both primary and fallback paths")
	ErrPartialWrite      = NewDomainError("PARTIAL_WRITE", "Bulk write applied partially")
)
