package services

type ErrorCode string

const (
	ErrorInvalid   ErrorCode = "invalid"
	ErrorForbidden ErrorCode = "forbidden"
	ErrorNotFound  ErrorCode = "not_found"
)

// ServiceError carries a coarse error class alongside the message so the
// HTTP layer can map it to a status without string matching. The pure
// scoring and analytics functions never return errors; only the services
// that touch validation or stores do.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
