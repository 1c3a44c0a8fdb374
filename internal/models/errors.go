package models

import "errors"

// Ошибки предметной области. Обработчики оборачивают их через fmt.Errorf("%w: ...")
// и сопоставляют с HTTP-статусами в одном месте (server.ErrorHandler).
var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrWeakCredential       = errors.New("weak credential")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
