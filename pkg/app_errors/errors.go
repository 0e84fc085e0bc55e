package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrAlreadyUsed         = errors.New("ticket already used")
	ErrDuplicateName       = errors.New("ticket name already exists in event")
	ErrMalformedReference  = errors.New("malformed ticket reference")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidStatus       = errors.New("invalid ticket status")
	ErrCacheMiss           = errors.New("cache miss")
)
