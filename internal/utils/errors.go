package utils

import "errors"

// ErrorKind classifies an AgoraError for the Is* predicates below.
type ErrorKind string

const (
	KindGeneric    ErrorKind = "generic"
	KindValidation ErrorKind = "validation"
	KindRequest    ErrorKind = "request"
	KindAuth       ErrorKind = "auth"
	KindStorage    ErrorKind = "storage"
	KindTheme      ErrorKind = "theme"
)

type AgoraError struct {
	Kind    ErrorKind
	Message string
	Details string
}

func (e *AgoraError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// WithDetails returns a copy carrying extra context. The original stays
// usable as a sentinel for errors.Is.
func (e *AgoraError) WithDetails(details string) *AgoraError {
	return &AgoraError{Kind: e.Kind, Message: e.Message, Details: details}
}

func (e *AgoraError) Is(target error) bool {
	t, ok := target.(*AgoraError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewAgoraError(message string) *AgoraError {
	return &AgoraError{Kind: KindGeneric, Message: message}
}

func ValidationError(message string) *AgoraError {
	return &AgoraError{Kind: KindValidation, Message: message}
}

func RequestError(message string) *AgoraError {
	return &AgoraError{Kind: KindRequest, Message: message}
}

func AuthError(message string) *AgoraError {
	return &AgoraError{Kind: KindAuth, Message: message}
}

func StorageError(message string) *AgoraError {
	return &AgoraError{Kind: KindStorage, Message: message}
}

func ThemeError(message string) *AgoraError {
	return &AgoraError{Kind: KindTheme, Message: message}
}

func isKind(err error, kind ErrorKind) bool {
	var ae *AgoraError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

func IsValidationError(err error) bool { return isKind(err, KindValidation) }
func IsRequestError(err error) bool    { return isKind(err, KindRequest) }
func IsAuthError(err error) bool       { return isKind(err, KindAuth) }
func IsStorageError(err error) bool    { return isKind(err, KindStorage) }
