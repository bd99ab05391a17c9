package model

import "fmt"

// FetchErrorKind identifies the category of a repository fetch failure.
type FetchErrorKind string

const (
	FetchErrorInvalidInput   FetchErrorKind = "invalid_input"   // Empty username.
	FetchErrorInvalidAddress FetchErrorKind = "invalid_address" // Request URL cannot be built.
	FetchErrorDecodingFailed FetchErrorKind = "decoding_failed" // Body does not match the schema.
	FetchErrorUnknown        FetchErrorKind = "unknown"         // Any other transport or runtime failure.
)

// FetchError is the only error type produced by a repository fetch.
// Two values are equal when Kind and Detail match; Detail is only set
// for FetchErrorUnknown.
type FetchError struct {
	Kind   FetchErrorKind
	Detail string
}

// Sentinel values for errors.Is comparisons. ErrUnknown matches any unknown
// error regardless of its detail.
var (
	ErrInvalidInput   = FetchError{Kind: FetchErrorInvalidInput}
	ErrInvalidAddress = FetchError{Kind: FetchErrorInvalidAddress}
	ErrDecodingFailed = FetchError{Kind: FetchErrorDecodingFailed}
	ErrUnknown        = FetchError{Kind: FetchErrorUnknown}
)

// UnknownFetchError builds an unknown error carrying a readable cause.
func UnknownFetchError(detail string) FetchError {
	return FetchError{Kind: FetchErrorUnknown, Detail: detail}
}

func (e FetchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("fetch repositories: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("fetch repositories: %s", e.Kind)
}

// Is matches another FetchError of the same kind. A target without detail
// matches any detail.
func (e FetchError) Is(target error) bool {
	t, ok := target.(FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Detail == "" || t.Detail == e.Detail)
}
