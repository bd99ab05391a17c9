package model

import "fmt"

// FetchStatus is the lifecycle phase of a repository listing request.
type FetchStatus string

const (
	FetchStatusLoading FetchStatus = "loading"
	FetchStatusLoaded  FetchStatus = "loaded"
	FetchStatusFailed  FetchStatus = "failed"
)

// ListErrorKind distinguishes error sources at the list level. Only
// repository fetches exist today.
type ListErrorKind string

const ListErrorRepositoriesFetch ListErrorKind = "repositories_fetch"

// ListError wraps a FetchError unchanged so it can be told apart from other
// list-level failures.
type ListError struct {
	Kind  ListErrorKind
	Fetch FetchError
}

func (e ListError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Fetch)
}

// Unwrap exposes the underlying FetchError to errors.Is and errors.As.
func (e ListError) Unwrap() error {
	return e.Fetch
}

// FetchState is the three-valued state of a list. Err is set only when
// Status is FetchStatusFailed.
type FetchState struct {
	Status FetchStatus
	Err    *ListError
}

// LoadingState returns the state used while a fetch is in flight.
func LoadingState() FetchState {
	return FetchState{Status: FetchStatusLoading}
}

// LoadedState returns the state after a successful fetch.
func LoadedState() FetchState {
	return FetchState{Status: FetchStatusLoaded}
}

// FailedState returns the terminal failure state for the given fetch error.
func FailedState(err FetchError) FetchState {
	return FetchState{
		Status: FetchStatusFailed,
		Err:    &ListError{Kind: ListErrorRepositoriesFetch, Fetch: err},
	}
}

// IsTerminal reports whether the state ends a fetch attempt.
func (s FetchState) IsTerminal() bool {
	return s.Status == FetchStatusLoaded || s.Status == FetchStatusFailed
}
