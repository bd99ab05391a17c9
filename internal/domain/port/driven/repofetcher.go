package driven

import (
	"context"

	"github.com/ericfisherdev/repobrowser/internal/domain/model"
)

// RepositoryFetcher defines the driven port for listing a user's repositories.
// Implementations perform at most one remote request per call and return a
// model.FetchError on failure; a nil error means the slice is complete.
type RepositoryFetcher interface {
	FetchRepositories(ctx context.Context, user string) ([]model.Repository, error)
}
