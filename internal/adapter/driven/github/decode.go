package github

import (
	"encoding/json"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/repobrowser/internal/domain/model"
)

var errNullPayload = errors.New("payload is null")

// decodeRepositories decodes a JSON array of repositories. Any element that
// fails to decode or lacks a required field rejects the whole payload.
func decodeRepositories(body []byte) ([]model.Repository, error) {
	var raw []*gh.Repository
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode repositories: %w", err)
	}
	if raw == nil {
		return nil, errNullPayload
	}

	repos := make([]model.Repository, 0, len(raw))
	for i, r := range raw {
		if err := validateRepository(r); err != nil {
			return nil, fmt.Errorf("repository at index %d: %w", i, err)
		}
		repos = append(repos, mapRepository(r))
	}

	return repos, nil
}

// validateRepository checks the fields a Repository cannot exist without.
func validateRepository(r *gh.Repository) error {
	switch {
	case r == nil:
		return errNullPayload
	case r.ID == nil:
		return errors.New("missing id")
	case r.Name == nil:
		return errors.New("missing name")
	case r.GetStargazersCount() < 0:
		return fmt.Errorf("negative stargazers_count %d", r.GetStargazersCount())
	}
	return nil
}

// mapRepository converts a go-github Repository to a domain model Repository.
// Optional fields keep their pointers so absence stays distinct from "".
func mapRepository(r *gh.Repository) model.Repository {
	return model.Repository{
		ID:              r.GetID(),
		Name:            r.GetName(),
		FullName:        r.FullName,
		Description:     r.Description,
		StargazersCount: r.GetStargazersCount(),
		Language:        r.Language,
		IsFavorite:      false, // Local-only; the remote never sets it.
	}
}
