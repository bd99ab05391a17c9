package application

import (
	"fmt"
	"sync"

	"github.com/ericfisherdev/repobrowser/internal/domain/model"
)

// Placeholders shown when the remote omitted an optional field.
const (
	UnknownRepositoryName = "Unknown Repository"
	NoDescription         = "No description available."
	NoLanguage            = "N/A"
)

// RepoDetailController holds one repository, its display fields and the
// favorite toggle. Display fields are derived once at construction.
type RepoDetailController struct {
	queue *MainQueue

	fullName    string
	description string
	language    string
	stars       string

	mu   sync.RWMutex
	repo model.Repository

	observers observers[model.Repository]
}

// NewRepoDetailController creates a detail controller for repo. Change
// notifications are delivered on queue.
func NewRepoDetailController(repo model.Repository, queue *MainQueue) *RepoDetailController {
	return &RepoDetailController{
		queue:       queue,
		fullName:    valueOr(repo.FullName, UnknownRepositoryName),
		description: valueOr(repo.Description, NoDescription),
		language:    valueOr(repo.Language, NoLanguage),
		stars:       FormatStars(repo.StargazersCount),
		repo:        repo,
	}
}

// FormatStars renders a stargazer count as "<count> ⭐️".
func FormatStars(count int) string {
	return fmt.Sprintf("%d ⭐️", count)
}

func (d *RepoDetailController) FullName() string    { return d.fullName }
func (d *RepoDetailController) Description() string { return d.description }
func (d *RepoDetailController) Language() string    { return d.language }
func (d *RepoDetailController) Stars() string       { return d.stars }

// IsFavorite reports the current favorite flag.
func (d *RepoDetailController) IsFavorite() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.repo.IsFavorite
}

// Repository returns the current, possibly toggled, repository.
func (d *RepoDetailController) Repository() model.Repository {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.repo
}

// ToggleFavorite flips the favorite flag and publishes the updated
// repository. Two calls restore the original value.
func (d *RepoDetailController) ToggleFavorite() model.Repository {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.repo.IsFavorite = !d.repo.IsFavorite
	snapshot := d.repo

	// Posting under the lock keeps notifications in toggle order.
	d.queue.Post(func() { d.observers.publish(snapshot) })

	return snapshot
}

// Subscribe registers fn for repositories published by ToggleFavorite.
// Wiring it to RepoListController.UpdateRepository echoes toggles back into
// the list. The returned func cancels the subscription.
func (d *RepoDetailController) Subscribe(fn func(model.Repository)) (cancel func()) {
	sub := newSubscription(fn)
	d.queue.Post(func() { d.observers.add(sub) })
	return func() { d.observers.remove(sub) }
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
