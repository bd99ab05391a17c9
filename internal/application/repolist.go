// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/repobrowser/internal/domain/model"
	"github.com/ericfisherdev/repobrowser/internal/domain/port/driven"
)

// DefaultUserName is the conventional seed account. Callers pass it, or a
// configured user, to NewRepoListController.
const DefaultUserName = "Apple"

// ListEventKind names the field a ListEvent reports a change for.
type ListEventKind string

const (
	ListEventUserName     ListEventKind = "user_name"
	ListEventState        ListEventKind = "state"
	ListEventRepositories ListEventKind = "repositories"
)

// ListSnapshot is a consistent view of all list fields.
type ListSnapshot struct {
	UserName     string
	State        model.FetchState
	Repositories []model.Repository
}

// ListEvent reports a change of one field together with a snapshot of all
// fields at that moment. Subscribers must not modify Repositories.
type ListEvent struct {
	Kind ListEventKind
	ListSnapshot
}

// RepoListController owns the repository list of one user and its fetch
// state. All mutations and notifications happen on the main queue; fetches
// run on their own goroutines and post their results back.
type RepoListController struct {
	fetcher driven.RepositoryFetcher
	queue   *MainQueue
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	userName string
	state    model.FetchState
	repos    []model.Repository

	// seq identifies the most recently started fetch. Queue-owned.
	seq uint64

	observers observers[ListEvent]
}

// NewRepoListController creates a controller and immediately starts a fetch
// for userName. An empty userName is fetched as given and fails with
// invalid_input. A nil logger means slog.Default().
func NewRepoListController(
	fetcher driven.RepositoryFetcher,
	queue *MainQueue,
	userName string,
	logger *slog.Logger,
) *RepoListController {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &RepoListController{
		fetcher:  fetcher,
		queue:    queue,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		userName: userName,
		state:    model.LoadingState(),
		repos:    []model.Repository{},
	}

	c.FetchRepositories(userName)

	return c
}

// FetchRepositories sets the current user, moves to the loading state and
// starts a fetch. It returns immediately; the outcome arrives as events.
// The user and state change when the queue runs the task, so UserName still
// reports the previous user until then.
// An in-flight fetch is not cancelled, but its result is discarded once a
// newer fetch has started.
func (c *RepoListController) FetchRepositories(user string) {
	c.queue.Post(func() { c.startFetch(user) })
}

// UpdateRepository replaces the repository with the same ID in place. An
// unknown ID leaves the list unchanged.
func (c *RepoListController) UpdateRepository(updated model.Repository) {
	c.queue.Post(func() { c.replaceRepository(updated) })
}

// Subscribe registers fn for list events. Like a published property, fn
// first receives the current user name, state and repositories, then every
// later change. The returned func cancels the subscription.
func (c *RepoListController) Subscribe(fn func(ListEvent)) (cancel func()) {
	sub := newSubscription(fn)

	c.queue.Post(func() {
		if !sub.active.Load() {
			return
		}
		for _, kind := range []ListEventKind{ListEventUserName, ListEventState, ListEventRepositories} {
			fn(c.event(kind))
		}
		c.observers.add(sub)
	})

	return func() { c.observers.remove(sub) }
}

// UserName returns the user the list currently belongs to.
func (c *RepoListController) UserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userName
}

// State returns the current fetch state.
func (c *RepoListController) State() model.FetchState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Repositories returns a copy of the current list in remote order.
func (c *RepoListController) Repositories() []model.Repository {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.repos)
}

// Snapshot returns all fields read under one lock.
func (c *RepoListController) Snapshot() ListSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ListSnapshot{
		UserName:     c.userName,
		State:        c.state,
		Repositories: slices.Clone(c.repos),
	}
}

// Repository looks up a repository of the current list by ID.
func (c *RepoListController) Repository(id int64) (model.Repository, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := model.IndexByID(c.repos, id)
	if i < 0 {
		return model.Repository{}, false
	}
	return c.repos[i], true
}

// Close cancels in-flight fetches. Results that arrive afterwards are dropped.
func (c *RepoListController) Close() {
	c.cancel()
}

func (c *RepoListController) startFetch(user string) {
	if c.ctx.Err() != nil {
		return
	}

	c.seq++
	token := c.seq

	c.mu.Lock()
	c.userName = user
	c.mu.Unlock()
	c.emit(ListEventUserName)

	c.mu.Lock()
	c.state = model.LoadingState()
	c.mu.Unlock()
	c.emit(ListEventState)

	c.logger.Debug("fetching repositories", "user", user, "seq", token)

	go func() {
		repos, err := c.fetcher.FetchRepositories(c.ctx, user)
		c.queue.Post(func() { c.finishFetch(token, user, repos, err) })
	}()
}

func (c *RepoListController) finishFetch(token uint64, user string, repos []model.Repository, err error) {
	if c.ctx.Err() != nil {
		return
	}
	if token != c.seq {
		c.logger.Debug("discarding stale fetch result", "user", user, "seq", token, "latest", c.seq)
		return
	}

	if err != nil {
		var fetchErr model.FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = model.UnknownFetchError(err.Error())
		}

		c.mu.Lock()
		c.state = model.FailedState(fetchErr)
		c.mu.Unlock()

		c.logger.Warn("repository fetch failed", "user", user, "kind", fetchErr.Kind, "error", fetchErr)
		c.emit(ListEventState)
		return
	}

	if repos == nil {
		repos = []model.Repository{}
	}

	c.mu.Lock()
	c.state = model.LoadedState()
	c.repos = slices.Clone(repos)
	c.mu.Unlock()

	c.logger.Info("repositories loaded", "user", user, "count", len(repos))
	c.emit(ListEventState)
	c.emit(ListEventRepositories)
}

func (c *RepoListController) replaceRepository(updated model.Repository) {
	c.mu.Lock()
	i := model.IndexByID(c.repos, updated.ID)
	if i < 0 {
		c.mu.Unlock()
		c.logger.Debug("update for unknown repository ignored", "id", updated.ID)
		return
	}
	c.repos[i] = updated
	c.mu.Unlock()

	c.emit(ListEventRepositories)
}

// event builds a ListEvent from the current fields.
func (c *RepoListController) event(kind ListEventKind) ListEvent {
	return ListEvent{Kind: kind, ListSnapshot: c.Snapshot()}
}

func (c *RepoListController) emit(kind ListEventKind) {
	c.observers.publish(c.event(kind))
}
