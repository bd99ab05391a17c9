package application_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repobrowser/internal/application"
	"github.com/ericfisherdev/repobrowser/internal/domain/model"
)

func testRepository() model.Repository {
	return model.Repository{
		ID:              1,
		Name:            "TestRepo",
		FullName:        model.StringPtr("TestUser/TestRepo"),
		Description:     model.StringPtr("This is a test repository"),
		StargazersCount: 123,
		Language:        model.StringPtr("Swift"),
		IsFavorite:      false,
	}
}

// favoriteRecorder collects repositories published by a detail controller.
type favoriteRecorder struct {
	mu    sync.Mutex
	repos []model.Repository
}

func (r *favoriteRecorder) record(repo model.Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos = append(r.repos, repo)
}

func (r *favoriteRecorder) favorites() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bool, 0, len(r.repos))
	for _, repo := range r.repos {
		out = append(out, repo.IsFavorite)
	}
	return out
}

func TestRepoDetailController_DisplayFields(t *testing.T) {
	d := application.NewRepoDetailController(testRepository(), newTestQueue(t))

	assert.Equal(t, "TestUser/TestRepo", d.FullName())
	assert.Equal(t, "This is a test repository", d.Description())
	assert.Equal(t, "Swift", d.Language())
	assert.Equal(t, "123 ⭐️", d.Stars())
}

func TestRepoDetailController_DefaultsForMissingFields(t *testing.T) {
	repo := model.Repository{ID: 2, Name: "TestRepoNil", StargazersCount: 0}
	d := application.NewRepoDetailController(repo, newTestQueue(t))

	assert.Equal(t, "Unknown Repository", d.FullName())
	assert.Equal(t, "No description available.", d.Description())
	assert.Equal(t, "N/A", d.Language())
	assert.Equal(t, "0 ⭐️", d.Stars())
}

func TestRepoDetailController_EmptyStringsAreNotMissing(t *testing.T) {
	repo := model.Repository{
		ID:          3,
		Name:        "blank",
		FullName:    model.StringPtr(""),
		Description: model.StringPtr(""),
		Language:    model.StringPtr(""),
	}
	d := application.NewRepoDetailController(repo, newTestQueue(t))

	assert.Equal(t, "", d.FullName())
	assert.Equal(t, "", d.Description())
	assert.Equal(t, "", d.Language())
}

func TestRepoDetailController_ToggleFavorite(t *testing.T) {
	q := newTestQueue(t)
	d := application.NewRepoDetailController(testRepository(), q)

	rec := &favoriteRecorder{}
	defer d.Subscribe(rec.record)()

	got := d.ToggleFavorite()
	syncQueue(t, q)

	assert.True(t, got.IsFavorite)
	assert.True(t, d.IsFavorite())
	assert.True(t, d.Repository().IsFavorite)
	assert.Equal(t, []bool{true}, rec.favorites())
}

func TestRepoDetailController_ToggleFavoriteTwice(t *testing.T) {
	q := newTestQueue(t)
	d := application.NewRepoDetailController(testRepository(), q)

	rec := &favoriteRecorder{}
	defer d.Subscribe(rec.record)()

	d.ToggleFavorite()
	d.ToggleFavorite()
	syncQueue(t, q)

	assert.False(t, d.IsFavorite())
	assert.False(t, d.Repository().IsFavorite)
	assert.Equal(t, []bool{true, false}, rec.favorites())
}

func TestRepoDetailController_ToggleIsSelfInverse(t *testing.T) {
	for _, initial := range []bool{false, true} {
		repo := testRepository()
		repo.IsFavorite = initial
		d := application.NewRepoDetailController(repo, newTestQueue(t))

		d.ToggleFavorite()
		d.ToggleFavorite()

		assert.Equal(t, repo, d.Repository(), "double toggle restores initial=%v", initial)
	}
}

func TestRepoDetailController_GetRepository(t *testing.T) {
	repo := testRepository()
	d := application.NewRepoDetailController(repo, newTestQueue(t))

	got := d.Repository()

	assert.Equal(t, repo.ID, got.ID)
	assert.Equal(t, repo.Name, got.Name)
	assert.Equal(t, repo.FullName, got.FullName)
	assert.Equal(t, repo.Description, got.Description)
	assert.Equal(t, repo.StargazersCount, got.StargazersCount)
	assert.Equal(t, repo.Language, got.Language)
	assert.Equal(t, repo.IsFavorite, got.IsFavorite)
}

func TestRepoDetailController_DisplayFieldsFixedAtConstruction(t *testing.T) {
	d := application.NewRepoDetailController(testRepository(), newTestQueue(t))

	d.ToggleFavorite()

	assert.Equal(t, "TestUser/TestRepo", d.FullName())
	assert.Equal(t, "123 ⭐️", d.Stars())
}

func TestFavoriteToggleEchoesIntoList(t *testing.T) {
	fetcher := newMockFetcher()
	list, q := newTestListController(t, fetcher)

	fetcher.reply(application.DefaultUserName, sampleRepos(), nil)
	waitForState(t, list, model.FetchStatusLoaded)

	repo, ok := list.Repository(2)
	require.True(t, ok)

	d := application.NewRepoDetailController(repo, q)
	defer d.Subscribe(list.UpdateRepository)()

	d.ToggleFavorite()
	syncQueue(t, q)
	syncQueue(t, q)

	got := list.Repositories()
	require.Len(t, got, 2)
	assert.False(t, got[0].IsFavorite)
	assert.True(t, got[1].IsFavorite)
	assert.Equal(t, int64(2), got[1].ID, "position preserved")
}
