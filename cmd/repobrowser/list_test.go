package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/repobrowser/internal/application"
	"github.com/ericfisherdev/repobrowser/internal/config"
	"github.com/ericfisherdev/repobrowser/internal/domain/model"
)

type stubFetcher struct {
	repos []model.Repository
	err   error
}

func (s stubFetcher) FetchRepositories(_ context.Context, _ string) ([]model.Repository, error) {
	return s.repos, s.err
}

// validatingFetcher rejects an empty user like the GitHub client does and
// records the users it was asked for.
type validatingFetcher struct {
	users chan string
}

func (f validatingFetcher) FetchRepositories(_ context.Context, user string) ([]model.Repository, error) {
	f.users <- user
	if user == "" {
		return nil, model.ErrInvalidInput
	}
	return []model.Repository{}, nil
}

func runListWith(t *testing.T, fetcher stubFetcher) (string, string, error) {
	t.Helper()

	queue := application.NewMainQueue(nil)
	t.Cleanup(queue.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var out, errOut bytes.Buffer
	err := runList(ctx, fetcher, queue, "octocat", &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRunList_PrintsOneLinePerRepository(t *testing.T) {
	out, errOut, err := runListWith(t, stubFetcher{repos: []model.Repository{
		{
			ID:              1,
			Name:            "Hello-World",
			Description:     model.StringPtr("My first repository"),
			StargazersCount: 7,
			Language:        model.StringPtr("Go"),
		},
		{ID: 2, Name: "Spoon-Knife"},
	}})

	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t,
		"Hello-World\t7 ⭐️\tGo\tMy first repository\n"+
			"Spoon-Knife\t0 ⭐️\tN/A\tNo description available.\n",
		out)
}

func TestRunList_EmptyList(t *testing.T) {
	out, _, err := runListWith(t, stubFetcher{repos: []model.Repository{}})

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunList_FailurePrintsMessage(t *testing.T) {
	out, errOut, err := runListWith(t, stubFetcher{err: model.ErrInvalidAddress})

	require.ErrorIs(t, err, errListFailed)
	assert.Empty(t, out)
	assert.Equal(t, "The repositories address for this user is invalid.\n", errOut)
}

func TestRunList_EmptyUserFailsWithInvalidInput(t *testing.T) {
	queue := application.NewMainQueue(nil)
	t.Cleanup(queue.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fetcher := validatingFetcher{users: make(chan string, 4)}
	var out, errOut bytes.Buffer
	err := runList(ctx, fetcher, queue, "", &out, &errOut)

	require.ErrorIs(t, err, errListFailed)
	assert.Equal(t, "Please enter a GitHub username.\n", errOut.String())
	assert.Equal(t, "", <-fetcher.users, "empty user is not replaced by the seed")
	assert.Empty(t, fetcher.users)
}

func TestRunList_ContextCancelled(t *testing.T) {
	queue := application.NewMainQueue(nil)
	t.Cleanup(queue.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := runList(ctx, blockingFetcher{}, queue, "octocat", &out, &errOut)

	assert.ErrorIs(t, err, context.Canceled)
}

// blockingFetcher never answers until its context is cancelled.
type blockingFetcher struct{}

func (blockingFetcher) FetchRepositories(ctx context.Context, _ string) ([]model.Repository, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRootOptionsLoad_LogLevelOverride(t *testing.T) {
	t.Setenv("REPOBROWSER_LOG_LEVEL", "info")

	cfg, err := (&rootOptions{logLevel: "debug"}).load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = (&rootOptions{logLevel: "loud"}).load()
	assert.Error(t, err)
}

func TestNewLogger_Format(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := config.Defaults()
	cfg.LogFormat = "json"

	newLogger(&cfg, &buf).Info("hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
