package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/repobrowser/internal/adapter/driving/http"
	"github.com/ericfisherdev/repobrowser/internal/application"
	"github.com/ericfisherdev/repobrowser/internal/domain/model"
	"github.com/ericfisherdev/repobrowser/internal/domain/port/driven"
)

// errListFailed reports a failed listing whose message was already printed.
var errListFailed = errors.New("listing failed")

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [user]",
		Short: "Print the public repositories of a user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			user := cfg.DefaultUser
			if len(args) == 1 {
				user = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			queue := application.NewMainQueue(logger)
			defer queue.Close()

			return runList(ctx, newFetcher(cfg), queue, user, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runList fetches the repositories of user and prints them to out, or the
// error message to errOut.
func runList(
	ctx context.Context,
	fetcher driven.RepositoryFetcher,
	queue *application.MainQueue,
	user string,
	out, errOut io.Writer,
) error {
	list := application.NewRepoListController(fetcher, queue, user, nil)
	defer list.Close()

	done := make(chan application.ListSnapshot, 1)
	cancel := list.Subscribe(func(ev application.ListEvent) {
		// The state event of a success precedes the repositories event.
		if ev.Kind == application.ListEventRepositories || ev.State.Status == model.FetchStatusFailed {
			if ev.State.IsTerminal() {
				select {
				case done <- ev.ListSnapshot:
				default:
				}
			}
		}
	})
	defer cancel()

	var snap application.ListSnapshot
	select {
	case <-ctx.Done():
		return ctx.Err()
	case snap = <-done:
	}

	if snap.State.Err != nil {
		fmt.Fprintln(errOut, httphandler.ErrorMessage(snap.State.Err.Fetch))
		return errListFailed
	}

	for _, repo := range snap.Repositories {
		d := application.NewRepoDetailController(repo, queue)
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", repo.Name, d.Stars(), d.Language(), d.Description())
	}

	return nil
}
