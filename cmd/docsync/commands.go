package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/internal/syncstate"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo (queued locally until the next sync)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		todo, err := a.repo.Create(cmd.Context(), models.RawDocument{
			"title": args[0],
			"done":  false,
		})
		if err != nil {
			return err
		}

		fmt.Printf("added %s  %s\n", todo.ID, todo.Title)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Pull remote changes and print the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		// Reads are local; prime the cache with one cycle first so a
		// fresh process sees the synced collection
		if state := a.repo.SyncNow(cmd.Context()); state.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: sync failed, showing local view: %v\n", state.Err)
		}

		todos, err := a.repo.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		if len(todos) == 0 {
			fmt.Println("no todos")
			return nil
		}
		for _, t := range todos {
			fmt.Printf("%s %s  %s\n", checkbox(t.Done), t.ID, t.Title)
		}
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		// Pull first so the id is present in a fresh process cache
		a.repo.SyncNow(cmd.Context())

		todo, err := a.repo.Update(cmd.Context(), args[0], models.RawDocument{"done": true})
		if err != nil {
			return err
		}

		fmt.Printf("%s %s  %s\n", checkbox(todo.Done), todo.ID, todo.Title)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		a.repo.SyncNow(cmd.Context())

		if err := a.repo.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one push/pull cycle against the configured server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		state := a.repo.SyncNow(cmd.Context())
		printState(state)
		if state.Err != nil {
			os.Exit(1)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status and pending change count",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.repo.PendingCount(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%d change(s) pending push\n", count)
		printState(a.repo.States().Current())
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the collection live until interrupted",
	Long: `Subscribes to live snapshots of the collection and prints each one.
Combine with --auto-sync to keep pulling remote changes, e.g.:

  docsync watch --server http://localhost:8080 --auto-sync 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), newLogger())
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		snapshots, unsubscribe := a.repo.WatchAll()
		defer unsubscribe()

		states, unsubscribeStates := a.repo.States().Subscribe()
		defer unsubscribeStates()

		a.repo.SyncNow(ctx)

		fmt.Println("watching; Ctrl-C to stop")
		for {
			select {
			case <-ctx.Done():
				return nil
			case snapshot, ok := <-snapshots:
				if !ok {
					return nil
				}
				fmt.Printf("-- %d todo(s)\n", len(snapshot))
				for _, t := range snapshot {
					fmt.Printf("%s %s  %s\n", checkbox(t.Done), t.ID, t.Title)
				}
			case state, ok := <-states:
				if !ok {
					return nil
				}
				printState(state)
			}
		}
	},
}

func printState(state syncstate.State) {
	switch state.Status {
	case syncstate.StatusIdle:
		if state.LastSyncedAt != nil {
			fmt.Printf("idle, %d pending, last synced %s\n",
				state.PendingChanges, state.LastSyncedAt.Format("15:04:05"))
		} else {
			fmt.Printf("idle, %d pending, never synced\n", state.PendingChanges)
		}
	case syncstate.StatusSyncing:
		fmt.Printf("syncing %.0f%%, %d pending\n", state.Progress*100, state.PendingChanges)
	case syncstate.StatusError:
		fmt.Printf("error: %v (%d pending, will retry)\n", state.Err, state.PendingChanges)
	}
}
