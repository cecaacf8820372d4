package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkaraca/taskpad/internal/feed"
	"github.com/mkaraca/taskpad/internal/query"
	"github.com/mkaraca/taskpad/internal/ui"
	"github.com/mkaraca/taskpad/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a real-time WebSocket feed of task changes",
	Long: `Start a WebSocket server that broadcasts task and list changes to
connected clients.

Messages include:
- task_update: a task was created, updated, or deleted
- list_update: a list was created, renamed, or deleted
- cache_invalidated: the database changed outside this process

The database file is watched so edits made by other taskpad invocations
are picked up and announced.

Connect with a WebSocket client:
  ws://localhost:8080/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = appCfg.Feed.Port
		}

		server := feed.NewServer(&feed.Config{Port: port, Logger: appLogger})
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start feed server: %w", err)
		}

		// Route this process's own mutations into the feed.
		appClient = query.NewClient(appStore,
			query.WithLogger(appLogger),
			query.WithErrorService(appErrs),
			query.WithMutationHook(func(ev query.MutationEvent) {
				server.Broadcast(feed.FromMutation(ev))
			}),
		)

		var watcher *watch.DBWatcher
		if appCfg.Watch.Enabled {
			var err error
			watcher, err = watch.NewDBWatcher(appStore.Path(), appCfg.Watch.Quiet, appLogger, func() {
				appClient.InvalidateAll()
				server.Broadcast(feed.CacheInvalidated())
			})
			if err != nil {
				_ = server.Stop()
				return err
			}
			if err := watcher.Start(); err != nil {
				_ = server.Stop()
				return err
			}
		}

		fmt.Println(ui.Title("taskpad feed"))
		fmt.Printf("WebSocket endpoint: ws://localhost:%d/ws\n", port)
		fmt.Printf("Health check: http://localhost:%d/health\n", port)
		fmt.Println(ui.Muted("Press Ctrl+C to stop"))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()

		if watcher != nil {
			if err := watcher.Stop(); err != nil {
				appLogger.Warn("failed to stop watcher", "error", err)
			}
		}
		if err := server.Stop(); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}
