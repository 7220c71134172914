package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-go/crud"
	"github.com/vango-go/crud/pkg/middleware"
)

func runCmd() *cobra.Command {
	var server string
	var withMetrics bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a crud module against a running articles API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(server, withMetrics)
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "articles API base URL")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "record Prometheus client metrics")
	return cmd
}

func runClient(server string, withMetrics bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var client crud.Client = &crud.HTTPClient{BaseURL: server}
	if withMetrics {
		client = middleware.Chain(client, middleware.Prometheus())
	}

	articles, err := crud.New(crud.Config[Article]{
		Resource: "articles",
		Client:   client,
		Logger:   logger,
		Hooks: crud.Hooks[Article]{
			OnCreateSuccess: func(_ *crud.State[Article], a Article) {
				logger.Info("article created", "id", a.ID, "title", a.Title)
			},
			OnDestroySuccess: func(_ *crud.State[Article], id string) {
				logger.Info("article destroyed", "id", id)
			},
		},
	})
	if err != nil {
		return err
	}

	cancel := articles.Subscribe(func(mutation string) {
		logger.Debug("store mutation", "mutation", mutation)
	})
	defer cancel()

	ctx := context.Background()

	items, err := articles.FetchList(ctx)
	if err != nil {
		return fmt.Errorf("fetch list: %w", err)
	}
	logger.Info("fetched collection", "count", len(items))

	created, err := articles.Create(ctx, Article{Title: "Hello", Content: "Written by crud-demo."})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if _, err := articles.Update(ctx, created.ID, Article{Title: "Hello again", Content: created.Content}); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	fetched, err := articles.FetchSingle(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("fetch single: %w", err)
	}
	logger.Info("fetched single", "id", fetched.ID, "title", fetched.Title)

	if err := articles.Destroy(ctx, created.ID); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}

	for _, a := range articles.List() {
		fmt.Printf("%s\t%s\n", a.ID, a.Title)
	}
	return nil
}
