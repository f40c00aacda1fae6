package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ranjgith-s/github-pr-analyzer/internal/config"
	"github.com/ranjgith-s/github-pr-analyzer/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:   "serve",
		Short: "Pull request analytics MCP server",
		RunE:  run,
	}

	root.PersistentFlags().String("github-token", "", "GitHub API token")
	root.PersistentFlags().String("github-graphql-url", "", "GitHub GraphQL endpoint override")
	root.PersistentFlags().String("http-addr", ":8080", "HTTP listen address")
	root.PersistentFlags().String("log-level", "info", "Log level (info, debug)")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	srv := mcp.New(mcp.DefaultConfig())

	addr := config.HTTPAddr()
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("MCP server listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
