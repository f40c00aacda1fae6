package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ranjgith-s/github-pr-analyzer/internal/config"
	"github.com/ranjgith-s/github-pr-analyzer/internal/devscore"
	"github.com/ranjgith-s/github-pr-analyzer/internal/ghclient"
	"github.com/ranjgith-s/github-pr-analyzer/internal/logging"
	"github.com/ranjgith-s/github-pr-analyzer/internal/metrics"
	"github.com/ranjgith-s/github-pr-analyzer/internal/query"
	"github.com/ranjgith-s/github-pr-analyzer/internal/repoinsights"
	"github.com/ranjgith-s/github-pr-analyzer/internal/suggest"
)

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Pull request analytics CLI",
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search pull requests and print normalized records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newMetricsService()
		if err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		sort, _ := cmd.Flags().GetString("sort")
		order, _ := cmd.Flags().GetString("order")

		result, err := svc.Search(signalContext(), args[0], metrics.Options{
			Page: page, PerPage: perPage, Sort: sort, Order: order,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial-query]",
	Short: "Autocomplete suggestions for a partial query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := config.GitHubToken()
		if token == "" {
			return fmt.Errorf("github_token is required")
		}

		partial := ""
		if len(args) > 0 {
			partial = args[0]
		}

		factory := suggest.NewFactory(logging.New(logging.Default(config.LogLevel())))
		out := factory.Engine(token).Suggestions(signalContext(), suggest.Input{
			Query:          partial,
			CursorPosition: len(partial),
		})
		return printJSON(out)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <query>",
	Short: "Validate and sanitize a search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(query.Validate(args[0]))
	},
}

var developerCmd = &cobra.Command{
	Use:   "developer <login>",
	Short: "Score a developer from their recent pull requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := config.GitHubToken()
		if token == "" {
			return fmt.Errorf("github_token is required")
		}

		client := ghclient.New(token)
		svc := devscore.NewService(
			&metrics.GitHubSearcher{Client: client},
			ghclient.NewBatchClient(token, config.GraphQLEndpoint()),
			logging.New(logging.Default(config.LogLevel())),
		)

		out, err := svc.Metrics(signalContext(), args[0])
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var repoCmd = &cobra.Command{
	Use:   "repo <owner> <name>",
	Short: "Delivery insights for a repository",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := config.GitHubToken()
		if token == "" {
			return fmt.Errorf("github_token is required")
		}

		svc := repoinsights.NewService(ghclient.New(token),
			logging.New(logging.Default(config.LogLevel())))

		out, err := svc.Insights(signalContext(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

func newMetricsService() (*metrics.Service, error) {
	token := config.GitHubToken()
	if token == "" {
		return nil, fmt.Errorf("github_token is required")
	}

	client := ghclient.New(token)
	return metrics.NewService(metrics.Deps{
		Search:        &metrics.GitHubSearcher{Client: client},
		Details:       ghclient.NewBatchClient(token, config.GraphQLEndpoint()),
		Commits:       &metrics.GitHubCommitLister{Client: client},
		Identity:      &metrics.GitHubIdentity{Client: client},
		Log:           logging.New(logging.Default(config.LogLevel()).WithName("metrics")),
		ResultTTL:     config.SearchResultTTL(),
		CacheCapacity: config.CacheCapacity(),
	}), nil
}

func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; cancel() }()
	return ctx
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func main() {
	searchCmd.Flags().Int("page", 1, "Result page")
	searchCmd.Flags().Int("per-page", 30, "Results per page")
	searchCmd.Flags().String("sort", "updated", "Sort field")
	searchCmd.Flags().String("order", "desc", "Sort order")

	config.Init(rootCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(developerCmd)
	rootCmd.AddCommand(repoCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("analyze: %v", err)
	}
}
