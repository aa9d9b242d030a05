package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/repositories"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/config"
	"github.com/alimgiray/orgboard/pkg/database"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	cliApp := &cli.App{
		Name:  "orgboard",
		Usage: "contributor leaderboard and discussion board for a GitHub organization",
		Commands: []*cli.Command{
			newLeaderboardCommand(config.AppConfig),
			newDiscussionsCommand(config.AppConfig),
			newMigrateCommand(config.AppConfig),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newLeaderboardCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "aggregate contributors once and print the ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "org", Value: cfg.GitHub.Org, Usage: "GitHub organization"},
			&cli.StringFlag{Name: "period", Value: string(models.PeriodOverall), Usage: "weekly, monthly or overall"},
			&cli.IntFlag{Name: "top", Value: cfg.Leaderboard.TopRepositories, Usage: "number of most starred repositories to scan"},
			&cli.DurationFlag{Name: "delay", Value: cfg.Leaderboard.RequestDelay, Usage: "pause between contributor requests"},
			&cli.Int64Flag{Name: "seed", Value: cfg.Leaderboard.EstimateSeed, Usage: "seed for weekly/monthly estimates, 0 for random"},
			&cli.StringFlag{Name: "export", Usage: "also write the ranking to this XLSX file"},
		},
		Action: func(c *cli.Context) error {
			org := c.String("org")
			if org == "" {
				return fmt.Errorf("an organization is required (--org or GITHUB_ORG)")
			}

			tracker := services.NewRateLimitTracker()
			headers := services.RateLimitHeaders{
				Remaining: cfg.GitHub.RemainingHeader,
				Reset:     cfg.GitHub.ResetHeader,
				Limit:     cfg.GitHub.LimitHeader,
			}
			githubService, err := services.NewGitHubService(cfg.GitHub.APIURL, &http.Client{Timeout: 30 * time.Second}, tracker, headers, nil)
			if err != nil {
				return err
			}

			aggregator := services.NewContributorAggregator(githubService, tracker, services.NewRandomEstimator(c.Int64("seed")), services.AggregatorOptions{
				TopRepositories:     c.Int("top"),
				ContributorsPerPage: cfg.Leaderboard.ContributorsPerPage,
				RequestDelay:        c.Duration("delay"),
			})
			leaderboard, err := services.NewLeaderboardService(org, aggregator, tracker, nil, 1)
			if err != nil {
				return err
			}

			if _, err := leaderboard.Refresh(c.Context); err != nil {
				return err
			}

			view := leaderboard.Leaderboard(models.ParsePeriod(c.String("period")))
			if err := printLeaderboard(c.App.Writer, view); err != nil {
				return err
			}

			if path := c.String("export"); path != "" {
				return exportLeaderboard(path, view)
			}
			return nil
		},
	}
}

func newDiscussionsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "discussions",
		Usage: "list stored discussions through the filter engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tab", Value: models.TabAll, Usage: "all, trending or unanswered"},
			&cli.StringFlag{Name: "category", Value: models.CategoryAll},
			&cli.StringFlag{Name: "q", Usage: "search title and body"},
			&cli.StringFlag{Name: "sort", Value: models.SortMostPopular, Usage: "most_popular, latest or oldest"},
		},
		Action: func(c *cli.Context) error {
			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			service := services.NewDiscussionService(repositories.NewDiscussionRepository(db))
			list, err := service.List(c.Context, models.DiscussionFilter{
				Tab:      c.String("tab"),
				Category: c.String("category"),
				Query:    c.String("q"),
				Sort:     c.String("sort"),
			})
			if err != nil {
				return err
			}

			return printDiscussions(c.App.Writer, list)
		},
	}
}

func newMigrateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Action: func(c *cli.Context) error {
			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(c.App.Writer, "Database ready at %s\n", cfg.Database.Path)
			return nil
		},
	}
}

func printLeaderboard(w io.Writer, view *models.LeaderboardView) error {
	if view.Message != "" {
		fmt.Fprintln(w, view.Message)
	}
	if view.Empty {
		fmt.Fprintf(w, "No contributors found for %s\n", view.Org)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tLOGIN\tSCORE\t%s\tREPOS\tACHIEVEMENTS\n", strings.ToUpper(string(view.Period)))
	for _, entry := range view.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			entry.Rank,
			entry.Login,
			entry.Score,
			entry.ContributionsFor(view.Period),
			entry.RepositoryCount,
			strings.Join(entry.Achievements, ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d contributors (%s data)\n", view.Count, view.Source)
	return nil
}

func printDiscussions(w io.Writer, list *services.DiscussionList) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REACTIONS\tCOMMENTS\tCATEGORY\tCREATED\tTITLE")
	for _, d := range list.Discussions {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", d.Reactions, d.Comments, d.CategoryName, d.CreatedAt.Format("2006-01-02"), d.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d discussions\n", list.Count, list.Total)
	return nil
}

func exportLeaderboard(path string, view *models.LeaderboardView) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return services.NewExportService().WriteLeaderboardXLSX(f, view)
}
