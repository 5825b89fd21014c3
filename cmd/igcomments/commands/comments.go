package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"igcomments/internal/config"
	"igcomments/internal/export"
	"igcomments/internal/models"
	"igcomments/internal/scraper"

	"github.com/spf13/cobra"
)

var (
	commentsOut      string
	commentsMetadata bool
)

func init() {
	commentsCmd.Flags().StringVarP(&commentsOut, "out", "o", "", "CSV file to write (default instagram_comments_<timestamp>.csv).")
	commentsCmd.Flags().BoolVar(&commentsMetadata, "metadata", true, "Prepend the post metadata block to the CSV.")
	rootCmd.AddCommand(commentsCmd)
}

var commentsCmd = &cobra.Command{
	Use:   "comments <post-url> [scrolls]",
	Short: "Extracts the comments of one post or reel into a CSV file.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scroll := config.DefaultScrollConfig()
		scrolls := scroll.Iterations
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("scrolls must be a positive number, got %q", args[1])
			}
			scrolls = n
		}

		s := scraper.NewScraper(config.DefaultScrapeConfig(), config.DefaultSessionConfig(), scroll)
		defer s.Close()

		res, err := s.ScrapeCommentsWithTimeout(cmd.Context(), args[0], scrolls)
		if err != nil && res == nil {
			return err
		}
		if err != nil {
			slog.Warn("extraction interrupted, exporting what was collected", "err", err)
		}

		export.PrintSummary(os.Stdout, res.Records)
		slog.Info("extraction finished",
			"stop", res.Stop,
			"iterations", res.Iterations,
			"quality", res.Quality.Score,
			"seconds", res.Duration.Seconds())

		var post *models.PostMetadata
		if commentsMetadata {
			post = res.Post
		}
		sink := &export.CSVSink{Name: commentsOut}
		if _, err := sink.Export(res.Records, post); err != nil {
			if errors.Is(err, export.ErrNoRecords) {
				slog.Warn("nothing exported", "reason", res.Quality.Problem())
				return nil
			}
			return err
		}
		return nil
	},
}
