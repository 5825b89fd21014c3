package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"igcomments/internal/config"
	"igcomments/internal/export"
	"igcomments/internal/scraper"

	"github.com/spf13/cobra"
)

const defaultUserScrolls = 70

var (
	userScrolls        int
	userProfileScrolls int
	userDir            string
)

func init() {
	userCmd.Flags().IntVar(&userScrolls, "scrolls", defaultUserScrolls, "Comment scrolls per post.")
	userCmd.Flags().IntVar(&userProfileScrolls, "profile-scrolls", 10, "How many times to scroll the profile grid.")
	userCmd.Flags().StringVar(&userDir, "dir", "", "Directory the per-post CSV files are written to.")
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Extracts the comments of every post of a profile into <username>_<n>.csv files.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		s := scraper.NewScraper(config.DefaultScrapeConfig(), config.DefaultSessionConfig(), config.DefaultScrollConfig())
		defer s.Close()

		sink := func(ctx context.Context, index int, postURL string, res *scraper.CommentsResult) error {
			out := &export.CSVSink{Dir: userDir, Name: fmt.Sprintf("%s_%d", username, index)}
			path, err := out.Export(res.Records, res.Post)
			if errors.Is(err, export.ErrNoRecords) {
				slog.Warn("no comments for post", "url", postURL)
				return nil
			}
			if err != nil {
				return err
			}
			slog.Info("post done", "index", index, "path", path, "records", len(res.Records))
			return nil
		}

		n, err := s.ScrapeUser(cmd.Context(), username, userProfileScrolls, userScrolls, sink)
		if err != nil {
			return fmt.Errorf("batch stopped after %d posts: %w", n, err)
		}
		slog.Info("batch finished", "username", username, "posts", n)
		return nil
	},
}
