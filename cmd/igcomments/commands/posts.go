package commands

import (
	"os"

	"igcomments/internal/config"
	"igcomments/internal/export"
	"igcomments/internal/scraper"

	"github.com/spf13/cobra"
)

var postsScrolls int

func init() {
	postsCmd.Flags().IntVar(&postsScrolls, "scrolls", 10, "How many times to scroll the profile grid.")
	rootCmd.AddCommand(postsCmd)
}

var postsCmd = &cobra.Command{
	Use:   "posts <username> [--scrolls <n>]",
	Short: "Lists the post and reel links of a profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scraper.NewScraper(config.DefaultScrapeConfig(), config.DefaultSessionConfig(), config.DefaultScrollConfig())
		defer s.Close()

		links, err := s.CollectPostLinks(cmd.Context(), args[0], postsScrolls)
		if err != nil {
			return err
		}
		export.PrintLinks(os.Stdout, links)
		return nil
	},
}
