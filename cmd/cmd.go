package cmd

import (
	"github.com/dreamerjackson/aircrawler/cmd/crawl"
	"github.com/dreamerjackson/aircrawler/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() {
	var rootCmd = &cobra.Command{
		Use:   "aircrawler",
		Short: "crawl city and station air quality from air-level.com.",
	}
	rootCmd.AddCommand(crawl.CrawlCmd, versionCmd)
	_ = rootCmd.Execute()
}
