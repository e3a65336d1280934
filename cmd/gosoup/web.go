// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gosoup/internal/harvest"
	"github.com/pdiddy/gosoup/internal/httputil"
	"github.com/pdiddy/gosoup/internal/jsonl"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Harvest Go documentation sites into prompt/completion records",
	Long: `Web crawls Go by Example, the go.dev documentation and the Fyne developer
docs. Each site's index page is fetched, its content links are followed and
page structure (titles, paragraphs, images) is paired into records that are
appended to the output file as JSON Lines.

A linked page that fails is reported and skipped. An index page that fails
stops the run; records from sites already harvested stay in the file.`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().String("output", defaultWebOutputFile, "JSONL file records are appended to")
	webCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	webCmd.Flags().Duration("delay", 0, "pause between linked page fetches")
	webCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header sent with requests")
	webCmd.Flags().StringSlice("site", nil, "harvest only these sites: gobyexample, godoc, fyne (default all)")

	bindFlags(webCmd, false, map[string]string{
		"output":     keyWebOutputFile,
		"timeout":    keyWebTimeout,
		"delay":      keyWebDelay,
		"user-agent": keyWebUserAgent,
	})

	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	names, _ := cmd.Flags().GetStringSlice("site")
	cfg, err := harvestConfig(names)
	if err != nil {
		return err
	}

	sites, err := harvest.SitesFromConfig(cfg.Sites)
	if err != nil {
		return err
	}

	sink, err := jsonl.Open(cfg.OutputFile)
	if err != nil {
		return err
	}

	h := &harvest.Harvester{
		Fetcher: &httputil.Client{
			HTTP:      &http.Client{Timeout: cfg.Timeout},
			UserAgent: cfg.UserAgent,
		},
		LinkDelay: cfg.LinkDelay,
	}

	result, err := h.Run(cmd.Context(), sites, sink, os.Stdout)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "%d of %d page(s) failed\n", result.Failed, result.Total())
	}
	fmt.Printf("Done. Output saved to %s\n", cfg.OutputFile)
	return nil
}
