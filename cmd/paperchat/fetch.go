package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperchat/internal/fetch"
	"github.com/pdiddy/paperchat/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "paperchat/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [arxiv-ids...]",
	Short: "Download papers from arXiv",
	Long: `Fetch downloads paper PDFs by arXiv ID into the papers directory and
records title, authors, and abstract from the arXiv API. Existing papers are
skipped.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("papers-dir", "data/papers", "base directory for papers")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more arXiv IDs")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	papersDir, _ := cmd.Flags().GetString("papers-dir")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PapersDir: papersDir,
	}

	client := &http.Client{Timeout: cfg.Timeout}

	var failed int
	for i, id := range args {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		if _, _, err := fetch.Fetch(cmd.Context(), client, id, cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", id, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d paper(s) failed to download", failed)
	}
	return nil
}
