// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentberlin/sitemark"
	"github.com/agentberlin/sitemark/debug"
	"github.com/agentberlin/sitemark/storage"
)

type crawlOptions struct {
	pathScope    bool
	keepMedia    bool
	parallelism  int
	maxPages     int
	exclude      []string
	dedupContent bool
	archive      string
	timeout      time.Duration
	verbose      bool
	title        string
	deriveName   bool
}

// NewRootCmd builds the sitemark command tree.
func NewRootCmd() *cobra.Command {
	opts := &crawlOptions{}

	cmd := &cobra.Command{
		Use:   "sitemark <seed-url> [output-file]",
		Short: "Crawl a website and export it as a single markdown document",
		Long: `sitemark crawls a website breadth-first starting from a seed URL,
strips navigation and other noise from every page, converts the content
to markdown, and writes all pages into one ordered document.

The crawl stays on the seed's host. With --path-scope it is further
restricted to URLs under the seed's path prefix.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.pathScope, "path-scope", false, "restrict the crawl to URLs under the seed's path prefix")
	flags.BoolVar(&opts.keepMedia, "keep-media", false, "keep images and embeds in the output (loose cleaning profile)")
	flags.IntVarP(&opts.parallelism, "parallelism", "p", 10, "number of concurrent fetch workers")
	flags.IntVar(&opts.maxPages, "max-pages", 0, "stop after crawling this many pages (0 = unlimited)")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "glob pattern for URLs to skip (repeatable)")
	flags.BoolVar(&opts.dedupContent, "dedup-content", false, "collapse pages with identical content into cross-references")
	flags.StringVar(&opts.archive, "archive", "", "also store the crawl in a SQLite database at this path")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request HTTP timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log crawl events to stderr")
	flags.StringVar(&opts.title, "title", "", "document title (default: derived from the seed URL)")
	flags.BoolVar(&opts.deriveName, "derive-name", false, "derive the output file name from the seed URL instead of output.md")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string, opts *crawlOptions) error {
	seedURL := args[0]

	config := sitemark.DefaultConfig()
	config.PathScoped = opts.pathScope
	config.StripMedia = !opts.keepMedia
	config.Parallelism = opts.parallelism
	config.MaxPages = opts.maxPages
	config.ExcludePatterns = opts.exclude
	config.DedupContent = opts.dedupContent
	config.Timeout = opts.timeout
	if opts.verbose {
		config.Debugger = &debug.LogDebugger{Output: cmd.ErrOrStderr()}
	}

	crawler, err := sitemark.New(seedURL, config)
	if err != nil {
		return err
	}

	outputFile := "output.md"
	if len(args) == 2 {
		outputFile = args[1]
	} else if opts.deriveName {
		outputFile = sitemark.DefaultOutputFile(crawler.Seed())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := crawler.Run(ctx)
	if len(result.Pages) == 0 {
		if runErr != nil {
			return fmt.Errorf("crawl interrupted before any page completed: %w", runErr)
		}
		return fmt.Errorf("no pages crawled from %s", crawler.Seed())
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	aggregator := &sitemark.Aggregator{Title: opts.title}
	if err := aggregator.Render(f, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if opts.archive != "" {
		if err := archiveRun(opts.archive, result); err != nil {
			return fmt.Errorf("failed to archive crawl: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Crawled %d pages (%d failed, %d duplicates) in %s\n",
		len(result.Pages), result.Failed, result.Duplicates, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputFile)
	return finishErr(runErr, len(result.Pages))
}

// finishErr decides the exit status once output has been written. An
// interrupted crawl still writes its partial document but exits non-zero.
func finishErr(runErr error, pages int) error {
	if runErr == nil {
		return nil
	}
	return fmt.Errorf("crawl interrupted after %d pages: %w", pages, runErr)
}

func archiveRun(dbPath string, result *sitemark.CrawlResult) error {
	archive, err := storage.OpenArchive(dbPath)
	if err != nil {
		return err
	}

	run := &storage.CrawlRun{
		Seed:      result.Seed,
		StartedAt: result.StartedAt,
		Duration:  int64(result.Duration),
		Pages:     len(result.Pages),
		Failed:    result.Failed,
	}
	pages := make([]storage.PageRecord, 0, len(result.Pages))
	for _, p := range result.Pages {
		pages = append(pages, storage.PageRecord{
			URL:         p.URL,
			Title:       p.Title,
			Markdown:    p.Markdown,
			Seq:         p.Seq,
			ContentHash: p.ContentHash,
		})
	}
	return archive.SaveRun(run, pages)
}
