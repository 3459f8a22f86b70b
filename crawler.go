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

// Package sitemark is a breadth-first website crawler that converts every
// page it visits to markdown and folds the whole site into one document.
// The crawl starts from a single seed URL and stays on the seed's host;
// it can optionally be narrowed to the seed's path prefix.
package sitemark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/agentberlin/sitemark/debug"
	"github.com/agentberlin/sitemark/storage"
)

var (
	// ErrInvalidSeed is returned when the seed URL cannot be parsed or
	// has no host. Nothing is fetched in that case.
	ErrInvalidSeed = errors.New("invalid seed URL")
	// ErrInvalidURL is the base error for URLs that fail to parse
	ErrInvalidURL = errors.New("invalid URL")
	// ErrCrawlDone is returned by Visit after Run has finished
	ErrCrawlDone = errors.New("crawl already finished")
)

var crawlIDCounter uint32

// FetchError describes a failed page fetch. Fetch failures are never
// fatal to a crawl; they are reported through OnError and skipped.
type FetchError struct {
	// URL is the normalized URL that failed
	URL string
	// StatusCode is the HTTP status, or 0 when the request itself failed
	StatusCode int
	// Err is the underlying transport error, nil for HTTP-level failures
	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is one crawled page in claim order.
type Page struct {
	// URL is the normalized page URL
	URL string
	// Title is the text of the page's title element, trimmed
	Title string
	// Markdown is the page content after cleaning and conversion
	Markdown string
	// Seq is the claim sequence number; pages in a CrawlResult are
	// sorted by it
	Seq int
	// ContentHash is the page's content fingerprint when DedupContent
	// is enabled, "" otherwise
	ContentHash string
	// DuplicateOf names the first page in document order with identical
	// content, "" when the page is unique or dedup is disabled
	DuplicateOf string
}

// CrawlResult is everything a finished crawl produced.
type CrawlResult struct {
	// Seed is the normalized seed URL the crawl started from
	Seed string
	// Pages are the crawled pages sorted by claim order
	Pages []Page
	// Failed counts pages whose fetch or parse failed
	Failed int
	// Duplicates counts pages collapsed by content dedup
	Duplicates int
	// StartedAt is when Run began
	StartedAt time.Time
	// Duration is how long the crawl ran
	Duration time.Duration
}

// OnPageCrawledFunc is called after each page is converted
type OnPageCrawledFunc func(page *Page)

// OnErrorFunc is called for each non-fatal crawl error
type OnErrorFunc func(err error)

// OnCrawlCompleteFunc is called once when the frontier is exhausted or
// the crawl is stopped
type OnCrawlCompleteFunc func(result *CrawlResult)

// Crawler drives a breadth-first crawl of one site. Create it with New,
// run it with Run. A Crawler is single-use.
type Crawler struct {
	id     uint32
	seed   string
	config *Config

	scope    *Scope
	frontier *Frontier
	backend  *httpBackend
	cleaner  *Cleaner
	store    storage.Storage
	debugger debug.Debugger

	// callbackMutex guards the callback fields
	callbackMutex   sync.RWMutex
	onPageCrawled   OnPageCrawledFunc
	onError         OnErrorFunc
	onCrawlComplete OnCrawlCompleteFunc

	// mu guards the crawl state below; cond wakes the dispatch loop when
	// a worker finishes
	mu     sync.Mutex
	cond   *sync.Cond
	active int
	pages  []Page
	failed int
	dupes  int
	done   bool
}

// New creates a crawler for the given seed URL. The seed is validated and
// normalized up front; an unusable seed fails here, before any network
// traffic. config may be nil.
func New(seedURL string, config *Config) (*Crawler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()
	config.applyEnv()

	seed, err := NormalizeURL(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}
	if !strings.HasPrefix(seed, "http://") && !strings.HasPrefix(seed, "https://") {
		return nil, fmt.Errorf("%w: %q: unsupported scheme", ErrInvalidSeed, seedURL)
	}

	scope, err := NewScope(seed, config.PathScoped, config.ExcludePatterns)
	if err != nil {
		if errors.Is(err, ErrInvalidSeed) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
		}
		return nil, err
	}

	store := config.Storage
	if store == nil {
		store = &storage.InMemoryStorage{}
	}
	if err := store.Init(); err != nil {
		return nil, err
	}

	if config.Debugger != nil {
		if err := config.Debugger.Init(); err != nil {
			return nil, err
		}
	}

	backend := &httpBackend{}
	backend.Init(config.Timeout)

	c := &Crawler{
		id:       atomic.AddUint32(&crawlIDCounter, 1),
		seed:     seed,
		config:   config,
		scope:    scope,
		frontier: NewFrontier(store),
		backend:  backend,
		cleaner:  NewCleaner(config.StripMedia),
		store:    store,
		debugger: config.Debugger,
	}
	c.cond = sync.NewCond(&c.mu)
	c.frontier.Offer(seed)
	return c, nil
}

// Seed returns the normalized seed URL.
func (c *Crawler) Seed() string { return c.seed }

// WithTransport replaces the HTTP transport. Tests use this to wire in a
// MockTransport.
func (c *Crawler) WithTransport(rt http.RoundTripper) {
	c.backend.WithTransport(rt)
}

// SetOnPageCrawled registers a callback invoked after each page is
// cleaned and converted. Callbacks run on worker goroutines.
func (c *Crawler) SetOnPageCrawled(fn OnPageCrawledFunc) {
	c.callbackMutex.Lock()
	c.onPageCrawled = fn
	c.callbackMutex.Unlock()
}

// SetOnError registers a callback for non-fatal crawl errors.
func (c *Crawler) SetOnError(fn OnErrorFunc) {
	c.callbackMutex.Lock()
	c.onError = fn
	c.callbackMutex.Unlock()
}

// SetOnCrawlComplete registers a callback invoked once, with the final
// result, before Run returns.
func (c *Crawler) SetOnCrawlComplete(fn OnCrawlCompleteFunc) {
	c.callbackMutex.Lock()
	c.onCrawlComplete = fn
	c.callbackMutex.Unlock()
}

// Visit offers an extra URL to the frontier before Run. It lets callers
// widen a crawl with known entry points that no page links to.
func (c *Crawler) Visit(rawURL string) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done {
		return ErrCrawlDone
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return err
	}
	if !c.scope.Allows(normalized) {
		return nil
	}
	c.frontier.Offer(normalized)
	return nil
}

// Run executes the crawl to frontier exhaustion and returns the ordered
// result. On context cancellation it stops claiming, waits for in-flight
// pages, and returns the partial result together with the context error.
func (c *Crawler) Run(ctx context.Context) (*CrawlResult, error) {
	start := time.Now()
	pool := newWorkerPool(ctx, c.config.Parallelism, c.config.Parallelism*2)

	// A cancelled worker can exit without running its queued item, leaving
	// active permanently non-zero with nobody left to broadcast. Wake the
	// dispatch loop on cancellation so it never parks in Wait for good.
	wakerDone := make(chan struct{})
	defer close(wakerDone)
	go func() {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.cond.Broadcast()
			c.mu.Unlock()
		case <-wakerDone:
		}
	}()

	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if c.config.MaxPages > 0 && c.frontier.Claimed() >= c.config.MaxPages {
			break
		}

		url, seq, ok := c.frontier.Claim()
		if !ok {
			c.mu.Lock()
			if c.active == 0 {
				c.mu.Unlock()
				// A worker may have refilled the queue between our claim
				// attempt and its completion; re-claim before giving up.
				if c.frontier.Pending() == 0 {
					break
				}
				continue
			}
			// The waker broadcasts under mu, so checking the context here
			// closes the window between the top-of-loop check and Wait.
			if err := ctx.Err(); err != nil {
				c.mu.Unlock()
				runErr = err
				break
			}
			// Workers are still out; any of them may refill the queue.
			c.cond.Wait()
			c.mu.Unlock()
			continue
		}

		c.event("claim", seq, map[string]string{"url": url})

		c.mu.Lock()
		c.active++
		c.mu.Unlock()

		err := pool.Submit(func() {
			c.process(ctx, url, seq)
			c.mu.Lock()
			c.active--
			c.cond.Broadcast()
			c.mu.Unlock()
		})
		if err != nil {
			// Pool refused: context cancelled between claim and submit.
			c.mu.Lock()
			c.active--
			c.mu.Unlock()
			runErr = err
			break
		}
	}

	pool.Close()

	c.mu.Lock()
	c.done = true
	sort.Slice(c.pages, func(i, j int) bool { return c.pages[i].Seq < c.pages[j].Seq })
	if c.config.DedupContent {
		c.reattributeDuplicates()
	}
	result := &CrawlResult{
		Seed:       c.seed,
		Pages:      c.pages,
		Failed:     c.failed,
		Duplicates: c.dupes,
		StartedAt:  start,
		Duration:   time.Since(start),
	}
	c.mu.Unlock()

	c.event("complete", 0, map[string]string{
		"pages":  fmt.Sprint(len(result.Pages)),
		"failed": fmt.Sprint(result.Failed),
	})

	c.callbackMutex.RLock()
	complete := c.onCrawlComplete
	c.callbackMutex.RUnlock()
	if complete != nil {
		complete(result)
	}

	return result, runErr
}

// process fetches, parses and converts one claimed URL.
func (c *Crawler) process(ctx context.Context, url string, seq int) {
	c.event("fetch", seq, map[string]string{"url": url})

	res, err := c.backend.Fetch(ctx, url, c.config.UserAgent, c.config.MaxBodySize, c.config.DetectCharset)
	if err != nil {
		c.fail(seq, &FetchError{URL: url, Err: err})
		return
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.fail(seq, &FetchError{URL: url, StatusCode: res.StatusCode})
		return
	}
	if !res.IsHTML() {
		return
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		c.fail(seq, fmt.Errorf("parse %s: %w", url, err))
		return
	}

	// Links come off the raw tree; cleaning would cut chrome links that
	// the crawl still needs to follow.
	for _, link := range ExtractLinks(doc, url, c.scope) {
		c.frontier.Offer(link)
	}

	page := Page{
		URL:   url,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Seq:   seq,
	}

	if c.config.DedupContent {
		if hash, err := PageFingerprint(res.Body); err == nil {
			page.ContentHash = hash
			_ = c.store.SetContentHash(url, hash)
			if first, seen, err := c.store.MarkContentIfNew(hash, url); err == nil && seen {
				page.DuplicateOf = first
			}
		}
	}

	if page.DuplicateOf == "" {
		page.Markdown = ConvertToMarkdown(c.cleaner.Clean(doc))
	}

	c.mu.Lock()
	c.pages = append(c.pages, page)
	if page.DuplicateOf != "" {
		c.dupes++
	}
	c.mu.Unlock()

	c.event("page", seq, map[string]string{"url": url, "title": page.Title})

	c.callbackMutex.RLock()
	onPage := c.onPageCrawled
	c.callbackMutex.RUnlock()
	if onPage != nil {
		onPage(&page)
	}
}

// reattributeDuplicates repoints duplicate cross-references at the first
// page in document order with that content. Workers elect the first page
// by completion order, which under parallelism may sort after its
// duplicates; the content moves to the earliest page so that every
// cross-reference points backwards in the document. Caller holds mu and
// the pages are already sorted by Seq.
func (c *Crawler) reattributeDuplicates() {
	canonical := make(map[string]int)
	for i := range c.pages {
		page := &c.pages[i]
		if page.ContentHash == "" {
			continue
		}
		j, ok := canonical[page.ContentHash]
		if !ok {
			canonical[page.ContentHash] = i
			page.DuplicateOf = ""
			continue
		}
		first := &c.pages[j]
		if first.Markdown == "" && page.Markdown != "" {
			first.Markdown = page.Markdown
			if first.Title == "" {
				first.Title = page.Title
			}
		}
		page.DuplicateOf = first.URL
		page.Markdown = ""
	}
}

func (c *Crawler) fail(seq int, err error) {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()

	c.event("error", seq, map[string]string{"error": err.Error()})

	c.callbackMutex.RLock()
	onError := c.onError
	c.callbackMutex.RUnlock()
	if onError != nil {
		onError(err)
	}
}

func (c *Crawler) event(eventType string, seq int, values map[string]string) {
	if c.debugger == nil {
		return
	}
	c.debugger.Event(&debug.Event{
		Type:    eventType,
		CrawlID: c.id,
		Seq:     seq,
		Values:  values,
	})
}
