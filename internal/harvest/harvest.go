// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest crawls documentation sites and pairs page structure
// into prompt/completion records.
package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/net/html"

	"github.com/pdiddy/gosoup/pkg/types"
)

// Fetcher retrieves a page body. httputil.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Site harvests one documentation site. The returned error is reserved
// for the index page; linked pages that fail are recorded in the result.
type Site interface {
	Name() string
	Harvest(ctx context.Context, f Fetcher, w io.Writer) (SiteResult, error)
}

// RecordWriter receives each site's records once the site completes.
// *jsonl.Sink implements it.
type RecordWriter interface {
	Write(records ...types.Record) error
}

// Failure records a linked page that could not be harvested.
type Failure struct {
	URL string
	Err error
}

// SiteResult is the outcome of harvesting one site.
type SiteResult struct {
	Site     string
	Pages    int
	Records  []types.Record
	Failures []Failure
}

// BatchResult holds the outcome of a harvest run across sites.
type BatchResult struct {
	Sites   int
	Pages   int
	Failed  int
	Records int
}

// Total returns the number of linked pages attempted.
func (r BatchResult) Total() int {
	return r.Pages + r.Failed
}

// HasFailures reports whether any linked page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Harvester runs sites in order against a shared Fetcher.
type Harvester struct {
	Fetcher Fetcher

	// LinkDelay pauses between page fetches within a site.
	LinkDelay time.Duration
}

// Run harvests each site in order and writes its records to out as soon
// as the site completes. An index page failure or a write failure stops
// the run; records of earlier sites are already written.
func (h *Harvester) Run(ctx context.Context, sites []Site, out RecordWriter, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, site := range sites {
		fmt.Fprintf(w, "Scraping %s...\n", site.Name())

		f := h.Fetcher
		if h.LinkDelay > 0 {
			f = &pacedFetcher{next: h.Fetcher, delay: h.LinkDelay}
		}
		res, err := site.Harvest(ctx, f, w)
		result.Pages += res.Pages
		result.Failed += len(res.Failures)
		if err != nil {
			return result, fmt.Errorf("harvesting %s: %w", site.Name(), err)
		}
		fmt.Fprintf(w, "Collected %d %s entries\n", len(res.Records), site.Name())

		if len(res.Records) > 0 {
			if err := out.Write(res.Records...); err != nil {
				return result, fmt.Errorf("writing %s records: %w", site.Name(), err)
			}
		}
		result.Sites++
		result.Records += len(res.Records)
	}

	fmt.Fprintf(w, "\nHarvest summary: %d sites, %d pages, %d failed, %d records\n",
		result.Sites, result.Pages, result.Failed, result.Records)
	return result, nil
}

// pacedFetcher waits delay before every fetch after the first.
type pacedFetcher struct {
	next    Fetcher
	delay   time.Duration
	started bool
}

func (p *pacedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if p.started {
		t := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	p.started = true
	return p.next.Fetch(ctx, url)
}

// pageFunc extracts records from one linked page.
type pageFunc func(pageURL string, doc *html.Node) []types.Record

// crawl fetches the index at baseURL, follows the hrefs chosen by links
// and applies page to each. Every linked page is isolated: a failure is
// printed and recorded and the crawl moves on.
func crawl(ctx context.Context, f Fetcher, name, baseURL string, links func(*html.Node) []string, page pageFunc, w io.Writer) (SiteResult, error) {
	res := SiteResult{Site: name}

	body, err := f.Fetch(ctx, baseURL)
	if err != nil {
		return res, fmt.Errorf("fetching index %s: %w", baseURL, err)
	}
	index, err := Parse(body)
	if err != nil {
		return res, fmt.Errorf("index %s: %w", baseURL, err)
	}

	for _, href := range links(index) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		pageURL, err := Resolve(baseURL, href)
		if err != nil {
			res.fail(w, href, err)
			continue
		}
		records, err := fetchPage(ctx, f, pageURL, page)
		if err != nil {
			res.fail(w, pageURL, err)
			continue
		}
		res.Pages++
		res.Records = append(res.Records, records...)
	}
	return res, nil
}

func (r *SiteResult) fail(w io.Writer, url string, err error) {
	fmt.Fprintf(w, "failed:  %s (%v)\n", url, err)
	r.Failures = append(r.Failures, Failure{URL: url, Err: err})
}

func fetchPage(ctx context.Context, f Fetcher, pageURL string, page pageFunc) ([]types.Record, error) {
	body, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return page(pageURL, doc), nil
}
