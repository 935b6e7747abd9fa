package crawl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/infrajoy/agelens/dom"
	"github.com/infrajoy/agelens/urlx"
)

// DefaultPageLimit bounds a crawl when no limit is configured.
const DefaultPageLimit = 5

// Page is one successfully fetched and parsed page.
type Page struct {
	URL  string
	HTML string
	Doc  *dom.Document
}

// Crawler walks same-domain links breadth-first from a seed URL.
//
// State is an explicit FIFO frontier plus a seen set. URLs enter the seen
// set when enqueued, not when dequeued, so a URL is never enqueued twice.
// A fetch or parse failure skips that URL and never aborts the crawl.
type Crawler struct {
	fetcher *Fetcher
	limit   int
	logger  *slog.Logger
}

// NewCrawler creates a Crawler collecting at most limit pages.
func NewCrawler(f *Fetcher, limit int, logger *slog.Logger) *Crawler {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{fetcher: f, limit: limit, logger: logger}
}

// Crawl fetches pages sequentially starting at start, following only links
// whose lowercase host exactly matches the seed's. It returns at most the
// configured limit of pages, in discovery order.
func (c *Crawler) Crawl(ctx context.Context, start string) []Page {
	host := urlx.Host(start)
	frontier := []string{start}
	seen := map[string]bool{start: true}
	var pages []Page

	for len(frontier) > 0 && len(pages) < c.limit {
		if ctx.Err() != nil {
			break
		}
		u := frontier[0]
		frontier = frontier[1:]

		text, err := c.fetcher.Fetch(ctx, u)
		if err != nil {
			c.logger.Debug("crawl skip: fetch failed", "url", u, "error", err)
			continue
		}
		doc, err := dom.Parse(text)
		if err != nil {
			c.logger.Debug("crawl skip: parse failed", "url", u, "error", err)
			continue
		}
		pages = append(pages, Page{URL: u, HTML: text, Doc: doc})

		for _, a := range doc.Select("a[href]") {
			href := dom.Attr(a, "href")
			if href == "" || strings.HasPrefix(href, "#") {
				continue
			}
			abs := urlx.Resolve(u, href)
			if urlx.Host(abs) == host && !seen[abs] {
				seen[abs] = true
				frontier = append(frontier, abs)
			}
		}
	}
	return pages
}
