// Package lens orchestrates fetch, audit, remediation, and crawling into
// the operations the HTTP API and MCP tools expose.
//
// Everything here is sequential: one page is fetched, parsed, and processed
// to completion before the next. No state is shared between units of work;
// every audit builds its own result and every transform mutates a privately
// owned document.
package lens

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/infrajoy/agelens/audit"
	"github.com/infrajoy/agelens/crawl"
	"github.com/infrajoy/agelens/dom"
	"github.com/infrajoy/agelens/remedy"
)

// Config configures the Lens service.
type Config struct {
	Fetch    crawl.FetchConfig
	MaxPages int // crawl page limit. Default: crawl.DefaultPageLimit.
	Logger   *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxPages <= 0 {
		c.MaxPages = crawl.DefaultPageLimit
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Lens runs audits and clones over live pages.
type Lens struct {
	fetcher *crawl.Fetcher
	cfg     Config
	logger  *slog.Logger
}

// New creates a Lens.
func New(cfg Config) *Lens {
	cfg.defaults()
	return &Lens{
		fetcher: crawl.NewFetcher(cfg.Fetch),
		cfg:     cfg,
		logger:  cfg.Logger,
	}
}

// Clone is one rewritten page plus its change log.
type Clone struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	HTML    string   `json:"html"`
	Changes []string `json:"changes"`
}

// AuditURL fetches, parses, and audits a single page.
func (l *Lens) AuditURL(ctx context.Context, url string) (*audit.Result, error) {
	doc, _, err := l.fetchDoc(ctx, url)
	if err != nil {
		return nil, err
	}
	res := audit.Audit(doc, url)
	l.logger.Info("audited page", "url", url, "score", res.Score)
	return res, nil
}

// CloneURL fetches a page and produces its age-friendly rewrite.
func (l *Lens) CloneURL(ctx context.Context, url string, cfg remedy.Config) (*Clone, error) {
	doc, _, err := l.fetchDoc(ctx, url)
	if err != nil {
		return nil, err
	}
	title := dom.Text(doc.SelectOne("title"))
	changes := remedy.Transform(doc, url, remedy.BuildCSS(cfg))
	l.logger.Info("cloned page", "url", url, "changes", len(changes))
	return &Clone{URL: url, Title: title, HTML: doc.Render(), Changes: changes}, nil
}

// CrawlAudit crawls same-domain pages from start and audits each fetched
// page. Pages that fail to fetch or parse are skipped, never fatal.
func (l *Lens) CrawlAudit(ctx context.Context, start string, maxPages int) []*audit.Result {
	if maxPages <= 0 || maxPages > l.cfg.MaxPages {
		maxPages = l.cfg.MaxPages
	}
	crawler := crawl.NewCrawler(l.fetcher, maxPages, l.logger)
	pages := crawler.Crawl(ctx, start)

	results := make([]*audit.Result, 0, len(pages))
	for _, p := range pages {
		results = append(results, audit.Audit(p.Doc, p.URL))
	}
	l.logger.Info("crawl audit done", "start", start, "pages", len(results))
	return results
}

// CrawlClone crawls same-domain pages from start and rewrites each one with
// the same configuration.
func (l *Lens) CrawlClone(ctx context.Context, start string, maxPages int, cfg remedy.Config) []Clone {
	if maxPages <= 0 || maxPages > l.cfg.MaxPages {
		maxPages = l.cfg.MaxPages
	}
	crawler := crawl.NewCrawler(l.fetcher, maxPages, l.logger)
	pages := crawler.Crawl(ctx, start)

	css := remedy.BuildCSS(cfg)
	clones := make([]Clone, 0, len(pages))
	for _, p := range pages {
		title := dom.Text(p.Doc.SelectOne("title"))
		changes := remedy.Transform(p.Doc, p.URL, css)
		clones = append(clones, Clone{URL: p.URL, Title: title, HTML: p.Doc.Render(), Changes: changes})
	}
	l.logger.Info("crawl clone done", "start", start, "pages", len(clones))
	return clones
}

func (l *Lens) fetchDoc(ctx context.Context, url string) (*dom.Document, string, error) {
	text, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	doc, err := dom.Parse(text)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, text, nil
}
