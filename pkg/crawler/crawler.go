// Package crawler walks Wikipedia (or any PageFetcher backend) breadth
// first from a set of seed topics, filters outgoing links by a domain
// keyword list and hands each fetched page to the extraction pipeline
// as a document.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
)

const (
	defaultMaxPages    = 100
	defaultMaxDepth    = 3
	linkContextWindow  = 100
	defaultRequestRate = 1 // requests per second
)

// DefaultSeedTopics is the stock seed list for a mathematics crawl.
var DefaultSeedTopics = []string{
	"Mathematics", "Algebra", "Calculus", "Geometry", "Topology",
	"Number theory", "Analysis", "Statistics", "Probability theory",
	"Linear algebra", "Abstract algebra", "Differential equations",
	"Complex analysis", "Real analysis", "Set theory", "Logic",
	"Graph theory", "Combinatorics", "Mathematical optimization",
	"Numerical analysis",
}

// DefaultDomainKeywords marks link titles worth following during a
// mathematics crawl. Callers supply their own list for other domains.
var DefaultDomainKeywords = []string{
	"theorem", "lemma", "proof", "equation", "formula", "function",
	"algebra", "calculus", "geometry", "topology", "analysis",
	"number", "theory", "space", "group", "field", "ring",
	"matrix", "vector", "derivative", "integral", "limit",
	"sequence", "series", "probability", "statistics", "graph",
	"set", "logic", "algorithm", "optimization", "mathematical",
}

// Page is the fetched content of a single encyclopedia page.
type Page struct {
	Title      string
	URL        string
	Summary    string
	Content    string
	Links      []string
	Categories []string
}

// PageFetcher retrieves one page by title. Implementations return
// common.ErrNotFound for missing pages and wrap transport failures in
// common.ErrUpstreamUnavailable.
type PageFetcher interface {
	Fetch(ctx context.Context, title string) (*Page, error)
}

// Crawler explores pages breadth first within page and depth bounds.
type Crawler struct {
	fetcher  PageFetcher
	keywords []string
	maxPages int
	maxDepth int
	limiter  *rate.Limiter
}

// NewCrawlerParams configures a Crawler. Zero values fall back to the
// package defaults; a nil Limiter gets the polite one-request-per-second
// default.
type NewCrawlerParams struct {
	Fetcher  PageFetcher
	Keywords []string
	MaxPages int
	MaxDepth int
	Limiter  *rate.Limiter
}

func NewCrawler(params NewCrawlerParams) *Crawler {
	c := &Crawler{
		fetcher:  params.Fetcher,
		keywords: params.Keywords,
		maxPages: params.MaxPages,
		maxDepth: params.MaxDepth,
		limiter:  params.Limiter,
	}
	if len(c.keywords) == 0 {
		c.keywords = DefaultDomainKeywords
	}
	if c.maxPages <= 0 {
		c.maxPages = defaultMaxPages
	}
	if c.maxDepth <= 0 {
		c.maxDepth = defaultMaxDepth
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Limit(defaultRequestRate), 1)
	}
	return c
}

type crawlItem struct {
	title string
	depth int
}

// Crawl walks the link graph from the seeds and invokes visit for every
// successfully fetched page. Fetch failures on individual pages are
// logged and skipped; a visit error or cancelled context stops the
// crawl.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, visit func(common.Document) error) error {
	if c.fetcher == nil {
		return fmt.Errorf("%w: crawler has no page fetcher", common.ErrInvalidInput)
	}
	if len(seeds) == 0 {
		seeds = DefaultSeedTopics
	}

	visited := make(map[string]bool)
	queue := make([]crawlItem, 0, len(seeds))
	for _, seed := range seeds {
		queue = append(queue, crawlItem{title: seed})
	}

	fetched := 0
	for len(queue) > 0 && fetched < c.maxPages {
		item := queue[0]
		queue = queue[1:]

		key := strings.ToLower(strings.TrimSpace(item.title))
		if key == "" || visited[key] {
			continue
		}
		visited[key] = true

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		page, err := c.fetcher.Fetch(ctx, item.title)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Debug("page not found, skipping", "title", item.title)
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("page fetch failed, skipping", "title", item.title, "error", err)
			continue
		}
		fetched++

		followable := c.FilterLinks(page.Content, page.Links)
		if err := visit(pageDocument(page, followable)); err != nil {
			return fmt.Errorf("visit %q: %w", page.Title, err)
		}

		if item.depth >= c.maxDepth {
			continue
		}
		for _, link := range followable {
			if !visited[strings.ToLower(link)] {
				queue = append(queue, crawlItem{title: link, depth: item.depth + 1})
			}
		}
	}

	logger.Info("crawl finished", "pages", fetched)
	return nil
}

// FilterLinks keeps links whose title contains a domain keyword, or
// whose mention in the page content sits near one.
func (c *Crawler) FilterLinks(content string, links []string) []string {
	loweredContent := strings.ToLower(content)
	kept := make([]string, 0, len(links))
	for _, link := range links {
		lowered := strings.ToLower(link)
		if containsAnyKeyword(lowered, c.keywords) {
			kept = append(kept, link)
			continue
		}
		if idx := strings.Index(loweredContent, lowered); idx >= 0 {
			start := max(0, idx-linkContextWindow)
			end := min(len(loweredContent), idx+len(lowered)+linkContextWindow)
			if containsAnyKeyword(loweredContent[start:end], c.keywords) {
				kept = append(kept, link)
			}
		}
	}
	return kept
}

func containsAnyKeyword(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func pageDocument(page *Page, links []string) common.Document {
	return common.Document{
		ID:         extract.NormalizeID(page.Title),
		Title:      page.Title,
		Text:       page.Content,
		Summary:    page.Summary,
		SourceURL:  page.URL,
		Categories: page.Categories,
		Links:      links,
	}
}
