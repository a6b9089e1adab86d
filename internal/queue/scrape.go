package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/crawler"
	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
)

// ProcessScrapeMessage runs a bounded crawl and feeds every fetched
// page through the extraction pipeline. Individual page failures are
// already skipped inside the crawler; a failing pipeline aborts the
// whole job so the message is retried.
func ProcessScrapeMessage(
	ctx context.Context,
	fetcher crawler.PageFetcher,
	extractor *extract.Extractor,
	msg string,
) error {
	data := new(ScrapeMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("unmarshal scrape message: %w", err)
	}

	c := crawler.NewCrawler(crawler.NewCrawlerParams{
		Fetcher:  fetcher,
		Keywords: data.Keywords,
		MaxPages: data.MaxPages,
		MaxDepth: data.MaxDepth,
	})

	pages := 0
	err := c.Crawl(ctx, data.Seeds, func(doc common.Document) error {
		result, err := extractor.Process(ctx, doc)
		if err != nil {
			return err
		}
		pages++
		logger.Debug(
			"[Queue] Page processed",
			"title", doc.Title,
			"concepts_added", result.ConceptsAdded,
			"relationships_added", result.RelationshipsAdded,
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	logger.Info("[Queue] Scrape job finished", "pages", pages)
	return nil
}
