// Package feed provides RSS feed fetching and parsing.
package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/mk-bot-cloud/my-notion-widgets/internal/domain"
	"github.com/mk-bot-cloud/my-notion-widgets/internal/ports"
)

// Source fetches and parses RSS feeds.
type Source struct {
	parser *gofeed.Parser
}

var _ ports.FeedSource = (*Source)(nil)

// NewSource builds a Source with a browser-like user agent; some feed hosts
// reject the library default.
func NewSource(userAgent string) *Source {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Source{parser: parser}
}

// Fetch parses the feed at feedURL into items the pipeline can consume.
// Items without a title or link are skipped.
func (s *Source) Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error) {
	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		fi := domain.FeedItem{
			RawTitle: item.Title,
			Link:     item.Link,
		}
		if len(item.Enclosures) > 0 {
			fi.Enclosure = item.Enclosures[0].URL
		}

		items = append(items, fi)
	}

	return items, nil
}
